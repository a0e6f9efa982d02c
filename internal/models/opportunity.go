package models

import (
	"time"

	"github.com/google/uuid"
)

// CompetitionLevel is an upstream classifier hint; "unknown" is a valid default.
type CompetitionLevel string

const (
	CompetitionLow     CompetitionLevel = "low"
	CompetitionMedium  CompetitionLevel = "medium"
	CompetitionHigh    CompetitionLevel = "high"
	CompetitionUnknown CompetitionLevel = "unknown"
)

// Opportunity is a funding program or award being evaluated for eligibility
// and fit. Immutable input to the match engine.
type Opportunity struct {
	ID                    uuid.UUID        `json:"id"`
	Title                 string           `json:"title"`
	Summary               string           `json:"summary"`
	Description           string           `json:"description"` // Full HTML description
	ExternalURL           string           `json:"external_url"`
	AgencyName            string           `json:"agency_name"`
	FundingSource         string           `json:"funding_source"` // federal, state, foundation, corporate
	ProgramCode           string           `json:"program_code"`   // e.g. CFDA/ALN number; presence implies a federal program
	OrganizationTypes     []OrgType        `json:"organization_types"`
	SmallBusinessOnly     bool             `json:"small_business_only"`
	RequiresMinorityOwned bool             `json:"requires_minority_owned"`
	RequiresWomanOwned    bool             `json:"requires_woman_owned"`
	RequiresVeteranOwned  bool             `json:"requires_veteran_owned"`
	IndustryCode          string           `json:"industry_code"` // NAICS, used to pick a size standard
	Geography             []string         `json:"geography"`     // state/city/region tokens, or "nationwide"
	AmountMin             *float64         `json:"amount_min"`
	AmountMax             *float64         `json:"amount_max"`
	DeadlineAt            *time.Time       `json:"deadline_at"` // nil for rolling opportunities
	CompetitionLevel      CompetitionLevel `json:"competition_level"`
	ProgramTypes          []string         `json:"program_types"`  // research, startup, expansion, ...
	IndustryFocus         []string         `json:"industry_focus"` // technology, healthcare, ...
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// IsFederal reports whether the opportunity should be treated as a federal
// program for registration and debarment purposes.
func (o Opportunity) IsFederal() bool {
	return o.FundingSource == "federal" || o.ProgramCode != ""
}
