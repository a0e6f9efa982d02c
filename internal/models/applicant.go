package models

import (
	"time"

	"github.com/google/uuid"
)

// OrgType is the legal form of an applicant organization.
type OrgType string

const (
	OrgNonprofit  OrgType = "nonprofit"
	OrgForProfit  OrgType = "for_profit"
	OrgGovernment OrgType = "government"
	OrgIndividual OrgType = "individual"
)

// DebarmentStatus reflects whether the applicant appears on an exclusion list.
type DebarmentStatus string

const (
	DebarmentClear    DebarmentStatus = "clear"
	DebarmentDebarred DebarmentStatus = "debarred"
)

// Certifications holds the socioeconomic certification flags an applicant may carry.
type Certifications struct {
	MinorityOwned bool `json:"minority_owned"`
	WomanOwned    bool `json:"woman_owned"`
	VeteranOwned  bool `json:"veteran_owned"`
	HUBZone       bool `json:"hubzone"`
	SmallBusiness bool `json:"small_business"`
}

// Registrations holds the applicant's standing in external registration systems.
type Registrations struct {
	FederalAwards  bool `json:"federal_awards"`  // SAM.gov entity registration
	GrantsPortal   bool `json:"grants_portal"`   // Grants.gov applicant account
	CommercialCode bool `json:"commercial_code"` // CAGE/NCAGE code assigned
}

// ApplicantProfile describes a funding-seeking organization. Numeric fields
// are nil when unknown, never zero-as-missing.
type ApplicantProfile struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	OrgType         OrgType         `json:"org_type"`
	IndustryCode    string          `json:"industry_code"` // NAICS
	AnnualRevenue   *float64        `json:"annual_revenue"`
	EmployeeCount   *int            `json:"employee_count"`
	HasTaxID        bool            `json:"has_tax_id"`
	HasUEI          bool            `json:"has_uei"`
	TaxExempt       bool            `json:"tax_exempt"`
	Certifications  Certifications  `json:"certifications"`
	Registrations   Registrations   `json:"registrations"`
	DebarmentStatus DebarmentStatus `json:"debarment_status"`
	State           string          `json:"state"`
	City            string          `json:"city"`
	AuditCompleted  bool            `json:"audit_completed"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
