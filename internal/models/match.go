package models

// CheckCategory identifies one eligibility rule dimension.
type CheckCategory string

const (
	CheckOrganizationType  CheckCategory = "organization_type"
	CheckEntityEligibility CheckCategory = "entity_eligibility"
	CheckSizeStandard      CheckCategory = "size_standard"
	CheckCertifications    CheckCategory = "certifications"
	CheckRegistrations     CheckCategory = "registrations"
	CheckGeographic        CheckCategory = "geographic"
	CheckDebarment         CheckCategory = "debarment"
	CheckFinancialCapacity CheckCategory = "financial_capacity"
)

// EligibilityCheckResult is the outcome of a single rule evaluation.
// Reason is set whenever Eligible is false.
type EligibilityCheckResult struct {
	Eligible     bool     `json:"eligible"`
	Reason       string   `json:"reason,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Advantages   []string `json:"advantages,omitempty"`
}

// Blocker records a failing check that prevents overall eligibility.
type Blocker struct {
	Category CheckCategory `json:"category"`
	Reason   string        `json:"reason"`
}

// EligibilityVerdict aggregates all check results for one
// (applicant, opportunity) pair.
type EligibilityVerdict struct {
	Eligible     bool                                     `json:"eligible"`
	Confidence   int                                      `json:"confidence"` // 0-100
	Checks       map[CheckCategory]EligibilityCheckResult `json:"checks"`
	Warnings     []string                                 `json:"warnings"`
	Requirements []string                                 `json:"requirements"`
	Blockers     []Blocker                                `json:"blockers"`
}

// FitScoreResult is a 0-100 suitability score with a per-signal breakdown
// for explainability. Independent of the eligibility verdict.
type FitScoreResult struct {
	Score     int            `json:"score"`
	Breakdown map[string]int `json:"breakdown"`
}

// RankedResult is an Opportunity decorated with its verdict and fit score;
// the unit returned by the ranking pipeline.
type RankedResult struct {
	Opportunity Opportunity        `json:"opportunity"`
	Verdict     EligibilityVerdict `json:"verdict"`
	Fit         FitScoreResult     `json:"fit"`
}
