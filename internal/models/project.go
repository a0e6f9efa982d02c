package models

import (
	"time"

	"github.com/google/uuid"
)

// Project expresses an applicant's current funding intent: what they want to
// build, how much they need, and where.
type Project struct {
	ID            uuid.UUID `json:"id"`
	ProfileID     uuid.UUID `json:"profile_id"`
	Title         string    `json:"title"`
	ProjectType   string    `json:"project_type"` // matched against Opportunity.ProgramTypes
	FundingNeeded *float64  `json:"funding_needed"`
	Industry      string    `json:"industry"`
	State         string    `json:"state"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
