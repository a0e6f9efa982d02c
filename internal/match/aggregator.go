package match

import (
	"math"

	"github.com/david/grant-matcher/internal/models"
)

// warningPenalty is a flat confidence deduction applied once when any check
// carries warnings, regardless of how many. Callers tune thresholds against
// this exact behavior, so it is not scaled per warning.
const warningPenalty = 10

// CheckEligibility runs every rule evaluator against the pair and aggregates
// the results into a single verdict. It validates structural invariants
// first and returns ErrMalformedInput before any evaluator runs if the
// inputs are unusable.
func CheckEligibility(profile *models.ApplicantProfile, opp *models.Opportunity) (models.EligibilityVerdict, error) {
	if err := validateInputs(profile, opp); err != nil {
		return models.EligibilityVerdict{}, err
	}
	return aggregate(*profile, *opp), nil
}

func aggregate(profile models.ApplicantProfile, opp models.Opportunity) models.EligibilityVerdict {
	verdict := models.EligibilityVerdict{
		Eligible:     true,
		Checks:       make(map[models.CheckCategory]models.EligibilityCheckResult, len(evaluationOrder)),
		Warnings:     []string{},
		Requirements: []string{},
		Blockers:     []models.Blocker{},
	}

	passed := 0
	hasWarnings := false
	for _, check := range evaluationOrder {
		result := check.Evaluate(profile, opp)
		verdict.Checks[check.Category] = result

		if result.Eligible {
			passed++
		} else {
			verdict.Eligible = false
			verdict.Blockers = append(verdict.Blockers, models.Blocker{
				Category: check.Category,
				Reason:   result.Reason,
			})
		}

		if len(result.Warnings) > 0 {
			hasWarnings = true
		}
		verdict.Warnings = append(verdict.Warnings, result.Warnings...)
		verdict.Requirements = append(verdict.Requirements, result.Requirements...)
	}

	confidence := int(math.Round(100 * float64(passed) / float64(len(evaluationOrder))))
	if hasWarnings {
		confidence -= warningPenalty
	}
	if confidence < 0 {
		confidence = 0
	}
	verdict.Confidence = confidence

	return verdict
}
