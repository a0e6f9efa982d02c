package match

import (
	"errors"
	"fmt"
	"math"

	"github.com/david/grant-matcher/internal/models"
)

// ErrMalformedInput marks a structural invariant violation in an input
// record. The engine refuses to evaluate against invalid input rather than
// silently producing a verdict.
var ErrMalformedInput = errors.New("malformed input")

func validateInputs(profile *models.ApplicantProfile, opp *models.Opportunity) error {
	if err := validateProfile(profile); err != nil {
		return err
	}
	return validateOpportunity(opp)
}

func validateProfile(profile *models.ApplicantProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: applicant profile is nil", ErrMalformedInput)
	}
	if profile.AnnualRevenue != nil && (*profile.AnnualRevenue < 0 || isNonFinite(*profile.AnnualRevenue)) {
		return fmt.Errorf("%w: annual_revenue must be a finite non-negative number", ErrMalformedInput)
	}
	if profile.EmployeeCount != nil && *profile.EmployeeCount < 0 {
		return fmt.Errorf("%w: employee_count must be non-negative", ErrMalformedInput)
	}
	return nil
}

func validateOpportunity(opp *models.Opportunity) error {
	if opp == nil {
		return fmt.Errorf("%w: opportunity is nil", ErrMalformedInput)
	}
	if opp.AmountMin != nil && (*opp.AmountMin < 0 || isNonFinite(*opp.AmountMin)) {
		return fmt.Errorf("%w: amount_min must be a finite non-negative number", ErrMalformedInput)
	}
	if opp.AmountMax != nil && (*opp.AmountMax < 0 || isNonFinite(*opp.AmountMax)) {
		return fmt.Errorf("%w: amount_max must be a finite non-negative number", ErrMalformedInput)
	}
	if opp.AmountMin != nil && opp.AmountMax != nil && *opp.AmountMin > *opp.AmountMax {
		return fmt.Errorf("%w: amount_min %.0f exceeds amount_max %.0f", ErrMalformedInput, *opp.AmountMin, *opp.AmountMax)
	}
	return nil
}

func validateProject(project *models.Project) error {
	if project == nil {
		return fmt.Errorf("%w: project is nil", ErrMalformedInput)
	}
	if project.FundingNeeded != nil && (*project.FundingNeeded < 0 || isNonFinite(*project.FundingNeeded)) {
		return fmt.Errorf("%w: funding_needed must be a finite non-negative number", ErrMalformedInput)
	}
	return nil
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
