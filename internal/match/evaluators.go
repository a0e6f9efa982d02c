package match

import (
	"fmt"
	"strings"

	"github.com/david/grant-matcher/internal/models"
)

// EligibilityEvaluator is one rule dimension: a pure function over an
// applicant and an opportunity. Evaluators never fail on missing optional
// data; they degrade to warnings and requirements instead.
type EligibilityEvaluator func(models.ApplicantProfile, models.Opportunity) models.EligibilityCheckResult

type registeredCheck struct {
	Category models.CheckCategory
	Evaluate EligibilityEvaluator
}

// evaluationOrder is the fixed, explicit check order. Blockers, warnings and
// requirements are reported in this order, never re-sorted by severity.
var evaluationOrder = []registeredCheck{
	{models.CheckOrganizationType, evalOrganizationType},
	{models.CheckEntityEligibility, evalEntityEligibility},
	{models.CheckSizeStandard, evalSizeStandard},
	{models.CheckCertifications, evalCertifications},
	{models.CheckRegistrations, evalRegistrations},
	{models.CheckGeographic, evalGeographic},
	{models.CheckDebarment, evalDebarment},
	{models.CheckFinancialCapacity, evalFinancialCapacity},
}

func evalOrganizationType(profile models.ApplicantProfile, opp models.Opportunity) models.EligibilityCheckResult {
	if opp.SmallBusinessOnly && profile.OrgType != models.OrgForProfit {
		return models.EligibilityCheckResult{
			Eligible: false,
			Reason:   fmt.Sprintf("opportunity is restricted to small businesses (for_profit); applicant is %s", profile.OrgType),
		}
	}

	if len(opp.OrganizationTypes) > 0 {
		allowed := false
		for _, t := range opp.OrganizationTypes {
			if t == profile.OrgType {
				allowed = true
				break
			}
		}
		if !allowed {
			return models.EligibilityCheckResult{
				Eligible: false,
				Reason:   fmt.Sprintf("applicant type %s is not among allowed types: %s", profile.OrgType, joinOrgTypes(opp.OrganizationTypes)),
			}
		}
	}

	return models.EligibilityCheckResult{Eligible: true}
}

func joinOrgTypes(types []models.OrgType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// evalEntityEligibility is advisory only: it never fails, it flags
// registration paperwork a federal applicant will need.
func evalEntityEligibility(profile models.ApplicantProfile, opp models.Opportunity) models.EligibilityCheckResult {
	result := models.EligibilityCheckResult{Eligible: true}

	if opp.IsFederal() {
		if !profile.HasTaxID {
			result.Warnings = append(result.Warnings, "federal opportunities require a tax identification number (EIN)")
			result.Requirements = append(result.Requirements, "obtain an EIN from the IRS before applying")
		}
		if !profile.HasUEI {
			result.Warnings = append(result.Warnings, "federal opportunities require a Unique Entity Identifier (UEI)")
			result.Requirements = append(result.Requirements, "request a UEI through SAM.gov entity registration")
		}
	}

	if profile.OrgType == models.OrgNonprofit && !profile.TaxExempt {
		result.Warnings = append(result.Warnings, "nonprofit applicant without confirmed tax-exempt status; some funders require a 501(c)(3) determination")
	}

	return result
}

func evalSizeStandard(profile models.ApplicantProfile, opp models.Opportunity) models.EligibilityCheckResult {
	if !detectSmallBusinessProgram(opp) {
		return models.EligibilityCheckResult{Eligible: true}
	}

	code := profile.IndustryCode
	if code == "" {
		code = opp.IndustryCode
	}
	std := LookupSizeStandard(code)

	switch std.Type {
	case StandardRevenue:
		if profile.AnnualRevenue == nil {
			return models.EligibilityCheckResult{
				Eligible: true,
				Warnings: []string{fmt.Sprintf("annual revenue unknown; verify it is below the $%.0f size standard for this program", std.Threshold)},
			}
		}
		if *profile.AnnualRevenue >= std.Threshold {
			return models.EligibilityCheckResult{
				Eligible: false,
				Reason:   fmt.Sprintf("annual revenue $%.0f meets or exceeds the $%.0f small business size standard", *profile.AnnualRevenue, std.Threshold),
			}
		}
	case StandardEmployees:
		if profile.EmployeeCount == nil {
			return models.EligibilityCheckResult{
				Eligible: true,
				Warnings: []string{fmt.Sprintf("employee count unknown; verify it is below the %.0f-employee size standard for this program", std.Threshold)},
			}
		}
		if float64(*profile.EmployeeCount) >= std.Threshold {
			return models.EligibilityCheckResult{
				Eligible: false,
				Reason:   fmt.Sprintf("%d employees meets or exceeds the %.0f-employee small business size standard", *profile.EmployeeCount, std.Threshold),
			}
		}
	}

	return models.EligibilityCheckResult{Eligible: true}
}

func evalCertifications(profile models.ApplicantProfile, opp models.Opportunity) models.EligibilityCheckResult {
	var missing, advantages []string

	type certRule struct {
		name     string
		required bool
		held     bool
	}
	rules := []certRule{
		{"minority-owned", opp.RequiresMinorityOwned, profile.Certifications.MinorityOwned},
		{"woman-owned", opp.RequiresWomanOwned, profile.Certifications.WomanOwned},
		{"veteran-owned", opp.RequiresVeteranOwned, profile.Certifications.VeteranOwned},
	}
	for _, rule := range rules {
		switch {
		case rule.required && !rule.held:
			missing = append(missing, rule.name)
		case rule.required && rule.held:
			advantages = append(advantages, fmt.Sprintf("%s certification meets this opportunity's requirement", rule.name))
		case rule.held:
			advantages = append(advantages, fmt.Sprintf("%s certification may strengthen the application", rule.name))
		}
	}

	if detectHUBZoneProgram(opp) && !profile.Certifications.HUBZone {
		missing = append(missing, "HUBZone")
	}

	if len(missing) > 0 {
		requirements := make([]string, 0, len(missing))
		for _, name := range missing {
			requirements = append(requirements, fmt.Sprintf("obtain %s certification", name))
		}
		return models.EligibilityCheckResult{
			Eligible:     false,
			Reason:       fmt.Sprintf("missing required certifications: %s", strings.Join(missing, ", ")),
			Requirements: requirements,
			Advantages:   advantages,
		}
	}

	return models.EligibilityCheckResult{Eligible: true, Advantages: advantages}
}

// evalRegistrations is advisory only: registrations can be completed before
// award, so gaps warn rather than block.
func evalRegistrations(profile models.ApplicantProfile, opp models.Opportunity) models.EligibilityCheckResult {
	result := models.EligibilityCheckResult{Eligible: true}

	if opp.IsFederal() {
		if !profile.Registrations.FederalAwards {
			result.Warnings = append(result.Warnings, "not registered in SAM.gov; registration is required before a federal award")
			result.Requirements = append(result.Requirements, "complete SAM.gov entity registration")
		}
		if !profile.Registrations.GrantsPortal {
			result.Warnings = append(result.Warnings, "no Grants.gov applicant account on file")
			result.Requirements = append(result.Requirements, "create a Grants.gov applicant account")
		}
	}

	if detectContractProgram(opp) && !profile.Registrations.CommercialCode {
		result.Warnings = append(result.Warnings, "contract-style opportunity detected; a CAGE code is typically required")
	}

	return result
}

func evalGeographic(profile models.ApplicantProfile, opp models.Opportunity) models.EligibilityCheckResult {
	if len(opp.Geography) == 0 || containsFold(opp.Geography, "nationwide") {
		return models.EligibilityCheckResult{Eligible: true}
	}

	for _, token := range opp.Geography {
		if strings.EqualFold(strings.TrimSpace(token), strings.TrimSpace(profile.State)) {
			return models.EligibilityCheckResult{Eligible: true}
		}
		if profile.City != "" && strings.EqualFold(strings.TrimSpace(token), strings.TrimSpace(profile.City)) {
			return models.EligibilityCheckResult{Eligible: true}
		}
		if stateInRegion(profile.State, token) {
			return models.EligibilityCheckResult{Eligible: true}
		}
	}

	return models.EligibilityCheckResult{
		Eligible: false,
		Reason:   fmt.Sprintf("applicant location %s is outside the eligible geography: %s", profile.State, strings.Join(opp.Geography, ", ")),
	}
}

func evalDebarment(profile models.ApplicantProfile, opp models.Opportunity) models.EligibilityCheckResult {
	if opp.IsFederal() && profile.DebarmentStatus == models.DebarmentDebarred {
		return models.EligibilityCheckResult{
			Eligible: false,
			Reason:   "applicant is debarred from federal awards; debarment must be resolved before applying",
		}
	}
	return models.EligibilityCheckResult{Eligible: true}
}

// minAwardAuditThreshold is the single-audit trigger for federal awards.
const minAwardAuditThreshold = 750000

// evalFinancialCapacity is advisory only: it flags awards that look large
// relative to the applicant's revenue.
func evalFinancialCapacity(profile models.ApplicantProfile, opp models.Opportunity) models.EligibilityCheckResult {
	result := models.EligibilityCheckResult{Eligible: true}
	if opp.AmountMin == nil {
		return result
	}

	if profile.AnnualRevenue == nil || *opp.AmountMin > *profile.AnnualRevenue/2 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("minimum award $%.0f is large relative to annual revenue; funder may require demonstrated financial capacity", *opp.AmountMin))
	}

	if *opp.AmountMin > minAwardAuditThreshold && !profile.AuditCompleted {
		result.Requirements = append(result.Requirements, "an independent audit may be required for awards above $750,000")
	}

	return result
}
