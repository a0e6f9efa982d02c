package match

import (
	"time"

	"github.com/david/grant-matcher/internal/models"
)

// Breakdown keys for the fit score. Each signal's raw contribution is
// retained so callers can explain a score.
const (
	FactorProgramType    = "program_type"
	FactorCertifications = "certifications"
	FactorFundingAmount  = "funding_amount"
	FactorDeadline       = "deadline"
	FactorGeography      = "geography"
	FactorIndustry       = "industry"
	FactorCompetition    = "competition"
)

// ScoreFit computes the 0-100 suitability score for an (applicant, project,
// opportunity) triple using the current time as the deadline reference.
// It is a relevance heuristic, not a gate: it may be computed for ineligible
// opportunities.
func ScoreFit(profile models.ApplicantProfile, project models.Project, opp models.Opportunity) models.FitScoreResult {
	return ScoreFitAt(profile, project, opp, time.Now().UTC())
}

// ScoreFitAt is ScoreFit with an injected clock for deterministic tests.
func ScoreFitAt(profile models.ApplicantProfile, project models.Project, opp models.Opportunity, now time.Time) models.FitScoreResult {
	breakdown := map[string]int{}

	if project.ProjectType != "" && containsFold(opp.ProgramTypes, project.ProjectType) {
		breakdown[FactorProgramType] = 20
	}

	if pts := certificationPoints(profile, opp); pts > 0 {
		breakdown[FactorCertifications] = pts
	}
	if pts := fundingAmountPoints(project, opp); pts > 0 {
		breakdown[FactorFundingAmount] = pts
	}
	if pts := deadlinePoints(opp.DeadlineAt, now); pts > 0 {
		breakdown[FactorDeadline] = pts
	}

	if containsFold(opp.Geography, "nationwide") || (project.State != "" && containsFold(opp.Geography, project.State)) {
		breakdown[FactorGeography] = 10
	}

	if project.Industry != "" && containsFold(opp.IndustryFocus, project.Industry) {
		breakdown[FactorIndustry] = 15
	}

	switch opp.CompetitionLevel {
	case models.CompetitionLow:
		breakdown[FactorCompetition] = 10
	case models.CompetitionMedium:
		breakdown[FactorCompetition] = 5
	}

	total := 0
	for _, pts := range breakdown {
		total += pts
	}
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	return models.FitScoreResult{Score: total, Breakdown: breakdown}
}

func certificationPoints(profile models.ApplicantProfile, opp models.Opportunity) int {
	pts := 0
	if opp.RequiresMinorityOwned && profile.Certifications.MinorityOwned {
		pts += 12
	}
	if opp.RequiresWomanOwned && profile.Certifications.WomanOwned {
		pts += 12
	}
	if opp.RequiresVeteranOwned && profile.Certifications.VeteranOwned {
		pts += 12
	}
	if opp.SmallBusinessOnly && profile.Certifications.SmallBusiness {
		pts += 15
	}
	return pts
}

func fundingAmountPoints(project models.Project, opp models.Opportunity) int {
	if project.FundingNeeded == nil {
		return 0
	}
	needed := *project.FundingNeeded

	switch {
	case opp.AmountMin != nil && opp.AmountMax != nil && needed >= *opp.AmountMin && needed <= *opp.AmountMax:
		return 20 // perfect fit
	case opp.AmountMax != nil && needed <= *opp.AmountMax:
		return 12
	case opp.AmountMin != nil && needed >= *opp.AmountMin:
		return 8
	}
	return 0
}

func deadlinePoints(deadline *time.Time, now time.Time) int {
	if deadline == nil {
		return 8 // rolling
	}

	days := int(deadline.Sub(now).Hours() / 24)
	switch {
	case days > 90:
		return 5
	case days > 30:
		return 10
	case days > 14:
		return 15
	case days > 0:
		return 20
	}
	return 0 // deadline passed or today
}
