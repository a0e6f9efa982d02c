package match

import (
	"testing"
	"time"

	"github.com/david/grant-matcher/internal/models"
)

var scoreNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func deadlineIn(days int) *time.Time {
	t := scoreNow.Add(time.Duration(days) * 24 * time.Hour)
	return &t
}

func TestScoreFitAt_FundingAmount(t *testing.T) {
	tests := []struct {
		name       string
		needed     *float64
		amountMin  *float64
		amountMax  *float64
		wantPoints int
	}{
		{
			name:       "within range is a perfect fit",
			needed:     fptr(100000),
			amountMin:  fptr(50000),
			amountMax:  fptr(300000),
			wantPoints: 20,
		},
		{
			name:       "below minimum but under max",
			needed:     fptr(30000),
			amountMin:  fptr(50000),
			amountMax:  fptr(300000),
			wantPoints: 12,
		},
		{
			name:       "above maximum but over min",
			needed:     fptr(500000),
			amountMin:  fptr(50000),
			amountMax:  fptr(300000),
			wantPoints: 8,
		},
		{
			name:       "max only and under it",
			needed:     fptr(100000),
			amountMax:  fptr(300000),
			wantPoints: 12,
		},
		{
			name:       "no funding needed scores nothing",
			amountMin:  fptr(50000),
			amountMax:  fptr(300000),
			wantPoints: 0,
		},
		{
			name:       "no range scores nothing",
			needed:     fptr(100000),
			wantPoints: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := models.Project{FundingNeeded: tt.needed}
			opp := models.Opportunity{AmountMin: tt.amountMin, AmountMax: tt.amountMax}

			result := ScoreFitAt(models.ApplicantProfile{}, project, opp, scoreNow)
			if result.Breakdown[FactorFundingAmount] != tt.wantPoints {
				t.Errorf("expected %d funding points, got %d", tt.wantPoints, result.Breakdown[FactorFundingAmount])
			}
		})
	}
}

func TestScoreFitAt_FundingAmountMonotonic(t *testing.T) {
	// Raising amount_max to cover the needed amount must not lower the
	// funding contribution.
	project := models.Project{FundingNeeded: fptr(400000)}
	before := ScoreFitAt(models.ApplicantProfile{}, project,
		models.Opportunity{AmountMin: fptr(50000), AmountMax: fptr(300000)}, scoreNow)
	after := ScoreFitAt(models.ApplicantProfile{}, project,
		models.Opportunity{AmountMin: fptr(50000), AmountMax: fptr(500000)}, scoreNow)

	if after.Breakdown[FactorFundingAmount] < before.Breakdown[FactorFundingAmount] {
		t.Fatalf("widening the range decreased funding points: %d -> %d",
			before.Breakdown[FactorFundingAmount], after.Breakdown[FactorFundingAmount])
	}
}

func TestScoreFitAt_DeadlineUrgency(t *testing.T) {
	tests := []struct {
		name       string
		deadline   *time.Time
		wantPoints int
	}{
		{name: "10 days out", deadline: deadlineIn(10), wantPoints: 20},
		{name: "20 days out", deadline: deadlineIn(20), wantPoints: 15},
		{name: "60 days out", deadline: deadlineIn(60), wantPoints: 10},
		{name: "200 days out", deadline: deadlineIn(200), wantPoints: 5},
		{name: "rolling gets flat points", deadline: nil, wantPoints: 8},
		{name: "passed deadline scores nothing", deadline: deadlineIn(-5), wantPoints: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opp := models.Opportunity{DeadlineAt: tt.deadline}
			result := ScoreFitAt(models.ApplicantProfile{}, models.Project{}, opp, scoreNow)
			if result.Breakdown[FactorDeadline] != tt.wantPoints {
				t.Errorf("expected %d deadline points, got %d", tt.wantPoints, result.Breakdown[FactorDeadline])
			}
		})
	}
}

func TestScoreFitAt_Certifications(t *testing.T) {
	profile := models.ApplicantProfile{
		Certifications: models.Certifications{
			MinorityOwned: true,
			WomanOwned:    true,
			SmallBusiness: true,
		},
	}
	opp := models.Opportunity{
		RequiresMinorityOwned: true,
		RequiresWomanOwned:    true,
		RequiresVeteranOwned:  true, // not held, no points
		SmallBusinessOnly:     true,
	}

	result := ScoreFitAt(profile, models.Project{}, opp, scoreNow)
	// 12 + 12 for matched certs, 15 for small business set-aside.
	if result.Breakdown[FactorCertifications] != 39 {
		t.Fatalf("expected 39 certification points, got %d", result.Breakdown[FactorCertifications])
	}
}

func TestScoreFitAt_CompetitionLevel(t *testing.T) {
	tests := []struct {
		level      models.CompetitionLevel
		wantPoints int
	}{
		{models.CompetitionLow, 10},
		{models.CompetitionMedium, 5},
		{models.CompetitionHigh, 0},
		{models.CompetitionUnknown, 0},
		{"", 0}, // absent upstream classification must not fail
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			opp := models.Opportunity{CompetitionLevel: tt.level}
			result := ScoreFitAt(models.ApplicantProfile{}, models.Project{}, opp, scoreNow)
			if result.Breakdown[FactorCompetition] != tt.wantPoints {
				t.Errorf("expected %d competition points, got %d", tt.wantPoints, result.Breakdown[FactorCompetition])
			}
		})
	}
}

func TestScoreFitAt_AlignmentSignals(t *testing.T) {
	profile := models.ApplicantProfile{}
	project := models.Project{
		ProjectType: "research",
		Industry:    "Technology",
		State:       "CO",
	}
	opp := models.Opportunity{
		ProgramTypes:  []string{"research", "pilot"},
		IndustryFocus: []string{"technology"},
		Geography:     []string{"CO", "UT"},
	}

	result := ScoreFitAt(profile, project, opp, scoreNow)
	if result.Breakdown[FactorProgramType] != 20 {
		t.Errorf("expected 20 program type points, got %d", result.Breakdown[FactorProgramType])
	}
	if result.Breakdown[FactorIndustry] != 15 {
		t.Errorf("expected 15 industry points (case-insensitive), got %d", result.Breakdown[FactorIndustry])
	}
	if result.Breakdown[FactorGeography] != 10 {
		t.Errorf("expected 10 geography points, got %d", result.Breakdown[FactorGeography])
	}
}

func TestScoreFitAt_ClampedTo100(t *testing.T) {
	profile := models.ApplicantProfile{
		Certifications: models.Certifications{
			MinorityOwned: true,
			WomanOwned:    true,
			VeteranOwned:  true,
			SmallBusiness: true,
		},
	}
	project := models.Project{
		ProjectType:   "research",
		Industry:      "technology",
		State:         "CA",
		FundingNeeded: fptr(100000),
	}
	opp := models.Opportunity{
		ProgramTypes:          []string{"research"},
		IndustryFocus:         []string{"technology"},
		Geography:             []string{"nationwide"},
		AmountMin:             fptr(50000),
		AmountMax:             fptr(300000),
		DeadlineAt:            deadlineIn(7),
		RequiresMinorityOwned: true,
		RequiresWomanOwned:    true,
		RequiresVeteranOwned:  true,
		SmallBusinessOnly:     true,
		CompetitionLevel:      models.CompetitionLow,
	}

	result := ScoreFitAt(profile, project, opp, scoreNow)
	if result.Score != 100 {
		t.Fatalf("expected score clamped to 100, got %d", result.Score)
	}

	// Raw contributions stay unclamped in the breakdown.
	total := 0
	for _, pts := range result.Breakdown {
		total += pts
	}
	if total <= 100 {
		t.Fatalf("expected raw breakdown above 100, got %d", total)
	}
}
