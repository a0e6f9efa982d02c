package match

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/david/grant-matcher/internal/models"
)

// cleanProfile passes every check with no warnings: registered for-profit
// small business in California.
func cleanProfile() models.ApplicantProfile {
	return models.ApplicantProfile{
		OrgType:       models.OrgForProfit,
		IndustryCode:  "541511",
		AnnualRevenue: fptr(2000000),
		EmployeeCount: iptr(40),
		HasTaxID:      true,
		HasUEI:        true,
		Certifications: models.Certifications{
			WomanOwned:    true,
			SmallBusiness: true,
		},
		Registrations: models.Registrations{
			FederalAwards:  true,
			GrantsPortal:   true,
			CommercialCode: true,
		},
		DebarmentStatus: models.DebarmentClear,
		State:           "CA",
		City:            "San Jose",
		AuditCompleted:  true,
	}
}

func TestCheckEligibility_SmallBusinessScenario(t *testing.T) {
	profile := cleanProfile()
	opp := models.Opportunity{
		Title:              "Woman-Owned Small Business Innovation Award",
		SmallBusinessOnly:  true,
		RequiresWomanOwned: true,
		IndustryCode:       "541511",
	}

	verdict, err := CheckEligibility(&profile, &opp)
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.Eligible {
		t.Fatalf("expected eligible, blockers: %v", verdict.Blockers)
	}
	if verdict.Confidence != 100 {
		t.Fatalf("expected confidence 100, got %d", verdict.Confidence)
	}
	if len(verdict.Blockers) != 0 {
		t.Fatalf("expected no blockers, got %v", verdict.Blockers)
	}
	certs := verdict.Checks[models.CheckCertifications]
	if len(certs.Advantages) == 0 {
		t.Fatal("expected the matching woman-owned certification to be noted as an advantage")
	}
}

func TestCheckEligibility_OrgTypeBlocker(t *testing.T) {
	profile := models.ApplicantProfile{OrgType: models.OrgNonprofit, TaxExempt: true}
	opp := models.Opportunity{OrganizationTypes: []models.OrgType{models.OrgForProfit}}

	verdict, err := CheckEligibility(&profile, &opp)
	if err != nil {
		t.Fatal(err)
	}
	if verdict.Eligible {
		t.Fatal("expected ineligible")
	}
	if len(verdict.Blockers) != 1 {
		t.Fatalf("expected exactly one blocker, got %v", verdict.Blockers)
	}
	if verdict.Blockers[0].Category != models.CheckOrganizationType {
		t.Fatalf("expected organization_type blocker, got %s", verdict.Blockers[0].Category)
	}
}

func TestCheckEligibility_WarningPenaltyIsFlat(t *testing.T) {
	// Nonprofit without tax-exempt status on a federal opportunity trips
	// warnings in several checks, but the penalty is a single -10.
	profile := models.ApplicantProfile{
		OrgType:         models.OrgNonprofit,
		DebarmentStatus: models.DebarmentClear,
		State:           "NY",
	}
	opp := models.Opportunity{
		FundingSource:     "federal",
		OrganizationTypes: []models.OrgType{models.OrgNonprofit},
	}

	verdict, err := CheckEligibility(&profile, &opp)
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.Eligible {
		t.Fatalf("advisory warnings must not block, blockers: %v", verdict.Blockers)
	}
	if len(verdict.Warnings) < 2 {
		t.Fatalf("expected multiple warnings, got %v", verdict.Warnings)
	}
	// All 8 checks pass, multiple checks carry warnings: 100 - 10, not less.
	if verdict.Confidence != 90 {
		t.Fatalf("expected confidence 90, got %d", verdict.Confidence)
	}
}

func TestCheckEligibility_ConfidenceReflectsFailedChecks(t *testing.T) {
	profile := models.ApplicantProfile{
		OrgType:         models.OrgForProfit,
		DebarmentStatus: models.DebarmentDebarred,
		State:           "FL",
	}
	opp := models.Opportunity{
		FundingSource: "federal",
		Geography:     []string{"CA"},
	}

	verdict, err := CheckEligibility(&profile, &opp)
	if err != nil {
		t.Fatal(err)
	}
	if verdict.Eligible {
		t.Fatal("expected ineligible")
	}
	// Geographic and debarment fail: 6/8 = 75, minus 10 for the federal
	// registration warnings.
	if verdict.Confidence != 65 {
		t.Fatalf("expected confidence 65, got %d", verdict.Confidence)
	}

	// Blockers follow evaluation order: geographic before debarment.
	if len(verdict.Blockers) != 2 {
		t.Fatalf("expected 2 blockers, got %v", verdict.Blockers)
	}
	if verdict.Blockers[0].Category != models.CheckGeographic || verdict.Blockers[1].Category != models.CheckDebarment {
		t.Fatalf("blockers out of evaluation order: %v", verdict.Blockers)
	}
}

func TestCheckEligibility_MalformedInput(t *testing.T) {
	profile := cleanProfile()

	tests := []struct {
		name    string
		profile *models.ApplicantProfile
		opp     *models.Opportunity
	}{
		{
			name:    "nil profile",
			profile: nil,
			opp:     &models.Opportunity{},
		},
		{
			name:    "nil opportunity",
			profile: &profile,
			opp:     nil,
		},
		{
			name:    "negative revenue",
			profile: &models.ApplicantProfile{AnnualRevenue: fptr(-1)},
			opp:     &models.Opportunity{},
		},
		{
			name:    "amount range inverted",
			profile: &profile,
			opp:     &models.Opportunity{AmountMin: fptr(500000), AmountMax: fptr(100000)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckEligibility(tt.profile, tt.opp)
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestCheckEligibility_Idempotent(t *testing.T) {
	profile := models.ApplicantProfile{
		OrgType:       models.OrgNonprofit,
		State:         "TX",
		AnnualRevenue: fptr(350000),
	}
	opp := models.Opportunity{
		Title:         "Rural Health Outreach Grant",
		FundingSource: "federal",
		Geography:     []string{"southwest"},
		AmountMin:     fptr(250000),
	}

	first, err := CheckEligibility(&profile, &opp)
	if err != nil {
		t.Fatal(err)
	}
	second, err := CheckEligibility(&profile, &opp)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("verdicts differ between identical calls:\n%s\n%s", a, b)
	}
}

func TestCheckEligibility_ConfidenceBounds(t *testing.T) {
	// Worst realistic case: several failing checks plus warnings must still
	// clamp to [0,100].
	profile := models.ApplicantProfile{
		OrgType:         models.OrgIndividual,
		DebarmentStatus: models.DebarmentDebarred,
	}
	opp := models.Opportunity{
		Title:              "HUBZone SBIR Defense Contract",
		FundingSource:      "federal",
		SmallBusinessOnly:  true,
		RequiresWomanOwned: true,
		Geography:          []string{"CA"},
		AmountMin:          fptr(1000000),
	}

	verdict, err := CheckEligibility(&profile, &opp)
	if err != nil {
		t.Fatal(err)
	}
	if verdict.Confidence < 0 || verdict.Confidence > 100 {
		t.Fatalf("confidence out of bounds: %d", verdict.Confidence)
	}
	if verdict.Eligible {
		t.Fatal("expected ineligible")
	}
}
