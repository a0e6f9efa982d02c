package api

import (
	"net/http"
	"time"

	"github.com/david/grant-matcher/internal/models"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleSeed(c echo.Context) error {
	ctx := c.Request().Context()

	seeds := []models.Opportunity{
		{
			Title:         "SBIR Phase I: Advanced Manufacturing Technologies",
			Summary:       "Early-stage R&D funding for small businesses commercializing advanced manufacturing innovations.",
			Description:   "<p>The Small Business Innovation Research program provides non-dilutive funding for US small businesses pursuing high-risk technology development with commercialization potential.</p>",
			ExternalURL:   "https://www.sbir.gov/opportunities/advanced-manufacturing",
			AgencyName:    "National Science Foundation",
			FundingSource: "federal",
			ProgramCode:   "47.041",
			SmallBusinessOnly: true,
			IndustryCode:  "541511",
			Geography:     []string{"nationwide"},
			AmountMin:     fptr(50000),
			AmountMax:     fptr(275000),
			DeadlineAt:    tptr(time.Now().UTC().AddDate(0, 2, 0)),
			CompetitionLevel: models.CompetitionHigh,
			ProgramTypes:  []string{"research", "startup"},
			IndustryFocus: []string{"technology", "manufacturing"},
		},
		{
			Title:              "Women's Business Growth Accelerator Grant",
			Summary:            "Growth capital for woman-owned small businesses in technology sectors.",
			Description:        "<p>Supports certified woman-owned businesses scaling technology products or services.</p>",
			ExternalURL:        "https://example-foundation.org/womens-growth",
			AgencyName:         "Ridgeline Foundation",
			FundingSource:      "foundation",
			SmallBusinessOnly:  true,
			RequiresWomanOwned: true,
			Geography:          []string{"nationwide"},
			AmountMin:          fptr(25000),
			AmountMax:          fptr(150000),
			CompetitionLevel:   models.CompetitionMedium,
			ProgramTypes:       []string{"expansion", "startup"},
			IndustryFocus:      []string{"technology"},
		},
		{
			Title:             "Rural Community Health Outreach Program",
			Summary:           "Federal grants for nonprofits delivering health services in rural southwest communities.",
			Description:       "<p>Funds community health workers, mobile clinics, and telehealth infrastructure in underserved rural areas.</p>",
			ExternalURL:       "https://www.grants.gov/rural-health-outreach",
			AgencyName:        "Health Resources and Services Administration",
			FundingSource:     "federal",
			ProgramCode:       "93.912",
			OrganizationTypes: []models.OrgType{models.OrgNonprofit, models.OrgGovernment},
			Geography:         []string{"southwest"},
			AmountMin:         fptr(200000),
			AmountMax:         fptr(1000000),
			DeadlineAt:        tptr(time.Now().UTC().AddDate(0, 0, 21)),
			CompetitionLevel:  models.CompetitionMedium,
			ProgramTypes:      []string{"community", "health"},
			IndustryFocus:     []string{"healthcare"},
		},
		{
			Title:            "California Climate Innovation Fund",
			Summary:          "State-backed grants for climate technology pilots located in California.",
			Description:      "<p>Supports demonstration and deployment of decarbonization technologies by California organizations.</p>",
			ExternalURL:      "https://climate.ca.gov/innovation-fund",
			AgencyName:       "California Energy Commission",
			FundingSource:    "state",
			Geography:        []string{"CA"},
			AmountMin:        fptr(100000),
			AmountMax:        fptr(2000000),
			DeadlineAt:       tptr(time.Now().UTC().AddDate(0, 4, 0)),
			CompetitionLevel: models.CompetitionLow,
			ProgramTypes:     []string{"pilot", "research"},
			IndustryFocus:    []string{"energy", "climate"},
		},
		{
			Title:                "Veteran Entrepreneur Procurement Readiness Award",
			Summary:              "Contract-readiness support for veteran-owned small businesses entering defense procurement.",
			Description:          "<p>Prepares veteran-owned firms for Department of Defense contract opportunities, including CAGE registration and compliance support.</p>",
			ExternalURL:          "https://example.org/veteran-procurement",
			AgencyName:           "Patriot Business Alliance",
			FundingSource:        "foundation",
			SmallBusinessOnly:    true,
			RequiresVeteranOwned: true,
			Geography:            []string{"nationwide"},
			AmountMin:            fptr(10000),
			AmountMax:            fptr(75000),
			CompetitionLevel:     models.CompetitionLow,
			ProgramTypes:         []string{"capacity", "startup"},
			IndustryFocus:        []string{"defense", "manufacturing"},
		},
	}

	count := 0
	for _, seed := range seeds {
		if err := s.Store.SaveOpportunity(ctx, seed); err != nil {
			c.Logger().Errorf("Failed to seed: %v", err)
			continue
		}
		count++
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Seed complete",
		"count":   count,
	})
}

func fptr(v float64) *float64     { return &v }
func tptr(t time.Time) *time.Time { return &t }
