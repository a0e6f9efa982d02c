package db

import (
	"context"
	"fmt"
	"time"

	"github.com/david/grant-matcher/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/microcosm-cc/bluemonday"
)

type Store struct {
	pool     *pgxpool.Pool
	sanitize *bluemonday.Policy
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:     pool,
		sanitize: bluemonday.UGCPolicy(),
	}
}

type ListParams struct {
	FundingSource     string
	SmallBusinessOnly *bool
	OrgType           string // keeps only opportunities open to this org type
	State             string
	MinAmount         float64
	MaxAmount         float64
	DeadlineDays      int // only opportunities closing within N days (rolling always kept)
	Limit             int
	Offset            int
}

type ListResult struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Total         int                  `json:"total"`
	Limit         int                  `json:"limit"`
	Offset        int                  `json:"offset"`
}

const opportunityCols = `id, title, summary, description_html, external_url, agency_name,
	funding_source, program_code, organization_types, small_business_only,
	requires_minority_owned, requires_woman_owned, requires_veteran_owned,
	industry_code, geography, amount_min, amount_max, deadline_at,
	competition_level, program_types, industry_focus, created_at, updated_at`

// buildListWhere translates ListParams into a WHERE clause and args. Split
// out for testability.
func buildListWhere(params ListParams) (string, []interface{}) {
	where := "WHERE 1=1"
	var args []interface{}
	argIdx := 1

	if params.FundingSource != "" {
		where += fmt.Sprintf(" AND funding_source = $%d", argIdx)
		args = append(args, params.FundingSource)
		argIdx++
	}
	if params.SmallBusinessOnly != nil {
		where += fmt.Sprintf(" AND small_business_only = $%d", argIdx)
		args = append(args, *params.SmallBusinessOnly)
		argIdx++
	}
	if params.OrgType != "" {
		where += fmt.Sprintf(" AND (organization_types = '{}' OR $%d = ANY(organization_types))", argIdx)
		args = append(args, params.OrgType)
		argIdx++
	}
	if params.State != "" {
		where += fmt.Sprintf(" AND (geography = '{}' OR 'nationwide' = ANY(geography) OR $%d = ANY(geography))", argIdx)
		args = append(args, params.State)
		argIdx++
	}
	if params.MinAmount > 0 {
		where += fmt.Sprintf(" AND amount_max >= $%d", argIdx)
		args = append(args, params.MinAmount)
		argIdx++
	}
	if params.MaxAmount > 0 {
		where += fmt.Sprintf(" AND amount_min <= $%d", argIdx)
		args = append(args, params.MaxAmount)
		argIdx++
	}
	if params.DeadlineDays > 0 {
		where += fmt.Sprintf(`
			AND (
				deadline_at IS NULL
				OR (deadline_at >= NOW() AND deadline_at <= NOW() + ($%d * INTERVAL '1 day'))
			)
		`, argIdx)
		args = append(args, params.DeadlineDays)
		argIdx++
	}

	return where, args
}

func (s *Store) ListOpportunities(ctx context.Context, params ListParams) (*ListResult, error) {
	where, args := buildListWhere(params)

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM opportunities "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count opportunities: %w", err)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(
		"SELECT %s FROM opportunities %s ORDER BY deadline_at ASC NULLS LAST, created_at DESC LIMIT %d OFFSET %d",
		opportunityCols, where, limit, offset,
	)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	defer rows.Close()

	opps := []models.Opportunity{}
	for rows.Next() {
		opp, err := scanOpportunity(rows.Scan)
		if err != nil {
			return nil, err
		}
		opps = append(opps, opp)
	}

	return &ListResult{Opportunities: opps, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Store) GetOpportunity(ctx context.Context, id uuid.UUID) (models.Opportunity, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM opportunities WHERE id = $1", opportunityCols), id)
	return scanOpportunity(row.Scan)
}

func scanOpportunity(scan func(dest ...interface{}) error) (models.Opportunity, error) {
	var o models.Opportunity
	var orgTypes []string

	err := scan(
		&o.ID, &o.Title, &o.Summary, &o.Description, &o.ExternalURL, &o.AgencyName,
		&o.FundingSource, &o.ProgramCode, &orgTypes, &o.SmallBusinessOnly,
		&o.RequiresMinorityOwned, &o.RequiresWomanOwned, &o.RequiresVeteranOwned,
		&o.IndustryCode, &o.Geography, &o.AmountMin, &o.AmountMax, &o.DeadlineAt,
		&o.CompetitionLevel, &o.ProgramTypes, &o.IndustryFocus, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}

	o.OrganizationTypes = make([]models.OrgType, 0, len(orgTypes))
	for _, t := range orgTypes {
		o.OrganizationTypes = append(o.OrganizationTypes, models.OrgType(t))
	}
	if o.CompetitionLevel == "" {
		o.CompetitionLevel = models.CompetitionUnknown
	}

	return o, nil
}

// SaveOpportunity upserts by external URL. The HTML description is stripped
// of unsafe markup before storage.
func (s *Store) SaveOpportunity(ctx context.Context, opp models.Opportunity) error {
	orgTypes := make([]string, 0, len(opp.OrganizationTypes))
	for _, t := range opp.OrganizationTypes {
		orgTypes = append(orgTypes, string(t))
	}
	level := opp.CompetitionLevel
	if level == "" {
		level = models.CompetitionUnknown
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO opportunities (
			title, summary, description_html, external_url, agency_name,
			funding_source, program_code, organization_types, small_business_only,
			requires_minority_owned, requires_woman_owned, requires_veteran_owned,
			industry_code, geography, amount_min, amount_max, deadline_at,
			competition_level, program_types, industry_focus
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (external_url) DO UPDATE SET
			updated_at = NOW(),
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			description_html = EXCLUDED.description_html,
			amount_min = EXCLUDED.amount_min,
			amount_max = EXCLUDED.amount_max,
			deadline_at = EXCLUDED.deadline_at,
			competition_level = EXCLUDED.competition_level
	`,
		opp.Title, opp.Summary, s.sanitize.Sanitize(opp.Description), opp.ExternalURL, opp.AgencyName,
		opp.FundingSource, opp.ProgramCode, orgTypes, opp.SmallBusinessOnly,
		opp.RequiresMinorityOwned, opp.RequiresWomanOwned, opp.RequiresVeteranOwned,
		opp.IndustryCode, opp.Geography, opp.AmountMin, opp.AmountMax, opp.DeadlineAt,
		string(level), opp.ProgramTypes, opp.IndustryFocus,
	)
	if err != nil {
		return fmt.Errorf("failed to save opportunity: %w", err)
	}
	return nil
}

const profileCols = `id, name, org_type, industry_code, annual_revenue, employee_count,
	has_tax_id, has_uei, tax_exempt,
	cert_minority_owned, cert_woman_owned, cert_veteran_owned, cert_hubzone, cert_small_business,
	reg_federal_awards, reg_grants_portal, reg_commercial_code,
	debarment_status, state, city, audit_completed, created_at, updated_at`

func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (models.ApplicantProfile, error) {
	var p models.ApplicantProfile
	err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM applicant_profiles WHERE id = $1", profileCols), id).Scan(
		&p.ID, &p.Name, &p.OrgType, &p.IndustryCode, &p.AnnualRevenue, &p.EmployeeCount,
		&p.HasTaxID, &p.HasUEI, &p.TaxExempt,
		&p.Certifications.MinorityOwned, &p.Certifications.WomanOwned, &p.Certifications.VeteranOwned,
		&p.Certifications.HUBZone, &p.Certifications.SmallBusiness,
		&p.Registrations.FederalAwards, &p.Registrations.GrantsPortal, &p.Registrations.CommercialCode,
		&p.DebarmentStatus, &p.State, &p.City, &p.AuditCompleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return p, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p models.ApplicantProfile) (uuid.UUID, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO applicant_profiles (
			id, name, org_type, industry_code, annual_revenue, employee_count,
			has_tax_id, has_uei, tax_exempt,
			cert_minority_owned, cert_woman_owned, cert_veteran_owned, cert_hubzone, cert_small_business,
			reg_federal_awards, reg_grants_portal, reg_commercial_code,
			debarment_status, state, city, audit_completed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			updated_at = NOW(),
			name = EXCLUDED.name,
			org_type = EXCLUDED.org_type,
			industry_code = EXCLUDED.industry_code,
			annual_revenue = EXCLUDED.annual_revenue,
			employee_count = EXCLUDED.employee_count,
			has_tax_id = EXCLUDED.has_tax_id,
			has_uei = EXCLUDED.has_uei,
			tax_exempt = EXCLUDED.tax_exempt,
			cert_minority_owned = EXCLUDED.cert_minority_owned,
			cert_woman_owned = EXCLUDED.cert_woman_owned,
			cert_veteran_owned = EXCLUDED.cert_veteran_owned,
			cert_hubzone = EXCLUDED.cert_hubzone,
			cert_small_business = EXCLUDED.cert_small_business,
			reg_federal_awards = EXCLUDED.reg_federal_awards,
			reg_grants_portal = EXCLUDED.reg_grants_portal,
			reg_commercial_code = EXCLUDED.reg_commercial_code,
			debarment_status = EXCLUDED.debarment_status,
			state = EXCLUDED.state,
			city = EXCLUDED.city,
			audit_completed = EXCLUDED.audit_completed
	`,
		id, p.Name, string(p.OrgType), p.IndustryCode, p.AnnualRevenue, p.EmployeeCount,
		p.HasTaxID, p.HasUEI, p.TaxExempt,
		p.Certifications.MinorityOwned, p.Certifications.WomanOwned, p.Certifications.VeteranOwned,
		p.Certifications.HUBZone, p.Certifications.SmallBusiness,
		p.Registrations.FederalAwards, p.Registrations.GrantsPortal, p.Registrations.CommercialCode,
		string(p.DebarmentStatus), p.State, p.City, p.AuditCompleted,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return id, nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (models.Project, error) {
	var p models.Project
	err := s.pool.QueryRow(ctx, `
		SELECT id, profile_id, title, project_type, funding_needed, industry, state, created_at, updated_at
		FROM projects WHERE id = $1
	`, id).Scan(&p.ID, &p.ProfileID, &p.Title, &p.ProjectType, &p.FundingNeeded, &p.Industry, &p.State, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) SaveProject(ctx context.Context, p models.Project) (uuid.UUID, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO projects (id, profile_id, title, project_type, funding_needed, industry, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			updated_at = NOW(),
			title = EXCLUDED.title,
			project_type = EXCLUDED.project_type,
			funding_needed = EXCLUDED.funding_needed,
			industry = EXCLUDED.industry,
			state = EXCLUDED.state
	`, id, p.ProfileID, p.Title, p.ProjectType, p.FundingNeeded, p.Industry, p.State)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save project: %w", err)
	}
	return id, nil
}

// Stats is a small operational summary for the public stats endpoint.
type Stats struct {
	Opportunities int        `json:"opportunities"`
	Profiles      int        `json:"profiles"`
	NextDeadline  *time.Time `json:"next_deadline"`
}

func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM opportunities),
			(SELECT COUNT(*) FROM applicant_profiles),
			(SELECT MIN(deadline_at) FROM opportunities WHERE deadline_at >= NOW())
	`).Scan(&stats.Opportunities, &stats.Profiles, &stats.NextDeadline)
	if err != nil {
		return stats, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}
