package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/david/grant-matcher/internal/db"
	"github.com/david/grant-matcher/internal/match"
	"github.com/david/grant-matcher/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	Store *db.Store
	Echo  *echo.Echo
	DB    *pgxpool.Pool
}

// nowFunc is swappable in tests.
var nowFunc = time.Now

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	s := &Server{
		DB:    pool,
		Store: db.NewStore(pool),
		Echo:  e,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.GET("/opportunities", s.handleListOpportunities)
	api.GET("/opportunities/:id", s.handleGetOpportunity)
	api.GET("/stats", s.handleGetStats)

	api.POST("/profiles", s.handleSaveProfile)
	api.GET("/profiles/:id", s.handleGetProfile)
	api.POST("/projects", s.handleSaveProject)

	// Matching
	api.POST("/match/check", s.handleCheckEligibility)
	api.POST("/match/rank", s.handleRank)

	// Admin Routes
	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/seed", s.handleSeed)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	params := db.ListParams{
		FundingSource: c.QueryParam("funding_source"),
		OrgType:       c.QueryParam("org_type"),
		State:         c.QueryParam("state"),
	}

	if v, err := strconv.ParseFloat(c.QueryParam("min_amount"), 64); err == nil && v > 0 {
		params.MinAmount = v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("max_amount"), 64); err == nil && v > 0 {
		params.MaxAmount = v
	}
	if v, err := strconv.Atoi(c.QueryParam("deadline_days")); err == nil && v > 0 {
		params.DeadlineDays = v
	}
	if raw := c.QueryParam("small_business_only"); raw != "" {
		val := raw == "true"
		params.SmallBusinessOnly = &val
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		params.Limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		params.Offset = v
	}

	result, err := s.Store.ListOpportunities(c.Request().Context(), params)
	if err != nil {
		c.Logger().Errorf("Failed to list opportunities: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetOpportunity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}
	opp, err := s.Store.GetOpportunity(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, opp)
}

func (s *Server) handleGetStats(c echo.Context) error {
	stats, err := s.Store.GetStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleSaveProfile(c echo.Context) error {
	var profile models.ApplicantProfile
	if err := c.Bind(&profile); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if profile.Name == "" || profile.OrgType == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name and org_type are required"})
	}
	if profile.DebarmentStatus == "" {
		profile.DebarmentStatus = models.DebarmentClear
	}

	id, err := s.Store.SaveProfile(c.Request().Context(), profile)
	if err != nil {
		c.Logger().Errorf("Failed to save profile: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save profile"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleGetProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid profile ID"})
	}
	profile, err := s.Store.GetProfile(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) handleSaveProject(c echo.Context) error {
	var project models.Project
	if err := c.Bind(&project); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if project.ProfileID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "profile_id is required"})
	}

	id, err := s.Store.SaveProject(c.Request().Context(), project)
	if err != nil {
		c.Logger().Errorf("Failed to save project: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save project"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id.String()})
}

type checkRequest struct {
	ProfileID     uuid.UUID `json:"profile_id"`
	OpportunityID uuid.UUID `json:"opportunity_id"`
}

func (s *Server) handleCheckEligibility(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	ctx := c.Request().Context()
	profile, err := s.Store.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Profile not found"})
	}
	opp, err := s.Store.GetOpportunity(ctx, req.OpportunityID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Opportunity not found"})
	}

	verdict, err := match.CheckEligibility(&profile, &opp)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, verdict)
}

type rankRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
	ProjectID uuid.UUID `json:"project_id"`

	// Pre-filters applied before the engine runs.
	MinAmount    float64  `json:"min_amount"`
	MaxAmount    float64  `json:"max_amount"`
	DeadlineDays int      `json:"deadline_days"`
	ProgramTypes []string `json:"program_types"`

	OnlyEligible    bool `json:"only_eligible"`
	ExcludeWarnings bool `json:"exclude_warnings"`
	MinConfidence   int  `json:"min_confidence"`
	Limit           int  `json:"limit"`
}

func (s *Server) handleRank(c echo.Context) error {
	var req rankRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	ctx := c.Request().Context()
	profile, err := s.Store.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Profile not found"})
	}
	project, err := s.Store.GetProject(ctx, req.ProjectID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
	}

	// Pull the candidate set in pages; the engine ranks in memory.
	var opps []models.Opportunity
	offset := 0
	for {
		page, err := s.Store.ListOpportunities(ctx, db.ListParams{Limit: 100, Offset: offset})
		if err != nil {
			c.Logger().Errorf("Failed to load opportunities: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		}
		opps = append(opps, page.Opportunities...)
		offset += len(page.Opportunities)
		if offset >= page.Total || len(page.Opportunities) == 0 {
			break
		}
	}

	opts := match.RankOptions{
		Predicates:      buildPredicates(req),
		OnlyEligible:    req.OnlyEligible,
		ExcludeWarnings: req.ExcludeWarnings,
		MinConfidence:   req.MinConfidence,
		Limit:           req.Limit,
	}

	results, err := match.Rank(ctx, &profile, &project, opps, opts)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": results,
		"total":   len(results),
	})
}

// buildPredicates turns the request's pre-filters into engine predicates.
func buildPredicates(req rankRequest) []match.OpportunityPredicate {
	var preds []match.OpportunityPredicate

	if req.MinAmount > 0 {
		preds = append(preds, func(opp models.Opportunity) bool {
			return opp.AmountMax == nil || *opp.AmountMax >= req.MinAmount
		})
	}
	if req.MaxAmount > 0 {
		preds = append(preds, func(opp models.Opportunity) bool {
			return opp.AmountMin == nil || *opp.AmountMin <= req.MaxAmount
		})
	}
	if req.DeadlineDays > 0 {
		preds = append(preds, func(opp models.Opportunity) bool {
			if opp.DeadlineAt == nil {
				return true // rolling
			}
			days := int(opp.DeadlineAt.Sub(nowFunc()).Hours() / 24)
			return days >= 0 && days <= req.DeadlineDays
		})
	}
	if len(req.ProgramTypes) > 0 {
		preds = append(preds, func(opp models.Opportunity) bool {
			for _, want := range req.ProgramTypes {
				for _, have := range opp.ProgramTypes {
					if strings.EqualFold(want, have) {
						return true
					}
				}
			}
			return false
		})
	}

	return preds
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		// Check X-Admin-Secret header or Bearer token
		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
