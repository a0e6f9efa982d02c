package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/david/grant-matcher/internal/db"
	"github.com/david/grant-matcher/internal/match"
	"github.com/david/grant-matcher/internal/models"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Renders the ranked match list for a stored profile/project pair.
// Usage: match_preview <profile-id> <project-id>
func main() {
	if len(os.Args) < 3 {
		log.Fatal("usage: match_preview <profile-id> <project-id>")
	}
	profileID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatalf("Invalid profile ID: %v", err)
	}
	projectID, err := uuid.Parse(os.Args[2])
	if err != nil {
		log.Fatalf("Invalid project ID: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	store := db.NewStore(pool)
	profile, err := store.GetProfile(ctx, profileID)
	if err != nil {
		log.Fatal(err)
	}
	project, err := store.GetProject(ctx, projectID)
	if err != nil {
		log.Fatal(err)
	}

	var opps []models.Opportunity
	offset := 0
	for {
		page, err := store.ListOpportunities(ctx, db.ListParams{Limit: 100, Offset: offset})
		if err != nil {
			log.Fatal(err)
		}
		opps = append(opps, page.Opportunities...)
		offset += len(page.Opportunities)
		if offset >= page.Total || len(page.Opportunities) == 0 {
			break
		}
	}

	results, err := match.Rank(ctx, &profile, &project, opps, match.RankOptions{})
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Title", "Eligible", "Confidence", "Score", "Blockers", "Deadline"})

	for _, r := range results {
		blockers := make([]string, 0, len(r.Verdict.Blockers))
		for _, b := range r.Verdict.Blockers {
			blockers = append(blockers, string(b.Category))
		}

		deadline := "rolling"
		if r.Opportunity.DeadlineAt != nil {
			deadline = r.Opportunity.DeadlineAt.Format("2006-01-02")
		}

		t.AppendRow(table.Row{
			r.Opportunity.Title,
			r.Verdict.Eligible,
			r.Verdict.Confidence,
			r.Fit.Score,
			strings.Join(blockers, ", "),
			deadline,
		})
	}
	t.Render()
}
