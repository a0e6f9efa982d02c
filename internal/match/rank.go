package match

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/david/grant-matcher/internal/models"
	"golang.org/x/sync/errgroup"
)

// OpportunityPredicate is a caller-supplied pre-filter, opaque to the engine.
type OpportunityPredicate func(models.Opportunity) bool

// RankOptions controls filtering and pagination of the ranking pipeline.
type RankOptions struct {
	// Predicates are applied before any eligibility work.
	Predicates []OpportunityPredicate
	// OnlyEligible drops opportunities with a failing verdict.
	OnlyEligible bool
	// ExcludeWarnings additionally drops opportunities whose verdict carries
	// any warnings.
	ExcludeWarnings bool
	// MinConfidence drops verdicts below the threshold. It only applies when
	// OnlyEligible is set: ineligible-but-informative results must not be
	// silently dropped by a confidence threshold.
	MinConfidence int
	// Limit truncates the ranked output when > 0.
	Limit int
}

type evaluated struct {
	opp     models.Opportunity
	verdict models.EligibilityVerdict
}

// Rank evaluates eligibility and fit for every opportunity and returns them
// ordered: eligible before ineligible, then by descending fit score, with
// input order preserved on ties. Evaluation fans out across workers; the
// final sort runs on the input-ordered result set so tie-breaks stay
// deterministic regardless of completion order.
func Rank(ctx context.Context, profile *models.ApplicantProfile, project *models.Project, opps []models.Opportunity, opts RankOptions) ([]models.RankedResult, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	if err := validateProject(project); err != nil {
		return nil, err
	}
	for i := range opps {
		if err := validateOpportunity(&opps[i]); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	return rankAt(ctx, *profile, *project, opps, opts, now)
}

func rankAt(ctx context.Context, profile models.ApplicantProfile, project models.Project, opps []models.Opportunity, opts RankOptions, now time.Time) ([]models.RankedResult, error) {
	filtered := make([]models.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if matchesPredicates(opp, opts.Predicates) {
			filtered = append(filtered, opp)
		}
	}

	// Fan out eligibility evaluation; results land at their input index so
	// downstream order is independent of completion order.
	verdicts := make([]evaluated, len(filtered))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range filtered {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			verdicts[i] = evaluated{
				opp:     filtered[i],
				verdict: aggregate(profile, filtered[i]),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]models.RankedResult, 0, len(verdicts))
	for _, ev := range verdicts {
		if opts.OnlyEligible {
			if !ev.verdict.Eligible {
				continue
			}
			if opts.MinConfidence > 0 && ev.verdict.Confidence < opts.MinConfidence {
				continue
			}
		}
		if opts.ExcludeWarnings && len(ev.verdict.Warnings) > 0 {
			continue
		}

		results = append(results, models.RankedResult{
			Opportunity: ev.opp,
			Verdict:     ev.verdict,
			Fit:         ScoreFitAt(profile, project, ev.opp, now),
		})
	}

	// Stable: equal (eligibility, score) pairs keep their input order.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Verdict.Eligible != results[j].Verdict.Eligible {
			return results[i].Verdict.Eligible
		}
		return results[i].Fit.Score > results[j].Fit.Score
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

func matchesPredicates(opp models.Opportunity, preds []OpportunityPredicate) bool {
	for _, pred := range preds {
		if !pred(opp) {
			return false
		}
	}
	return true
}
