// Package batch runs the matching engine over a whole roster in parallel.
package batch

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/certsend/certsend/internal/roster"
	"github.com/certsend/certsend/pkg/match"
)

// Recorder persists match decisions. Implemented by the audit store; nil
// disables persistence.
type Recorder interface {
	RecordDecision(recipient string, r *match.Result) (int64, error)
}

// RowResult pairs a roster row with its (possibly nil) match.
type RowResult struct {
	Recipient roster.Recipient
	Result    *match.Result
}

// Runner matches recipients against one candidate pool. Matching per
// recipient is independent and pure, so rows fan out across workers with
// no locking; each worker writes only its own slot of the result slice.
type Runner struct {
	matcher  *match.Matcher
	recorder Recorder
	logger   *slog.Logger
	workers  int
}

// NewRunner creates a Runner. workers <= 0 selects one worker per CPU.
func NewRunner(matcher *match.Matcher, recorder Recorder, logger *slog.Logger, workers int) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{matcher: matcher, recorder: recorder, logger: logger, workers: workers}
}

// Run matches every recipient against pool and returns one result per
// roster row, in roster order. Cancellation stops scheduling further
// recipients; rows already matched keep their results. Recorder failures
// abort the run: an incomplete audit trail is worse than a late batch.
func (r *Runner) Run(ctx context.Context, recipients []roster.Recipient, pool []match.Candidate) ([]RowResult, error) {
	results := make([]RowResult, len(recipients))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, rec := range recipients {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			res := match.WithConfidence(r.matcher.Match(rec.Name, pool))
			results[i] = RowResult{Recipient: rec, Result: res}

			if res == nil {
				r.logger.Info("no match", "recipient", rec.Name)
			} else {
				r.logger.Info("matched",
					"recipient", rec.Name,
					"file", res.Candidate.Filename,
					"tier", res.Tier.String(),
					"confidence", res.Confidence,
					"needs_review", res.NeedsReview)
			}

			if r.recorder != nil {
				if _, err := r.recorder.RecordDecision(rec.Name, res); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
