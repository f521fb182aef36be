// Package batch runs many independent equivalence comparisons above
// the core engine and aggregates the run into a summary report.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/lexeq/lexeq/pkg/calibration"
	"github.com/lexeq/lexeq/pkg/equivalence"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

var errNoEngine = errors.New("engine not initialized")

// Comparison is one unit of work: a concept pair with its optional
// functional evidence and tier metadata.
type Comparison struct {
	Ref  string                      `json:"ref,omitempty" yaml:"ref,omitempty"`
	A    equivalence.LegalConcept    `json:"concept_a" yaml:"concept_a"`
	B    equivalence.LegalConcept    `json:"concept_b" yaml:"concept_b"`
	Test *equivalence.FunctionalTest `json:"functional_test,omitempty" yaml:"functional_test,omitempty"`
	Tier *calibration.Tier           `json:"tier,omitempty" yaml:"tier,omitempty"`
}

// Outcome holds one comparison's result, or the input error that kept
// it from being scored.
type Outcome struct {
	Ref    string                         `json:"ref,omitempty" yaml:"ref,omitempty"`
	Result *equivalence.EquivalenceResult `json:"result,omitempty" yaml:"result,omitempty"`
	Err    error                          `json:"-" yaml:"-"`
}

// Summary aggregates a finished run. Outcomes keep the input order
// regardless of worker scheduling.
type Summary struct {
	RunID        string                    `json:"run_id" yaml:"run_id"`
	Comparisons  int                       `json:"comparisons" yaml:"comparisons"`
	Completed    int                       `json:"completed" yaml:"completed"`
	Failed       int                       `json:"failed" yaml:"failed"`
	Levels       map[equivalence.Level]int `json:"levels,omitempty" yaml:"levels,omitempty"`
	MeanDistance float64                   `json:"mean_distance" yaml:"mean_distance"`
	Outcomes     []Outcome                 `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
}

// Run evaluates the comparisons on at most workers goroutines. An
// invalid comparison is recorded on its outcome and never stops the
// run; context cancellation does. Workers below 1 select the default
// pool size.
func Run(ctx context.Context, e *equivalence.Engine, comparisons []Comparison, workers int) (*Summary, error) {
	if e == nil {
		return nil, errNoEngine
	}
	if workers < 1 {
		workers = defaultWorkers
	}

	outcomes := make([]Outcome, len(comparisons))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range comparisons {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Analyze(c.A, c.B, c.Test, c.Tier)
			outcomes[i] = Outcome{Ref: c.Ref, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch run canceled: %w", err)
	}

	s := &Summary{
		RunID:       uuid.NewString(),
		Comparisons: len(comparisons),
		Levels:      make(map[equivalence.Level]int),
		Outcomes:    outcomes,
	}

	var sum float64
	for i := range outcomes {
		o := &outcomes[i]
		if o.Err != nil {
			s.Failed++
			continue
		}
		s.Completed++
		s.Levels[o.Result.Level]++
		sum += o.Result.DistanceScore
	}
	if s.Completed > 0 {
		s.MeanDistance = math.Round(sum/float64(s.Completed)*10000) / 10000
	}

	slog.Debug("batch run complete",
		"run_id", s.RunID,
		"comparisons", s.Comparisons,
		"completed", s.Completed,
		"failed", s.Failed,
		"mean_distance", s.MeanDistance)

	return s, nil
}
