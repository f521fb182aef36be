// Package equivalence implements the deterministic classifier that
// maps a pair of legal concepts, plus optional functional test data,
// onto the calibrated legal distance scale [0.0, 3.0].
//
// The classifier is a pure function of its inputs: three sequential
// logic gates (core feature filter, same outcome filter, perfect
// substitution filter) whose scores come from closed calibration
// tables, never from a formula. Identical inputs always yield
// identical results, so one Engine is safe for concurrent use.
package equivalence

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lexeq/lexeq/pkg/calibration"
)

// Last step evaluated, reported on every result.
const (
	stepCoreFeature         = 1
	stepSameOutcome         = 2
	stepPerfectSubstitution = 3
)

// totalIterationMin is the repeat-pattern floor for total equivalency:
// a single confirming instance never establishes perfect substitution.
const totalIterationMin = 2

// Engine evaluates concept pairs against one calibration and one
// objective-matching strategy. It holds no per-call state.
type Engine struct {
	matcher ObjectiveMatcher
	cal     *calibration.Calibration
}

// New builds an engine. A nil matcher selects ExactObjectiveMatcher, a
// nil calibration selects the embedded default; a supplied calibration
// is validated before use.
func New(matcher ObjectiveMatcher, cal *calibration.Calibration) (*Engine, error) {
	if matcher == nil {
		matcher = ExactObjectiveMatcher{}
	}
	if cal == nil {
		cal = calibration.Default()
	} else if err := cal.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calibration: %w", err)
	}
	return &Engine{matcher: matcher, cal: cal}, nil
}

// Analyze runs one comparison through the three gates and returns the
// derived result. The functional test is optional: without it a step 1
// pass finalizes as partial. A supplied tier overrides the
// reliability-derived functional tier. Invalid inputs fail here,
// before any gate runs; no best-effort score is ever produced.
func (e *Engine) Analyze(a, b LegalConcept, test *FunctionalTest, tier *calibration.Tier) (*EquivalenceResult, error) {
	if err := a.validate("concept_a"); err != nil {
		return nil, err
	}
	if err := b.validate("concept_b"); err != nil {
		return nil, err
	}
	if test != nil {
		if err := test.Validate(); err != nil {
			return nil, err
		}
	}

	var override *calibration.FunctionalTier
	if tier != nil {
		ft, ok := e.cal.LookupTier(*tier)
		if !ok {
			return nil, &InvalidInputError{
				Field:  "tier",
				Value:  string(*tier),
				Reason: "must be one of constitutional, plenary, standard, weak",
			}
		}
		override = ft
	}

	var trace []string

	// Step 1: core feature filter.
	overlap := overlapCount(a.ConstituentElements, b.ConstituentElements)
	teleology, err := e.matcher.Matches(a.RegulatoryObjective, b.RegulatoryObjective)
	if err != nil {
		return nil, fmt.Errorf("failed to compare objectives of %s and %s: %w", a.Name, b.Name, err)
	}

	trace = append(trace, fmt.Sprintf("step 1: morphology overlap %d, teleology match %t", overlap, teleology))
	slog.Debug("core feature filter", "overlap", overlap, "teleology", teleology)

	if overlap == 0 && !teleology {
		trace = append(trace, "step 1: category error, no basis for comparison")
		return &EquivalenceResult{
			DistanceScore:      3.0,
			Level:              LevelNoDirect,
			ConfidenceInterval: "d = 3.0",
			Rationale: fmt.Sprintf("%s (%s) and %s (%s) share neither constituent elements nor regulatory objectives",
				a.Name, a.Jurisdiction, b.Name, b.Jurisdiction),
			StepReached: stepCoreFeature,
			Trace:       trace,
		}, nil
	}

	band := e.partialBand(overlap)
	basis := basisPhrase(overlap, teleology)
	trace = append(trace, fmt.Sprintf("step 1: %s provisional (d = %s)", band.Label, fscore(band.Standard)))

	// Step 2: same outcome filter.
	if test == nil {
		trace = append(trace, "step 2: no functional test supplied, partial classification final")
		return e.finalizePartial(band, band.Standard,
			fmt.Sprintf("%s: %s; no functional outcome data supplied", band.Label, basis), trace), nil
	}

	rate := test.ReliabilityRate
	floor := e.cal.Thresholds.Weak
	if rate < floor {
		score, _ := band.Score(string(test.ProceduralFriction))
		trace = append(trace, fmt.Sprintf("step 2: reliability %s below the %s floor, %s friction fixes d = %s",
			fnum(rate), fnum(floor), test.ProceduralFriction, fscore(score)))
		slog.Debug("same outcome filter", "reliability", rate, "converged", false)
		return e.finalizePartial(band, score,
			fmt.Sprintf("%s: %s, reliability %s below the %s functional threshold (structural overlap but functional divergence)",
				band.Label, basis, fnum(rate), fnum(floor)), trace), nil
	}

	trace = append(trace, fmt.Sprintf("step 2: reliability %s meets the %s floor, outcomes converge", fnum(rate), fnum(floor)))
	slog.Debug("same outcome filter", "reliability", rate, "converged", true)

	// Step 3: perfect substitution filter.
	if rate == 1.0 && test.IterationThreshold >= totalIterationMin && test.ProceduralFriction == FrictionLow {
		trace = append(trace, fmt.Sprintf("step 3: perfect substitution across %d iterations", test.IterationThreshold))
		slog.Debug("perfect substitution filter", "substitutable", true)
		return &EquivalenceResult{
			DistanceScore:      0.0,
			Level:              LevelTotal,
			ConfidenceInterval: "d = 0.0",
			Rationale: fmt.Sprintf("Perfect substitution: universally reliable low-friction outcome across %d confirming iterations",
				test.IterationThreshold),
			StepReached: stepPerfectSubstitution,
			Trace:       trace,
		}, nil
	}

	trace = append(trace, "step 3: doctrinally distinct, total equivalency rejected")
	slog.Debug("perfect substitution filter", "substitutable", false)

	ft := override
	if ft == nil {
		derived := e.cal.DeriveTier(rate, string(test.ProceduralFriction), test.IterationThreshold)
		ft, _ = e.cal.LookupTier(derived)
		trace = append(trace, fmt.Sprintf("step 3: %s tier derived from reliability banding", ft.Label))
	} else {
		trace = append(trace, fmt.Sprintf("step 3: %s tier supplied by caller", ft.Label))
	}

	return &EquivalenceResult{
		DistanceScore:      ft.Score,
		Level:              LevelFunctional,
		ConfidenceInterval: fmt.Sprintf("%s (d = %s)", ft.Label, ft.Interval),
		Rationale: fmt.Sprintf("%s functional match: reliability %s with %s friction (same practical outcome despite formal differences)",
			ft.Label, fnum(rate), test.ProceduralFriction),
		StepReached: stepPerfectSubstitution,
		Trace:       trace,
	}, nil
}

func (e *Engine) finalizePartial(band *calibration.PartialBand, score float64, rationale string, trace []string) *EquivalenceResult {
	return &EquivalenceResult{
		DistanceScore:      score,
		Level:              LevelPartial,
		ConfidenceInterval: fmt.Sprintf("%s (d = %s)", band.Label, band.Interval),
		Rationale:          rationale,
		StepReached:        stepSameOutcome,
		Trace:              trace,
	}
}

// partialBand picks the provisional strength: strong on wide
// morphological overlap, standard on any overlap, weak when only the
// teleology aligned.
func (e *Engine) partialBand(overlap int) *calibration.PartialBand {
	var s calibration.Strength
	switch {
	case overlap >= e.cal.StrongOverlapMin:
		s = calibration.StrengthStrong
	case overlap >= 1:
		s = calibration.StrengthStandard
	default:
		s = calibration.StrengthWeak
	}
	band, _ := e.cal.Band(s)
	return band
}

func basisPhrase(overlap int, teleology bool) string {
	switch {
	case overlap > 0 && teleology:
		return fmt.Sprintf("%d shared elements with aligned objectives", overlap)
	case overlap > 0:
		return fmt.Sprintf("%d shared elements with distinct objectives", overlap)
	default:
		return "aligned objectives without shared elements"
	}
}

// fscore renders a distance score with the two decimal places the
// calibration tables carry.
func fscore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// overlapCount treats the element lists as sets; duplicates count once.
func overlapCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, el := range a {
		set[el] = true
	}
	n := 0
	for _, el := range b {
		if set[el] {
			n++
			delete(set, el)
		}
	}
	return n
}
