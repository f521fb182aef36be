package equivalence

import (
	"fmt"
	"math"
	"strings"
)

const defaultKeywordThreshold = 0.5

// ObjectiveMatcher decides whether two regulatory objectives serve the
// same purpose. Implementations must be deterministic. A strategy that
// cannot commit either way returns an error wrapping
// ErrAmbiguousTeleology instead of guessing.
type ObjectiveMatcher interface {
	Matches(a, b string) (bool, error)
}

// ExactObjectiveMatcher matches on case-insensitive equality. Empty
// objectives never match: the absence of a stated purpose is not a
// shared purpose.
type ExactObjectiveMatcher struct{}

func (ExactObjectiveMatcher) Matches(a, b string) (bool, error) {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false, nil
	}
	return a == b, nil
}

// KeywordOverlapMatcher matches identical objectives outright and
// otherwise requires the shared fraction of the larger lowercase
// keyword set to exceed Threshold (0.5 when unset). A non-zero Margin
// turns ratios that close to the cutoff into an ambiguity error rather
// than a coin-flip classification.
type KeywordOverlapMatcher struct {
	Threshold float64
	Margin    float64
}

func (m KeywordOverlapMatcher) Matches(a, b string) (bool, error) {
	ka := keywords(a)
	kb := keywords(b)
	if len(ka) == 0 || len(kb) == 0 {
		return false, nil
	}

	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return true, nil
	}

	shared := 0
	for w := range ka {
		if kb[w] {
			shared++
		}
	}

	larger := len(ka)
	if len(kb) > larger {
		larger = len(kb)
	}
	ratio := float64(shared) / float64(larger)

	threshold := m.Threshold
	if threshold <= 0 {
		threshold = defaultKeywordThreshold
	}

	if m.Margin > 0 && math.Abs(ratio-threshold) < m.Margin {
		return false, fmt.Errorf("%w: keyword overlap %.2f within %.2f of the %.2f cutoff",
			ErrAmbiguousTeleology, ratio, m.Margin, threshold)
	}

	return ratio > threshold, nil
}

func keywords(s string) map[string]bool {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
