// Package calibration holds the closed scoring tables of the
// computational equivalence methodology: the reliability thresholds,
// the functional tier lookup, and the friction-adjusted partial bands.
// The tables are configuration data, not derived values; the embedded
// default mirrors the published calibration and user-supplied tables
// are validated against the same closed enumerations.
package calibration

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tier identifies a named calibration bucket within the functional band.
type Tier string

const (
	TierConstitutional Tier = "constitutional"
	TierPlenary        Tier = "plenary"
	TierStandard       Tier = "standard"
	TierWeak           Tier = "weak"
)

// Tiers is the closed set of functional tiers, in ascending distance order.
var Tiers = []Tier{TierConstitutional, TierPlenary, TierStandard, TierWeak}

// Strength identifies a partial band selected by morphological overlap.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthStandard Strength = "standard"
	StrengthWeak     Strength = "weak"
)

// Strengths is the closed set of partial strengths, in ascending distance order.
var Strengths = []Strength{StrengthStrong, StrengthStandard, StrengthWeak}

// Friction column names used by the partial bands. The values mirror
// the procedural friction enumeration of the functional test record.
const (
	frictionLow      = "low"
	frictionStandard = "standard"
	frictionHigh     = "high"
)

// Thresholds are the reliability-rate cut points for the functional
// test. Each threshold is inclusive at its lower bound: a rate equal to
// Weak promotes out of the partial band.
type Thresholds struct {
	Weak     float64 `json:"weak" yaml:"weak"`
	Standard float64 `json:"standard" yaml:"standard"`
	Strong   float64 `json:"strong" yaml:"strong"`
}

// FunctionalTier maps a tier to its fixed calibrated distance point.
type FunctionalTier struct {
	Tier     Tier    `json:"tier" yaml:"tier"`
	Label    string  `json:"label" yaml:"label"`
	Score    float64 `json:"score" yaml:"score"`
	Interval string  `json:"interval" yaml:"interval"`
}

// PartialBand fixes the decimal within one strength band of the partial
// range [2.0, 2.9]. Low friction sits toward the 2.9 end of the band,
// high friction toward the 2.0 end; the standard column is also the
// provisional value assigned before any functional data is seen.
type PartialBand struct {
	Strength Strength `json:"strength" yaml:"strength"`
	Label    string   `json:"label" yaml:"label"`
	Interval string   `json:"interval" yaml:"interval"`
	Low      float64  `json:"low" yaml:"low"`
	Standard float64  `json:"standard" yaml:"standard"`
	High     float64  `json:"high" yaml:"high"`
}

// Score returns the band value for a friction column name.
func (b *PartialBand) Score(friction string) (float64, bool) {
	switch friction {
	case frictionLow:
		return b.Low, true
	case frictionStandard:
		return b.Standard, true
	case frictionHigh:
		return b.High, true
	default:
		return 0, false
	}
}

// Calibration is the complete table set consumed by the engine.
type Calibration struct {
	Version          int              `json:"version" yaml:"version"`
	Thresholds       Thresholds       `json:"thresholds" yaml:"thresholds"`
	StrongOverlapMin int              `json:"strong_overlap_min" yaml:"strong_overlap_min"`
	FunctionalTiers  []FunctionalTier `json:"functional_tiers" yaml:"functional_tiers"`
	PartialBands     []PartialBand    `json:"partial_bands" yaml:"partial_bands"`
}

//go:embed default.yaml
var defaultYAML []byte

// Default returns a fresh copy of the embedded published calibration.
// Each call parses anew so callers can never share mutable state.
func Default() *Calibration {
	c, err := Parse(defaultYAML)
	if err != nil {
		// The embedded table ships with the binary; failing to parse it
		// is a build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded calibration invalid: %v", err))
	}
	return c
}

// Parse decodes and validates a calibration document.
func Parse(b []byte) (*Calibration, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var c Calibration
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode calibration: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Load reads and validates a calibration file.
func Load(path string) (*Calibration, error) {
	if path == "" {
		return nil, fmt.Errorf("calibration path required")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration file: %w", err)
	}

	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("invalid calibration file %s: %w", path, err)
	}

	return c, nil
}

// LookupTier returns the table entry for a tier.
func (c *Calibration) LookupTier(t Tier) (*FunctionalTier, bool) {
	for i := range c.FunctionalTiers {
		if c.FunctionalTiers[i].Tier == t {
			return &c.FunctionalTiers[i], true
		}
	}
	return nil, false
}

// Band returns the partial band for a strength.
func (c *Calibration) Band(s Strength) (*PartialBand, bool) {
	for i := range c.PartialBands {
		if c.PartialBands[i].Strength == s {
			return &c.PartialBands[i], true
		}
	}
	return nil, false
}

// DeriveTier picks the functional tier from the reliability banding
// when the caller supplied no tier metadata. Constitutional covers the
// single-pass low-friction path, plenary the full-bench high-friction
// path; everything else falls to the standard or weak tier.
func (c *Calibration) DeriveTier(rate float64, friction string, iterations int) Tier {
	switch {
	case rate >= c.Thresholds.Strong && friction == frictionLow && iterations == 1:
		return TierConstitutional
	case rate >= c.Thresholds.Strong && friction == frictionHigh:
		return TierPlenary
	case rate >= c.Thresholds.Standard:
		return TierStandard
	default:
		return TierWeak
	}
}

// Validate checks the tables against the closed enumerations and the
// band geometry the methodology publishes.
func (c *Calibration) Validate() error {
	if c.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", c.Version)
	}

	t := c.Thresholds
	if t.Weak <= 0 || t.Weak >= t.Standard || t.Standard >= t.Strong || t.Strong > 1 {
		return fmt.Errorf("thresholds must satisfy 0 < weak < standard < strong <= 1, got %.4f/%.4f/%.4f",
			t.Weak, t.Standard, t.Strong)
	}

	if c.StrongOverlapMin < 2 {
		return fmt.Errorf("strong_overlap_min must be >= 2, got %d", c.StrongOverlapMin)
	}

	if err := c.validateTiers(); err != nil {
		return err
	}

	return c.validateBands()
}

func (c *Calibration) validateTiers() error {
	seen := make(map[Tier]bool, len(Tiers))
	for _, ft := range c.FunctionalTiers {
		if !knownTier(ft.Tier) {
			return fmt.Errorf("unknown functional tier %q", ft.Tier)
		}
		if seen[ft.Tier] {
			return fmt.Errorf("duplicate functional tier %q", ft.Tier)
		}
		seen[ft.Tier] = true

		if ft.Label == "" || ft.Interval == "" {
			return fmt.Errorf("functional tier %q requires label and interval", ft.Tier)
		}
		if ft.Score <= 0 || ft.Score > 1.9 {
			return fmt.Errorf("functional tier %q score must be in (0.0, 1.9], got %.2f", ft.Tier, ft.Score)
		}
	}

	for _, t := range Tiers {
		if !seen[t] {
			return fmt.Errorf("missing functional tier %q", t)
		}
	}

	// Tiers are ordered by increasing distance from total equivalence.
	for i := 1; i < len(Tiers); i++ {
		prev, _ := c.LookupTier(Tiers[i-1])
		cur, _ := c.LookupTier(Tiers[i])
		if prev.Score >= cur.Score {
			return fmt.Errorf("functional tier %q score %.2f must exceed %q score %.2f",
				cur.Tier, cur.Score, prev.Tier, prev.Score)
		}
	}

	return nil
}

func (c *Calibration) validateBands() error {
	seen := make(map[Strength]bool, len(Strengths))
	for i := range c.PartialBands {
		b := &c.PartialBands[i]
		if !knownStrength(b.Strength) {
			return fmt.Errorf("unknown partial strength %q", b.Strength)
		}
		if seen[b.Strength] {
			return fmt.Errorf("duplicate partial band %q", b.Strength)
		}
		seen[b.Strength] = true

		if b.Label == "" || b.Interval == "" {
			return fmt.Errorf("partial band %q requires label and interval", b.Strength)
		}
		for _, v := range []float64{b.Low, b.Standard, b.High} {
			if v < 2.0 || v > 2.9 {
				return fmt.Errorf("partial band %q values must be in [2.0, 2.9], got %.2f", b.Strength, v)
			}
		}
		if b.High > b.Standard || b.Standard > b.Low {
			return fmt.Errorf("partial band %q must order high <= standard <= low, got %.2f/%.2f/%.2f",
				b.Strength, b.High, b.Standard, b.Low)
		}
	}

	for _, s := range Strengths {
		if !seen[s] {
			return fmt.Errorf("missing partial band %q", s)
		}
	}

	// Stronger structural overlap must never score farther than weaker.
	for i := 1; i < len(Strengths); i++ {
		prev, _ := c.Band(Strengths[i-1])
		cur, _ := c.Band(Strengths[i])
		if prev.Low > cur.High {
			return fmt.Errorf("partial band %q overlaps band %q", cur.Strength, prev.Strength)
		}
	}

	return nil
}

func knownTier(t Tier) bool {
	for _, known := range Tiers {
		if known == t {
			return true
		}
	}
	return false
}

func knownStrength(s Strength) bool {
	for _, known := range Strengths {
		if known == s {
			return true
		}
	}
	return false
}
