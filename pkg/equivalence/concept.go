package equivalence

import (
	"strconv"
)

// Friction grades the procedural cost of achieving the shared outcome
// through the compared mechanism.
type Friction string

const (
	FrictionLow      Friction = "low"
	FrictionStandard Friction = "standard"
	FrictionHigh     Friction = "high"
)

func (f Friction) valid() bool {
	switch f {
	case FrictionLow, FrictionStandard, FrictionHigh:
		return true
	default:
		return false
	}
}

// LegalConcept is one jurisdiction's instance of a legal idea. The
// constituent elements carry its morphology, the regulatory objective
// its teleology. Concepts are caller-owned and immutable once built.
type LegalConcept struct {
	Name                string   `json:"name" yaml:"name"`
	Jurisdiction        string   `json:"jurisdiction" yaml:"jurisdiction"`
	ConstituentElements []string `json:"constituent_elements,omitempty" yaml:"constituent_elements,omitempty"`
	RegulatoryObjective string   `json:"regulatory_objective,omitempty" yaml:"regulatory_objective,omitempty"`
}

// Validate checks the identifier fields. Elements and objective may be
// empty; an empty morphology simply contributes no overlap.
func (c LegalConcept) Validate() error {
	return c.validate("concept")
}

func (c LegalConcept) validate(prefix string) error {
	if c.Name == "" {
		return &InvalidInputError{Field: prefix + ".name", Reason: "must not be empty"}
	}
	if c.Jurisdiction == "" {
		return &InvalidInputError{Field: prefix + ".jurisdiction", Reason: "must not be empty"}
	}
	return nil
}

// FunctionalTest carries the empirical outcome evidence for a pair of
// concepts. The fact pattern is informational only and never scored.
type FunctionalTest struct {
	FactPattern        string   `json:"fact_pattern,omitempty" yaml:"fact_pattern,omitempty"`
	ReliabilityRate    float64  `json:"reliability_rate" yaml:"reliability_rate"`
	ProceduralFriction Friction `json:"procedural_friction" yaml:"procedural_friction"`
	IterationThreshold int      `json:"iteration_threshold" yaml:"iteration_threshold"`
}

// Validate enforces the record ranges at the boundary.
func (t *FunctionalTest) Validate() error {
	if t.ReliabilityRate < 0 || t.ReliabilityRate > 1 {
		return &InvalidInputError{
			Field:  "functional_test.reliability_rate",
			Value:  fnum(t.ReliabilityRate),
			Reason: "must be in [0.0, 1.0]",
		}
	}
	if !t.ProceduralFriction.valid() {
		return &InvalidInputError{
			Field:  "functional_test.procedural_friction",
			Value:  string(t.ProceduralFriction),
			Reason: "must be one of low, standard, high",
		}
	}
	if t.IterationThreshold < 1 || t.IterationThreshold > 5 {
		return &InvalidInputError{
			Field:  "functional_test.iteration_threshold",
			Value:  strconv.Itoa(t.IterationThreshold),
			Reason: "must be in [1, 5]",
		}
	}
	return nil
}

// fnum renders a float without trailing zeros so error and trace text
// stays stable across calls.
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
