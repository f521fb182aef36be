package equivalence

import (
	"fmt"
	"math"
)

const (
	DirectionConvergence = "convergence"
	DirectionDivergence  = "divergence"
	DirectionStable      = "stable"

	MagnitudeHigh        = "high"
	MagnitudeIncremental = "incremental"
)

// highVelocityMin separates high-velocity harmonization or drift from
// incremental movement.
const highVelocityMin = 1.5

// ConvergenceVector measures how the legal distance between two
// concepts moved over time: positive means the systems converged,
// negative that they drifted apart.
type ConvergenceVector struct {
	Vector         float64 `json:"vector" yaml:"vector"`
	Direction      string  `json:"direction" yaml:"direction"`
	Magnitude      string  `json:"magnitude,omitempty" yaml:"magnitude,omitempty"`
	Interpretation string  `json:"interpretation" yaml:"interpretation"`
}

// Convergence computes V = d(t1) - d(t2) from two distance scores on
// the calibrated scale.
func Convergence(before, after float64) (*ConvergenceVector, error) {
	if before < 0 || before > 3 {
		return nil, &InvalidInputError{Field: "distance_t1", Value: fnum(before), Reason: "must be in [0.0, 3.0]"}
	}
	if after < 0 || after > 3 {
		return nil, &InvalidInputError{Field: "distance_t2", Value: fnum(after), Reason: "must be in [0.0, 3.0]"}
	}

	v := toFixed(before-after, 2)
	cv := &ConvergenceVector{Vector: v}

	switch {
	case v > 0:
		cv.Direction = DirectionConvergence
		cv.Magnitude = magnitude(v)
		cv.Interpretation = fmt.Sprintf("Legal convergence (+%s): %s harmonization", fnum(v), cv.Magnitude)
	case v < 0:
		cv.Direction = DirectionDivergence
		cv.Magnitude = magnitude(v)
		cv.Interpretation = fmt.Sprintf("Legal divergence (%s): %s drift", fnum(v), cv.Magnitude)
	default:
		cv.Direction = DirectionStable
		cv.Interpretation = "Stable equivalence: no net change"
	}

	return cv, nil
}

func magnitude(v float64) string {
	if math.Abs(v) >= highVelocityMin {
		return MagnitudeHigh
	}
	return MagnitudeIncremental
}

func toFixed(v float64, p int) float64 {
	m := math.Pow(10, float64(p))
	return math.Round(v*m) / m
}
