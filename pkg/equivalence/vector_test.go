package equivalence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvergence(t *testing.T) {
	tests := []struct {
		name          string
		before        float64
		after         float64
		wantVector    float64
		wantDirection string
		wantMagnitude string
	}{
		{"high convergence", 3.0, 1.0, 2.0, DirectionConvergence, MagnitudeHigh},
		{"incremental convergence", 2.5, 2.0, 0.5, DirectionConvergence, MagnitudeIncremental},
		{"velocity boundary", 2.0, 0.5, 1.5, DirectionConvergence, MagnitudeHigh},
		{"high divergence", 1.0, 3.0, -2.0, DirectionDivergence, MagnitudeHigh},
		{"incremental divergence", 1.0, 1.4, -0.4, DirectionDivergence, MagnitudeIncremental},
		{"stable", 1.7, 1.7, 0.0, DirectionStable, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cv, err := Convergence(tc.before, tc.after)
			require.NoError(t, err)
			require.NotNil(t, cv)

			assert.Equal(t, tc.wantVector, cv.Vector)
			assert.Equal(t, tc.wantDirection, cv.Direction)
			assert.Equal(t, tc.wantMagnitude, cv.Magnitude)
			assert.NotEmpty(t, cv.Interpretation)
		})
	}
}

func TestConvergence_Rounding(t *testing.T) {
	// 2.9 - 1.7 is not representable exactly; the vector must still be.
	cv, err := Convergence(2.9, 1.7)
	require.NoError(t, err)
	assert.Equal(t, 1.2, cv.Vector)

	cv, err = Convergence(1.7, 0.15)
	require.NoError(t, err)
	assert.Equal(t, 1.55, cv.Vector)
	assert.Equal(t, MagnitudeHigh, cv.Magnitude)
}

func TestConvergence_Invalid(t *testing.T) {
	cv, err := Convergence(-0.1, 1.0)
	require.Error(t, err)
	assert.Nil(t, cv)

	var iie *InvalidInputError
	require.ErrorAs(t, err, &iie)
	assert.Equal(t, "distance_t1", iie.Field)

	cv, err = Convergence(1.0, 3.5)
	require.Error(t, err)
	assert.Nil(t, cv)
	require.ErrorAs(t, err, &iie)
	assert.Equal(t, "distance_t2", iie.Field)
}
