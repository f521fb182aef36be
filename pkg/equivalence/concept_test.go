package equivalence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalConcept_Validate(t *testing.T) {
	c := LegalConcept{Name: "promissory_estoppel", Jurisdiction: "UK"}
	assert.NoError(t, c.Validate())

	c.Name = ""
	err := c.Validate()
	var iie *InvalidInputError
	require.ErrorAs(t, err, &iie)
	assert.Equal(t, "concept.name", iie.Field)

	c.Name = "promissory_estoppel"
	c.Jurisdiction = ""
	require.ErrorAs(t, c.Validate(), &iie)
	assert.Equal(t, "concept.jurisdiction", iie.Field)
}

func TestFunctionalTest_Validate(t *testing.T) {
	valid := func() *FunctionalTest {
		return &FunctionalTest{
			ReliabilityRate:    0.9,
			ProceduralFriction: FrictionStandard,
			IterationThreshold: 2,
		}
	}
	assert.NoError(t, valid().Validate())

	// Range edges are valid on both sides.
	ft := valid()
	ft.ReliabilityRate = 0.0
	assert.NoError(t, ft.Validate())
	ft.ReliabilityRate = 1.0
	assert.NoError(t, ft.Validate())

	ft = valid()
	ft.IterationThreshold = 1
	assert.NoError(t, ft.Validate())
	ft.IterationThreshold = 5
	assert.NoError(t, ft.Validate())

	for _, f := range []Friction{FrictionLow, FrictionStandard, FrictionHigh} {
		ft = valid()
		ft.ProceduralFriction = f
		assert.NoError(t, ft.Validate())
	}

	var iie *InvalidInputError

	ft = valid()
	ft.ReliabilityRate = 1.2
	require.ErrorAs(t, ft.Validate(), &iie)
	assert.Equal(t, "functional_test.reliability_rate", iie.Field)
	assert.Equal(t, "1.2", iie.Value)

	ft = valid()
	ft.ProceduralFriction = "none"
	require.ErrorAs(t, ft.Validate(), &iie)
	assert.Equal(t, "functional_test.procedural_friction", iie.Field)

	ft = valid()
	ft.IterationThreshold = 7
	require.ErrorAs(t, ft.Validate(), &iie)
	assert.Equal(t, "functional_test.iteration_threshold", iie.Field)
	assert.Equal(t, "7", iie.Value)
}
