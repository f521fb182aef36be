package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lexeq/lexeq/pkg/calibration"
	"github.com/lexeq/lexeq/pkg/equivalence"
	"github.com/lexeq/lexeq/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	logging.Init(false)
	os.Exit(m.Run())
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	output = &buf
	outputFormat = formatJSON
	t.Cleanup(func() {
		output = os.Stdout
		outputFormat = formatJSON
	})

	root := newRoot()
	err := root.Run(context.Background(), append([]string{"lexeq"}, args...))
	return buf.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := runCLI(t,
		"analyze",
		"--a-name", "stare_decisis",
		"--a-jurisdiction", "US",
		"--a-element", "binding precedent",
		"--a-objective", "ensure consistent adjudication",
		"--b-name", "doctrina_jurisprudencial",
		"--b-jurisdiction", "ES",
		"--b-element", "binding precedent",
		"--b-objective", "ensure consistent adjudication",
		"--reliability", "0.92",
		"--friction", "standard",
		"--iterations", "1",
	)
	require.NoError(t, err)

	var res equivalence.EquivalenceResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))

	assert.Equal(t, 1.0, res.DistanceScore)
	assert.Equal(t, equivalence.LevelFunctional, res.Level)
	assert.Equal(t, 3, res.StepReached)
	assert.Empty(t, res.Trace)
}

func TestAnalyzeCommand_Trace(t *testing.T) {
	out, err := runCLI(t,
		"analyze",
		"--a-name", "consideration",
		"--a-jurisdiction", "US",
		"--a-element", "bargained exchange",
		"--a-objective", "limit enforceable promises",
		"--b-name", "causa",
		"--b-jurisdiction", "FR",
		"--b-element", "bargained exchange",
		"--b-objective", "limit enforceable promises",
		"--trace",
	)
	require.NoError(t, err)

	var res equivalence.EquivalenceResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))

	assert.Equal(t, equivalence.LevelPartial, res.Level)
	assert.NotEmpty(t, res.Trace)
}

func TestAnalyzeCommand_Tier(t *testing.T) {
	out, err := runCLI(t,
		"analyze",
		"--a-name", "recurso_de_amparo",
		"--a-jurisdiction", "ES",
		"--a-element", "constitutional complaint",
		"--a-objective", "protect fundamental rights",
		"--b-name", "verfassungsbeschwerde",
		"--b-jurisdiction", "DE",
		"--b-element", "constitutional complaint",
		"--b-objective", "protect fundamental rights",
		"--reliability", "0.95",
		"--friction", "low",
		"--tier", "constitutional",
	)
	require.NoError(t, err)

	var res equivalence.EquivalenceResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))

	assert.Equal(t, 0.15, res.DistanceScore)
	assert.Equal(t, "Constitutional (d = 0.1-0.2)", res.ConfidenceInterval)
}

func TestAnalyzeCommand_InvalidInput(t *testing.T) {
	_, err := runCLI(t,
		"analyze",
		"--a-name", "a",
		"--a-jurisdiction", "US",
		"--b-name", "b",
		"--b-jurisdiction", "DE",
		"--reliability", "1.5",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reliability_rate")
}

func TestVectorCommand(t *testing.T) {
	out, err := runCLI(t, "vector", "--t1", "3.0", "--t2", "1.0")
	require.NoError(t, err)

	var v equivalence.ConvergenceVector
	require.NoError(t, json.Unmarshal([]byte(out), &v))

	assert.Equal(t, 2.0, v.Vector)
	assert.Equal(t, equivalence.DirectionConvergence, v.Direction)
	assert.Equal(t, equivalence.MagnitudeHigh, v.Magnitude)
}

func TestVectorCommand_YAML(t *testing.T) {
	out, err := runCLI(t, "--format", "yaml", "vector", "--t1", "2.5", "--t2", "2.0")
	require.NoError(t, err)

	var v equivalence.ConvergenceVector
	require.NoError(t, yaml.Unmarshal([]byte(out), &v))

	assert.Equal(t, 0.5, v.Vector)
	assert.Equal(t, equivalence.MagnitudeIncremental, v.Magnitude)
}

func TestCalibrationShowCommand(t *testing.T) {
	out, err := runCLI(t, "calibration", "show")
	require.NoError(t, err)

	var c calibration.Calibration
	require.NoError(t, json.Unmarshal([]byte(out), &c))

	assert.Equal(t, 0.85, c.Thresholds.Weak)
	assert.Len(t, c.FunctionalTiers, 4)
	assert.Len(t, c.PartialBands, 3)
}

func TestCalibrationCheckCommand(t *testing.T) {
	dir := t.TempDir()

	b, err := yaml.Marshal(calibration.Default())
	require.NoError(t, err)

	valid := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(valid, b, 0600))

	out, err := runCLI(t, "calibration", "check", "--file", valid)
	require.NoError(t, err)

	var report calibrationCheck
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Valid)
	assert.Equal(t, 1, report.Version)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("version: 0\n"), 0600))

	_, err = runCLI(t, "calibration", "check", "--file", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calibration check failed")
}

func TestCustomCalibrationFlag(t *testing.T) {
	dir := t.TempDir()

	c := calibration.Default()
	ft, ok := c.LookupTier(calibration.TierStandard)
	require.True(t, ok)
	ft.Score = 1.3

	b, err := yaml.Marshal(c)
	require.NoError(t, err)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, b, 0600))

	out, err := runCLI(t,
		"--calibration", path,
		"analyze",
		"--a-name", "stare_decisis",
		"--a-jurisdiction", "US",
		"--a-element", "binding precedent",
		"--a-objective", "ensure consistent adjudication",
		"--b-name", "doctrina_jurisprudencial",
		"--b-jurisdiction", "ES",
		"--b-element", "binding precedent",
		"--b-objective", "ensure consistent adjudication",
		"--reliability", "0.92",
	)
	require.NoError(t, err)

	var res equivalence.EquivalenceResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1.3, res.DistanceScore)
}

func TestPickMatcher(t *testing.T) {
	m, err := pickMatcher("", 0)
	require.NoError(t, err)
	assert.IsType(t, equivalence.ExactObjectiveMatcher{}, m)

	m, err = pickMatcher(matcherExact, 0)
	require.NoError(t, err)
	assert.IsType(t, equivalence.ExactObjectiveMatcher{}, m)

	m, err = pickMatcher(matcherKeyword, 0.1)
	require.NoError(t, err)
	require.IsType(t, equivalence.KeywordOverlapMatcher{}, m)
	assert.Equal(t, 0.1, m.(equivalence.KeywordOverlapMatcher).Margin)

	_, err = pickMatcher("semantic", 0)
	require.Error(t, err)
}

func TestLoadCalibration(t *testing.T) {
	c, err := loadCalibration("")
	require.NoError(t, err)
	assert.Equal(t, 0.85, c.Thresholds.Weak)

	_, err = loadCalibration("no-such-file.yaml")
	require.Error(t, err)
}
