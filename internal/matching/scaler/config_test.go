package scaler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() Params {
	return Params{
		Version:      "test",
		FeatureNames: FeatureNames,
		Mean:         []float64{10, 2, 2, 1, 1, 1, 1, 0, 3},
		Scale:        []float64{5, 1, 1, 1, 1, 1, 1, 0, 2},
		K:            3,
		Metric:       "Euclidean",
	}
}

func TestNew_Valid(t *testing.T) {
	cfg, err := New(validParams())
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Version())
	assert.Equal(t, 3, cfg.K())
	assert.Equal(t, MetricEuclidean, cfg.Metric())
	assert.Equal(t, Dimension, cfg.Dimension())
	assert.Equal(t, FeatureNames, cfg.FeatureNames())
}

func TestNew_DefaultsMetric(t *testing.T) {
	p := validParams()
	p.Metric = "  "
	cfg, err := New(p)
	require.NoError(t, err)
	assert.Equal(t, MetricManhattan, cfg.Metric())
}

func TestNew_ReportsEveryViolation(t *testing.T) {
	p := validParams()
	p.Mean = p.Mean[:8]
	p.Scale = append(p.Scale, 1)
	p.K = 0

	_, err := New(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "mean has 8 entries")
	assert.Contains(t, err.Error(), "scale has 10 entries")
	assert.Contains(t, err.Error(), "k must be >= 1")
}

func TestNew_RejectsNegativeScale(t *testing.T) {
	p := validParams()
	p.Scale[2] = -1
	_, err := New(p)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_IsImmutable(t *testing.T) {
	p := validParams()
	cfg := MustNew(p)

	p.Mean[0] = 999
	cfg.Mean()[1] = 999
	assert.Equal(t, 10.0, cfg.Mean()[0])
	assert.Equal(t, 2.0, cfg.Mean()[1])
}

func TestStandardize_ZeroScale(t *testing.T) {
	cfg := MustNew(validParams())
	out := cfg.Standardize([]float64{20, 3, 2, 1, 1, 1, 1, 500, 7})

	assert.InDelta(t, 2.0, out[0], 1e-9)
	assert.InDelta(t, 1.0, out[1], 1e-9)
	assert.Equal(t, 0.0, out[7], "zero scale must zero the dimension")
	assert.InDelta(t, 2.0, out[8], 1e-9)
}

func TestIdentity(t *testing.T) {
	cfg := Identity(2, MetricManhattan)
	v := []float64{36, 2, 2, 1, 1, 1, 1, 0, 5}
	assert.Equal(t, v, cfg.Standardize(v))
	assert.Equal(t, 2, cfg.K())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"version": "v1",
		"feature_names": ["a","b","c","d","e","f","g","h","i"],
		"mean": [0,0,0,0,0,0,0,0,0],
		"scale": [1,1,1,1,1,1,1,1,1],
		"k": 4,
		"metric": "manhattan"
	}`))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.K())
	assert.Equal(t, "v1", cfg.Version())
}

func TestParse_SchemaViolation(t *testing.T) {
	_, err := Parse([]byte(`{"mean": "nope", "k": 1}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scaler.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"feature_names": ["a","b","c","d","e","f","g","h","i"],
		"mean": [1,1,1,1,1,1,1,1,1],
		"scale": [2,2,2,2,2,2,2,2,2],
		"k": 1,
		"metric": "euclidean"
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, MetricEuclidean, cfg.Metric())

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_ShippedArtifact(t *testing.T) {
	cfg, err := Load("../../../configs/scaler.json")
	require.NoError(t, err)
	assert.Equal(t, FeatureNames, cfg.FeatureNames())
}
