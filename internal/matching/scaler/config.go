// Package scaler holds the pretrained feature normalization used by the
// nearest-neighbour ranker. A Config is built once at process start and is
// read-only afterwards.
package scaler

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"
)

// Dimension is the length of every feature vector, mean and scale array.
const Dimension = 9

const (
	MetricManhattan = "manhattan"
	MetricEuclidean = "euclidean"
)

// FeatureNames is the canonical feature order shared by the encoder and the
// scaler artifact.
var FeatureNames = []string{
	"age_months",
	"maturity_size",
	"fur_length",
	"health",
	"vaccinated",
	"dewormed",
	"sterilized",
	"fee",
	"photo_amt",
}

var ErrInvalidConfig = errors.New("SCALER_CONFIG_INVALID")

// Params is the serialized form of the scaler artifact.
type Params struct {
	Version      string    `json:"version"`
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	K            int       `json:"k"`
	Metric       string    `json:"metric"`
}

// Config is the validated, immutable scaler configuration.
type Config struct {
	version      string
	featureNames []string
	mean         []float64
	scale        []float64
	k            int
	metric       string
}

// New validates p and returns an immutable Config. All contract violations
// are reported together, wrapped in ErrInvalidConfig.
func New(p Params) (*Config, error) {
	var errs error
	if len(p.FeatureNames) != Dimension {
		errs = multierr.Append(errs, fmt.Errorf("feature_names has %d entries, want %d", len(p.FeatureNames), Dimension))
	}
	if len(p.Mean) != Dimension {
		errs = multierr.Append(errs, fmt.Errorf("mean has %d entries, want %d", len(p.Mean), Dimension))
	}
	if len(p.Scale) != Dimension {
		errs = multierr.Append(errs, fmt.Errorf("scale has %d entries, want %d", len(p.Scale), Dimension))
	}
	if p.K < 1 {
		errs = multierr.Append(errs, fmt.Errorf("k must be >= 1, got %d", p.K))
	}
	for i, v := range p.Mean {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = multierr.Append(errs, fmt.Errorf("mean[%d] is not finite", i))
		}
	}
	for i, v := range p.Scale {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = multierr.Append(errs, fmt.Errorf("scale[%d] must be finite and non-negative, got %v", i, v))
		}
	}
	if errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, errs)
	}

	metric := strings.ToLower(strings.TrimSpace(p.Metric))
	if metric == "" {
		metric = MetricManhattan
	}

	return &Config{
		version:      p.Version,
		featureNames: append([]string(nil), p.FeatureNames...),
		mean:         append([]float64(nil), p.Mean...),
		scale:        append([]float64(nil), p.Scale...),
		k:            p.K,
		metric:       metric,
	}, nil
}

// MustNew is New for static configurations in tests and tools.
func MustNew(p Params) *Config {
	cfg, err := New(p)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) Version() string { return c.version }
func (c *Config) K() int          { return c.k }

// Metric is the lower-cased metric name as configured. Unknown names are kept
// so the ranker can report them.
func (c *Config) Metric() string { return c.metric }

func (c *Config) Dimension() int { return len(c.mean) }

func (c *Config) FeatureNames() []string { return append([]string(nil), c.featureNames...) }
func (c *Config) Mean() []float64        { return append([]float64(nil), c.mean...) }
func (c *Config) Scale() []float64       { return append([]float64(nil), c.scale...) }

// Params returns a copy of the configuration in serializable form.
func (c *Config) Params() Params {
	return Params{
		Version:      c.version,
		FeatureNames: c.FeatureNames(),
		Mean:         c.Mean(),
		Scale:        c.Scale(),
		K:            c.k,
		Metric:       c.metric,
	}
}

// Standardize maps v through (x - mean[i]) / scale[i]. A zero scale yields 0
// for that dimension. The caller guarantees len(v) == Dimension().
func (c *Config) Standardize(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if c.scale[i] == 0 {
			continue
		}
		out[i] = (x - c.mean[i]) / c.scale[i]
	}
	return out
}

// Identity returns a configuration with zero means and unit scales, useful
// when vectors should be compared unscaled.
func Identity(k int, metric string) *Config {
	scale := make([]float64, Dimension)
	for i := range scale {
		scale[i] = 1
	}
	return MustNew(Params{
		Version:      "identity",
		FeatureNames: FeatureNames,
		Mean:         make([]float64, Dimension),
		Scale:        scale,
		K:            k,
		Metric:       metric,
	})
}
