// Package knn ranks adoptable animals for an adopter by distance in the
// standardized feature space. Lower distance is a better match.
package knn

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/matching/features"
	"adoption-workers/internal/matching/scaler"
	"adoption-workers/internal/models"
)

const defaultParallelism = 8

// Option configures a Ranker.
type Option func(*Ranker)

func WithLogger(l logger.Logger) Option {
	return func(r *Ranker) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithParallelism bounds how many candidates are encoded and measured
// concurrently. Values below 1 are ignored.
func WithParallelism(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

// Ranker is safe for concurrent use; it only reads its scaler configuration.
type Ranker struct {
	cfg         *scaler.Config
	metric      string
	distance    distanceFunc
	parallelism int
	logger      logger.Logger
}

// RankResult is the outcome of ranking a candidate list.
type RankResult struct {
	TopMatches    []models.MatchResult `json:"topMatches"`
	AllMatches    []models.MatchResult `json:"allMatches"`
	K             int                  `json:"k"`
	TotalCount    int                  `json:"totalCount"`
	Metric        string               `json:"metric"`
	ScalerVersion string               `json:"scalerVersion,omitempty"`
}

// NewRanker builds a ranker over cfg. Unknown metric names fall back to
// manhattan.
func NewRanker(cfg *scaler.Config, opts ...Option) (*Ranker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil scaler config", scaler.ErrInvalidConfig)
	}
	r := &Ranker{
		cfg:         cfg,
		parallelism: defaultParallelism,
		logger:      logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.metric = cfg.Metric()
	fn, ok := metrics[r.metric]
	if !ok {
		r.logger.Warn("unknown distance metric, using manhattan", map[string]interface{}{
			"metric": cfg.Metric(),
		})
		r.metric = scaler.MetricManhattan
		fn = manhattan
	}
	r.distance = fn
	return r, nil
}

// Metric is the distance metric in effect.
func (r *Ranker) Metric() string { return r.metric }

// K is the configured neighbour count.
func (r *Ranker) K() int { return r.cfg.K() }

func (r *Ranker) ScalerVersion() string { return r.cfg.Version() }

// Scale standardizes v with the configured mean and scale.
func (r *Ranker) Scale(v []float64) ([]float64, error) {
	if err := checkDimension(v, r.cfg.Dimension()); err != nil {
		return nil, err
	}
	return r.cfg.Standardize(v), nil
}

// Distance measures a and b under the configured metric.
func (r *Ranker) Distance(a, b []float64) (float64, error) {
	if err := checkDimension(a, r.cfg.Dimension()); err != nil {
		return 0, err
	}
	if err := checkDimension(b, r.cfg.Dimension()); err != nil {
		return 0, err
	}
	return r.distance(a, b), nil
}

// Rank scores every animal against prefs and orders them by ascending
// distance, ties kept in input order. k <= 0 uses the configured K.
func (r *Ranker) Rank(ctx context.Context, prefs models.AdopterPreferences, animals []models.AnimalProfile, k int) (*RankResult, error) {
	if k <= 0 {
		k = r.cfg.K()
	}
	result := &RankResult{
		TopMatches:    []models.MatchResult{},
		AllMatches:    []models.MatchResult{},
		K:             k,
		TotalCount:    len(animals),
		Metric:        r.metric,
		ScalerVersion: r.cfg.Version(),
	}
	if len(animals) == 0 {
		return result, nil
	}

	adopterRaw := features.EncodeAdopter(prefs)
	adopterScaled, err := r.Scale(adopterRaw)
	if err != nil {
		return nil, err
	}

	matches := make([]models.MatchResult, len(animals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i := range animals {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := r.measure(adopterScaled, animals[i])
			if err != nil {
				return fmt.Errorf("animal %s: %w", animals[i].ID, err)
			}
			matches[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(matches, func(a, b models.MatchResult) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	for i := range matches {
		matches[i].Rank = i + 1
		matches[i].IsTopK = i < k
	}

	result.AllMatches = matches
	result.TopMatches = matches[:min(k, len(matches))]

	r.logger.Debug("candidates ranked", map[string]interface{}{
		"userId":     prefs.UserID,
		"candidates": len(animals),
		"k":          k,
		"bestScore":  matches[0].Score,
	})
	return result, nil
}

// MatchOne measures a single animal. With no peers to rank against the
// result is always rank 1 and within top-K.
func (r *Ranker) MatchOne(_ context.Context, prefs models.AdopterPreferences, animal models.AnimalProfile) (*models.MatchResult, error) {
	adopterScaled, err := r.Scale(features.EncodeAdopter(prefs))
	if err != nil {
		return nil, err
	}
	m, err := r.measure(adopterScaled, animal)
	if err != nil {
		return nil, err
	}
	m.Rank = 1
	m.IsTopK = true
	return &m, nil
}

func (r *Ranker) measure(adopterScaled []float64, animal models.AnimalProfile) (models.MatchResult, error) {
	raw := features.EncodeAnimal(animal)
	scaled, err := r.Scale(raw)
	if err != nil {
		return models.MatchResult{}, err
	}
	d, err := r.Distance(adopterScaled, scaled)
	if err != nil {
		return models.MatchResult{}, err
	}
	return models.MatchResult{
		AnimalID:       animal.ID,
		AnimalName:     animal.Name,
		Distance:       d,
		Score:          DistanceToScore(d),
		RawFeatures:    raw,
		ScaledFeatures: scaled,
	}, nil
}

// Explanation is a diagnostic breakdown of one adopter/animal pair.
type Explanation struct {
	AnimalID        string             `json:"animalId"`
	AnimalName      string             `json:"animalName"`
	Metric          string             `json:"metric"`
	Distance        float64            `json:"distance"`
	Score           float64            `json:"score"`
	AdopterFeatures map[string]float64 `json:"adopterFeatures"`
	AnimalFeatures  map[string]float64 `json:"animalFeatures"`
	Differences     map[string]float64 `json:"differences"`
	GenderCode      float64            `json:"genderCode"`
}

// Explain recomputes the match of one pair and reports the unscaled absolute
// difference per feature.
func (r *Ranker) Explain(prefs models.AdopterPreferences, animal models.AnimalProfile) (*Explanation, error) {
	adopterRaw := features.EncodeAdopter(prefs)
	animalRaw := features.EncodeAnimal(animal)

	adopterScaled, err := r.Scale(adopterRaw)
	if err != nil {
		return nil, err
	}
	animalScaled, err := r.Scale(animalRaw)
	if err != nil {
		return nil, err
	}
	d, err := r.Distance(adopterScaled, animalScaled)
	if err != nil {
		return nil, err
	}

	names := r.cfg.FeatureNames()
	exp := &Explanation{
		AnimalID:        animal.ID,
		AnimalName:      animal.Name,
		Metric:          r.metric,
		Distance:        d,
		Score:           DistanceToScore(d),
		AdopterFeatures: make(map[string]float64, len(names)),
		AnimalFeatures:  make(map[string]float64, len(names)),
		Differences:     make(map[string]float64, len(names)),
		GenderCode:      features.GenderCode(animal.Gender),
	}
	for i, name := range names {
		exp.AdopterFeatures[name] = adopterRaw[i]
		exp.AnimalFeatures[name] = animalRaw[i]
		exp.Differences[name] = math.Abs(adopterRaw[i] - animalRaw[i])
	}
	return exp, nil
}
