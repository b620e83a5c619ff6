// Package compatibility scores adopter/animal pairs with hand-weighted rules
// over size, energy, household coexistence, personality and lifestyle.
// Results are ordered by descending score, unlike the knn ranker which orders
// by ascending distance.
package compatibility

import (
	"cmp"
	"context"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/models"
)

// Dimension weights applied before the Euclidean norm.
const (
	WeightSize        = 3.5
	WeightEnergy      = 4.0
	WeightCoexistence = 5.0
	WeightPersonality = 2.5
	WeightLifestyle   = 3.0
)

const (
	maxScoredDistance  = 15.0
	scoreDecay         = 2.2
	defaultParallelism = 8
)

type Option func(*Scorer)

func WithLogger(l logger.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithParallelism(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// Scorer is stateless and safe for concurrent use.
type Scorer struct {
	parallelism int
	logger      logger.Logger
}

func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		parallelism: defaultParallelism,
		logger:      logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates every animal against prefs, best match first. Equal scores
// keep input order.
func (s *Scorer) Score(ctx context.Context, prefs models.AdopterPreferences, animals []models.AnimalProfile) ([]models.CompatibilityResult, error) {
	results := make([]models.CompatibilityResult, len(animals))
	if len(animals) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i := range animals {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Evaluate(prefs, animals[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b models.CompatibilityResult) int {
		return cmp.Compare(b.MatchScore, a.MatchScore)
	})

	s.logger.Debug("compatibility scored", map[string]interface{}{
		"userId":     prefs.UserID,
		"candidates": len(animals),
		"bestScore":  results[0].MatchScore,
	})
	return results, nil
}

// Evaluate scores a single pair.
func Evaluate(prefs models.AdopterPreferences, animal models.AnimalProfile) models.CompatibilityResult {
	f := Factors(prefs, animal)
	d := Distance(f)
	return models.CompatibilityResult{
		AnimalID:   animal.ID,
		AnimalName: animal.Name,
		MatchScore: DistanceToScore(d),
		Factors:    f,
		Reasons:    Reasons(f),
		Distance:   d,
	}
}

// Factors computes the five normalized dimension distances.
func Factors(prefs models.AdopterPreferences, animal models.AnimalProfile) models.CompatibilityFactors {
	return models.CompatibilityFactors{
		Size:        sizeDiff(prefs, animal),
		Energy:      energyDiff(prefs, animal),
		Coexistence: coexistencePenalty(prefs, animal),
		Personality: personalityDiff(prefs, animal),
		Lifestyle:   lifestyleDiff(prefs, animal),
	}
}

// Distance is the weighted Euclidean norm of the factors.
func Distance(f models.CompatibilityFactors) float64 {
	return math.Sqrt(
		sq(WeightSize*f.Size) +
			sq(WeightEnergy*f.Energy) +
			sq(WeightCoexistence*f.Coexistence) +
			sq(WeightPersonality*f.Personality) +
			sq(WeightLifestyle*f.Lifestyle))
}

// DistanceToScore maps a distance onto 0-100, 100 for a perfect match.
func DistanceToScore(d float64) float64 {
	d = math.Min(d, maxScoredDistance)
	return math.Round(100*math.Exp(-scoreDecay*d/maxScoredDistance)*10) / 10
}

func sq(x float64) float64 { return x * x }
