package knn

import (
	"errors"
	"fmt"
	"math"

	"adoption-workers/internal/matching/scaler"
)

var ErrDimensionMismatch = errors.New("FEATURE_DIMENSION_MISMATCH")

const (
	maxScoredDistance = 30.0
	scoreDecay        = 3.0
)

type distanceFunc func(a, b []float64) float64

func manhattan(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

var metrics = map[string]distanceFunc{
	scaler.MetricManhattan: manhattan,
	scaler.MetricEuclidean: euclidean,
}

// DistanceToScore converts a distance into a 0-100 score, 100 meaning
// identical vectors. Distances beyond 30 all score the same.
func DistanceToScore(d float64) float64 {
	d = math.Min(d, maxScoredDistance)
	return round1(100 * math.Exp(-scoreDecay*d/maxScoredDistance))
}

func checkDimension(v []float64, want int) error {
	if len(v) != want {
		return fmt.Errorf("%w: vector has %d dimensions, scaler expects %d", ErrDimensionMismatch, len(v), want)
	}
	return nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
