package knn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceToScore(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 100.0},
		{10, 36.8},
		{30, 5.0},
		{45, 5.0},
		{1e9, 5.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DistanceToScore(tt.distance), "distance %v", tt.distance)
	}
}

func TestDistanceToScore_Monotonic(t *testing.T) {
	prev := math.Inf(1)
	for d := 0.0; d <= 30; d += 0.5 {
		s := DistanceToScore(d)
		assert.LessOrEqual(t, s, prev)
		assert.GreaterOrEqual(t, s, 0.0)
		prev = s
	}
}

func TestMetrics(t *testing.T) {
	a := []float64{0, 0, 0}
	b := []float64{3, 4, 0}
	assert.Equal(t, 7.0, manhattan(a, b))
	assert.Equal(t, 5.0, euclidean(a, b))
	assert.Equal(t, 0.0, manhattan(b, b))
}

func TestCheckDimension(t *testing.T) {
	assert.NoError(t, checkDimension(make([]float64, 9), 9))
	assert.ErrorIs(t, checkDimension(make([]float64, 8), 9), ErrDimensionMismatch)
}
