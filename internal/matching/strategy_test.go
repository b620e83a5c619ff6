package matching

import (
	"context"
	"testing"

	"adoption-workers/internal/matching/compatibility"
	"adoption-workers/internal/matching/knn"
	"adoption-workers/internal/matching/scaler"
	"adoption-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func strategies(t *testing.T) []Strategy {
	t.Helper()
	r, err := knn.NewRanker(scaler.Identity(2, scaler.MetricManhattan))
	require.NoError(t, err)
	return []Strategy{NewKNNStrategy(r), NewCompatibilityStrategy(compatibility.NewScorer())}
}

func TestStrategies_BestFirst(t *testing.T) {
	prefs := models.AdopterPreferences{
		UserID:          "u1",
		PreferredSize:   models.SizeMedium,
		PreferredEnergy: models.EnergyMedium,
		Experience:      models.ExperienceExpert,
		ActivityLevel:   models.ActivityModerate,
		Completed:       true,
	}
	animals := []models.AnimalProfile{
		{ID: "old-large", AgeYears: intPtr(12), Size: models.SizeLarge, Energy: models.EnergyHigh},
		{ID: "young-medium", AgeMonths: intPtr(18), Size: models.SizeMedium, Energy: models.EnergyMedium},
	}

	for _, s := range strategies(t) {
		t.Run(s.Name(), func(t *testing.T) {
			out, err := s.Match(context.Background(), prefs, animals)
			require.NoError(t, err)
			require.Len(t, out, 2)

			assert.Equal(t, "young-medium", out[0].AnimalID)
			assert.Equal(t, 1, out[0].Rank)
			assert.Equal(t, 2, out[1].Rank)
			assert.GreaterOrEqual(t, out[0].Score, out[1].Score)
		})
	}
}

func TestStrategies_Names(t *testing.T) {
	s := strategies(t)
	assert.Equal(t, StrategyKNN, s[0].Name())
	assert.Equal(t, StrategyCompatibility, s[1].Name())
}

func TestCompatibilityStrategy_CarriesReasons(t *testing.T) {
	s := NewCompatibilityStrategy(compatibility.NewScorer())
	out, err := s.Match(context.Background(), models.AdopterPreferences{Completed: true}, []models.AnimalProfile{{ID: "a"}})
	require.NoError(t, err)
	assert.NotEmpty(t, out[0].Reasons)
}
