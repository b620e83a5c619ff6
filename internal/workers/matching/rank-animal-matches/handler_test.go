package rankanimalmatches

import (
	"context"
	"testing"
	"time"

	"adoption-workers/internal/common/errors"
	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/common/validation"
	"adoption-workers/internal/matching/knn"
	"adoption-workers/internal/matching/scaler"
	"adoption-workers/internal/models"
	"adoption-workers/internal/workers/matching/resolve"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetAnimals(ctx context.Context, ids []string) ([]models.AnimalProfile, error) {
	args := m.Called(ctx, ids)
	animals, _ := args.Get(0).([]models.AnimalProfile)
	return animals, args.Error(1)
}

func (m *mockCatalog) GetAdopterPreferences(ctx context.Context, userID string) (*models.AdopterPreferences, error) {
	args := m.Called(ctx, userID)
	prefs, _ := args.Get(0).(*models.AdopterPreferences)
	return prefs, args.Error(1)
}

func (m *mockCatalog) ListAdoptable(ctx context.Context, limit int) ([]models.AnimalProfile, error) {
	args := m.Called(ctx, limit)
	animals, _ := args.Get(0).([]models.AnimalProfile)
	return animals, args.Error(1)
}

func intPtr(v int) *int { return &v }

func completedPrefs() *models.AdopterPreferences {
	return &models.AdopterPreferences{
		UserID:          "u-1",
		PreferredSize:   models.SizeMedium,
		PreferredEnergy: models.EnergyMedium,
		Experience:      models.ExperienceIntermediate,
		ActivityLevel:   models.ActivityModerate,
		AvailableTime:   models.LevelMedium,
		Completed:       true,
	}
}

func testAnimals() []models.AnimalProfile {
	return []models.AnimalProfile{
		{ID: "far", Name: "Rex", AgeMonths: intPtr(120), Size: models.SizeLarge, Breed: "Husky"},
		{ID: "near", Name: "Luna", AgeMonths: intPtr(36), Size: models.SizeMedium, Photos: []string{"1", "2", "3", "4", "5"}},
		{ID: "mid", Name: "Toby", AgeMonths: intPtr(24), Size: models.SizeSmall},
	}
}

func newTestHandler(t *testing.T, cat resolve.Catalog, rdb *redis.Client) *Handler {
	t.Helper()
	ranker, err := knn.NewRanker(scaler.Identity(2, scaler.MetricManhattan))
	require.NoError(t, err)

	cfg := LoadConfig()
	cfg.Timeout = 5 * time.Second
	return NewHandler(cfg, ranker, resolve.New(cat, nil, 100), rdb, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_InlineCandidates(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	out, err := h.Execute(context.Background(), &Input{
		Subject:    resolve.Subject{Preferences: completedPrefs()},
		Candidates: resolve.Candidates{Animals: testAnimals()},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, 3, out.TotalCount)
	assert.Equal(t, 2, out.K)
	assert.Equal(t, scaler.MetricManhattan, out.Metric)
	assert.Equal(t, "identity", out.ScalerVersion)
	require.Len(t, out.TopMatches, 2)
	require.Len(t, out.AllMatches, 3)
	assert.Equal(t, "near", out.TopMatches[0].AnimalID)

	for i, m := range out.AllMatches {
		assert.Equal(t, i+1, m.Rank)
		assert.Equal(t, i < 2, m.IsTopK)
		if i > 0 {
			assert.GreaterOrEqual(t, m.Distance, out.AllMatches[i-1].Distance)
		}
	}
	assert.False(t, out.Cached)
}

func TestHandler_Execute_ExplicitK(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	out, err := h.Execute(context.Background(), &Input{
		Subject:    resolve.Subject{Preferences: completedPrefs()},
		Candidates: resolve.Candidates{Animals: testAnimals()},
		K:          10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, out.K)
	assert.Len(t, out.TopMatches, 3)
}

func TestHandler_Execute_EmptyCandidates(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	out, err := h.Execute(context.Background(), &Input{
		Subject:    resolve.Subject{Preferences: completedPrefs()},
		Candidates: resolve.Candidates{Animals: []models.AnimalProfile{}},
	})
	require.NoError(t, err)
	assert.Empty(t, out.TopMatches)
	assert.Empty(t, out.AllMatches)
	assert.Equal(t, 0, out.TotalCount)
}

func TestHandler_Execute_LoadsFromCatalog(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("GetAdopterPreferences", mock.Anything, "u-1").Return(completedPrefs(), nil)
	cat.On("GetAnimals", mock.Anything, []string{"far", "near"}).Return(testAnimals()[:2], nil)

	h := newTestHandler(t, cat, nil)
	out, err := h.Execute(context.Background(), &Input{
		Subject:    resolve.Subject{AdopterID: "u-1"},
		Candidates: resolve.Candidates{AnimalIDs: []string{"far", "near"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "near", out.TopMatches[0].AnimalID)
	cat.AssertExpectations(t)
}

func TestHandler_Execute_IncompletePreferences(t *testing.T) {
	prefs := completedPrefs()
	prefs.Completed = false

	cat := &mockCatalog{}
	cat.On("GetAdopterPreferences", mock.Anything, "u-1").Return(prefs, nil)

	h := newTestHandler(t, cat, nil)
	_, err := h.Execute(context.Background(), &Input{
		Subject:    resolve.Subject{AdopterID: "u-1"},
		Candidates: resolve.Candidates{Animals: testAnimals()},
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePreferencesIncomplete, errors.Normalize(err).Code)
	cat.AssertNotCalled(t, "GetAnimals", mock.Anything, mock.Anything)
}

func TestHandler_Execute_NegativeK(t *testing.T) {
	h := newTestHandler(t, nil, nil)
	_, err := h.Execute(context.Background(), &Input{K: -1})
	assert.Equal(t, errors.ErrCodeInputValidationFailed, errors.Normalize(err).Code)
}

func TestHandler_Execute_ResultCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	h := newTestHandler(t, nil, rdb)
	input := &Input{
		Subject:    resolve.Subject{Preferences: completedPrefs()},
		Candidates: resolve.Candidates{Animals: testAnimals()},
	}

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Len(t, mr.Keys(), 1)

	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.AllMatches, second.AllMatches)
}

func TestHandler_ParseInput(t *testing.T) {
	schema, err := validation.Compile(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"k": map[string]interface{}{"type": "integer", "minimum": 0},
		},
	})
	require.NoError(t, err)

	h := newTestHandler(t, nil, nil)
	h.schema = schema

	input, err := h.parseInput(entities.Job{ActivatedJob: &pb.ActivatedJob{
		Variables: `{"adopterId":"u-1","animalIds":["a1","a2"],"k":3}`,
	}})
	require.NoError(t, err)
	assert.Equal(t, "u-1", input.AdopterID)
	assert.Equal(t, []string{"a1", "a2"}, input.AnimalIDs)
	assert.Equal(t, 3, input.K)

	_, err = h.parseInput(entities.Job{ActivatedJob: &pb.ActivatedJob{Variables: `{"k":"three"}`}})
	assert.Equal(t, errors.ErrCodeInputValidationFailed, errors.Normalize(err).Code)
}
