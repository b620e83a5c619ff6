package resolve

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"adoption-workers/internal/catalog"
	"adoption-workers/internal/common/errors"
	"adoption-workers/internal/matching/knn"
	"adoption-workers/internal/matching/scaler"
	"adoption-workers/internal/models"

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

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) FindAdoptable(ctx context.Context, f catalog.Filter) ([]models.AnimalProfile, error) {
	args := m.Called(ctx, f)
	animals, _ := args.Get(0).([]models.AnimalProfile)
	return animals, args.Error(1)
}

func (m *mockSearcher) Index() string { return "animals" }

func code(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var std *errors.StandardError
	require.True(t, stderrors.As(err, &std), "expected StandardError, got %v", err)
	return std.Code
}

func TestPreferences_InlineWins(t *testing.T) {
	cat := new(mockCatalog)
	r := New(cat, nil, 0)

	prefs, err := r.Preferences(context.Background(), Subject{
		AdopterID:   "u1",
		Preferences: &models.AdopterPreferences{UserID: "inline", Completed: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "inline", prefs.UserID)
	cat.AssertNotCalled(t, "GetAdopterPreferences", mock.Anything, mock.Anything)
}

func TestPreferences_FromCatalog(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("GetAdopterPreferences", mock.Anything, "u1").
		Return(&models.AdopterPreferences{UserID: "u1", Completed: true}, nil)

	prefs, err := New(cat, nil, 0).Preferences(context.Background(), Subject{AdopterID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", prefs.UserID)
	cat.AssertExpectations(t)
}

func TestPreferences_Errors(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("GetAdopterPreferences", mock.Anything, "ghost").
		Return(nil, &catalog.NotFoundError{Entity: "adopter", ID: "ghost"})
	cat.On("GetAdopterPreferences", mock.Anything, "draft").
		Return(&models.AdopterPreferences{Completed: false}, nil)
	cat.On("GetAdopterPreferences", mock.Anything, "slow").
		Return(nil, fmt.Errorf("query: %w", context.DeadlineExceeded))
	r := New(cat, nil, 0)

	tests := []struct {
		name    string
		subject Subject
		want    errors.ErrorCode
	}{
		{"no subject", Subject{}, errors.ErrCodeInputValidationFailed},
		{"unknown adopter", Subject{AdopterID: "ghost"}, errors.ErrCodeAdopterNotFound},
		{"incomplete", Subject{AdopterID: "draft"}, errors.ErrCodePreferencesIncomplete},
		{"timeout", Subject{AdopterID: "slow"}, errors.ErrCodeQueryTimeout},
		{"inline incomplete", Subject{Preferences: &models.AdopterPreferences{}}, errors.ErrCodePreferencesIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Preferences(context.Background(), tt.subject)
			assert.Equal(t, tt.want, code(t, err))
		})
	}
}

func TestPreferences_NoCatalog(t *testing.T) {
	_, err := New(nil, nil, 0).Preferences(context.Background(), Subject{AdopterID: "u1"})
	assert.Equal(t, errors.ErrCodeInputValidationFailed, code(t, err))
}

func TestAnimals_InlineWins(t *testing.T) {
	inline := []models.AnimalProfile{{ID: "x"}}
	animals, err := New(nil, nil, 0).Animals(context.Background(), Candidates{Animals: inline, AnimalIDs: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, inline, animals)
}

func TestAnimals_InlineEmptyIsKept(t *testing.T) {
	animals, err := New(nil, nil, 0).Animals(context.Background(), Candidates{Animals: []models.AnimalProfile{}})
	require.NoError(t, err)
	assert.Empty(t, animals)
}

func TestAnimals_ByIDs(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("GetAnimals", mock.Anything, []string{"a", "b"}).
		Return([]models.AnimalProfile{{ID: "a"}, {ID: "b"}}, nil)
	cat.On("GetAnimals", mock.Anything, []string{"zz"}).
		Return(nil, &catalog.NotFoundError{Entity: "animal", ID: "zz"})
	r := New(cat, nil, 2)

	animals, err := r.Animals(context.Background(), Candidates{AnimalIDs: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Len(t, animals, 2)

	_, err = r.Animals(context.Background(), Candidates{AnimalIDs: []string{"zz"}})
	assert.Equal(t, errors.ErrCodeAnimalNotFound, code(t, err))

	_, err = r.Animals(context.Background(), Candidates{AnimalIDs: []string{"a", "b", "c"}})
	assert.Equal(t, errors.ErrCodeInputValidationFailed, code(t, err))
}

func TestAnimals_SearchCapsLimit(t *testing.T) {
	search := new(mockSearcher)
	yes := true
	search.On("FindAdoptable", mock.Anything, catalog.Filter{GoodWithCats: &yes, Limit: 50}).
		Return([]models.AnimalProfile{{ID: "s1"}}, nil)

	r := New(new(mockCatalog), search, 50)
	animals, err := r.Animals(context.Background(), Candidates{Search: &catalog.Filter{GoodWithCats: &yes, Limit: 1000}})
	require.NoError(t, err)
	assert.Equal(t, "s1", animals[0].ID)
	search.AssertExpectations(t)
}

func TestAnimals_SearchErrors(t *testing.T) {
	search := new(mockSearcher)
	search.On("FindAdoptable", mock.Anything, mock.MatchedBy(func(f catalog.Filter) bool { return len(f.Sizes) == 0 })).
		Return(nil, fmt.Errorf("es: %w", context.DeadlineExceeded)).Once()
	search.On("FindAdoptable", mock.Anything, mock.Anything).
		Return(nil, stderrors.New("status 500")).Once()
	r := New(nil, search, 0)

	_, err := r.Animals(context.Background(), Candidates{})
	assert.Equal(t, errors.ErrCodeSearchTimeout, code(t, err))

	_, err = r.Animals(context.Background(), Candidates{Search: &catalog.Filter{Sizes: []models.SizeClass{models.SizeLarge}}})
	assert.Equal(t, errors.ErrCodeSearchQueryFailed, code(t, err))
}

func TestAnimals_FallsBackToCatalogListing(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("ListAdoptable", mock.Anything, 500).Return([]models.AnimalProfile{{ID: "l1"}}, nil)

	animals, err := New(cat, nil, 0).Animals(context.Background(), Candidates{})
	require.NoError(t, err)
	assert.Equal(t, "l1", animals[0].ID)
	cat.AssertExpectations(t)
}

func TestAnimals_NoSource(t *testing.T) {
	_, err := New(nil, nil, 0).Animals(context.Background(), Candidates{AnimalIDs: []string{"a"}})
	assert.Equal(t, errors.ErrCodeInputValidationFailed, code(t, err))
}

func TestMapLookupError(t *testing.T) {
	r := New(nil, nil, 0)
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, code(t, r.MapLookupError("animals", stderrors.New("syntax"))))

	std := errors.NewDatabaseConnectionFailedError(stderrors.New("refused"))
	assert.Same(t, std, r.MapLookupError("animals", fmt.Errorf("wrapped: %w", std)))
}

func TestMapScoringError(t *testing.T) {
	tests := []struct {
		err  error
		want errors.ErrorCode
	}{
		{fmt.Errorf("animal a: %w", knn.ErrDimensionMismatch), errors.ErrCodeFeatureDimensionMismatch},
		{fmt.Errorf("load: %w", scaler.ErrInvalidConfig), errors.ErrCodeScalerConfigInvalid},
		{context.DeadlineExceeded, errors.ErrCodeScoringTimeout},
		{context.Canceled, errors.ErrCodeScoringTimeout},
		{errors.NewUnknownStrategyError("x"), errors.ErrCodeUnknownStrategy},
		{stderrors.New("boom"), errors.ErrCodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, code(t, MapScoringError(tt.err)), tt.err.Error())
	}
}

func TestAnimalAge(t *testing.T) {
	months := 30
	cat := new(mockCatalog)
	cat.On("GetAnimals", mock.Anything, []string{"a1"}).
		Return([]models.AnimalProfile{{ID: "a1", AgeMonths: &months}}, nil)
	r := New(cat, nil, 0)

	years := 1
	age, err := r.AnimalAge(context.Background(), "a1", &models.AnimalAge{Years: &years})
	require.NoError(t, err)
	assert.Equal(t, 12, age.InMonths())

	age, err = r.AnimalAge(context.Background(), "a1", nil)
	require.NoError(t, err)
	assert.Equal(t, 30, age.InMonths())

	age, err = r.AnimalAge(context.Background(), "", nil)
	require.NoError(t, err)
	assert.True(t, age.IsPuppy())
}
