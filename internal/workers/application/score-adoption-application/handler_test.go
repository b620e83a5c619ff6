package scoreadoptionapplication

import (
	"context"
	"testing"

	"adoption-workers/internal/catalog"
	"adoption-workers/internal/common/errors"
	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/matching/application"
	"adoption-workers/internal/models"
	"adoption-workers/internal/workers/matching/resolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
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

func newTestHandler(t *testing.T, cat resolve.Catalog) *Handler {
	return NewHandler(LoadConfig(), application.NewScorer(), resolve.New(cat, nil, 10), nil,
		logger.NewZapAdapter(zaptest.NewLogger(t)))
}

func intPtr(v int) *int { return &v }

func bestForm() models.ApplicationForm {
	return models.ApplicationForm{
		FamilyDecision:      "agree",
		MonthlyBudget:       "high",
		AllowVisits:         "yes",
		AcceptSterilization: "yes",
		Housing:             "Casa urbana",
		RelationAnimals:     "positive",
		TravelPlans:         "withOwner",
		BehaviorResponse:    "trainOrAccept",
		CareCommitment:      "fullCare",
	}
}

func TestHandler_Execute_InlinePuppy(t *testing.T) {
	h := newTestHandler(t, nil)

	out, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		Form:          bestForm(),
		AnimalAge:     &models.AnimalAge{Months: intPtr(6)},
	})
	require.NoError(t, err)
	assert.Equal(t, "app-1", out.ApplicationID)
	assert.Equal(t, 100, out.Percentage)
	assert.True(t, out.Eligible)
	assert.Equal(t, application.EligibilityThreshold, out.Threshold)
	assert.Empty(t, out.ExcludedCriteria)
	assert.Len(t, out.Details, 9)
}

func TestHandler_Execute_AdultFromCatalog(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("GetAnimals", mock.Anything, []string{"a1"}).
		Return([]models.AnimalProfile{{ID: "a1", AgeYears: intPtr(3)}}, nil)

	h := newTestHandler(t, cat)

	form := bestForm()
	form.AcceptSterilization = "no"
	out, err := h.Execute(context.Background(), &Input{Form: form, AnimalID: "a1"})
	require.NoError(t, err)

	assert.Equal(t, 100, out.Percentage, "sterilization is not asked for adult animals")
	assert.Equal(t, []string{application.CriterionAcceptSterilization}, out.ExcludedCriteria)
	assert.NotContains(t, out.Details, application.CriterionAcceptSterilization)
	cat.AssertExpectations(t)
}

func TestHandler_Execute_InlineAgeWinsOverAnimalID(t *testing.T) {
	cat := &mockCatalog{}
	h := newTestHandler(t, cat)

	_, err := h.Execute(context.Background(), &Input{
		Form:      bestForm(),
		AnimalID:  "a1",
		AnimalAge: &models.AnimalAge{Years: intPtr(5)},
	})
	require.NoError(t, err)
	cat.AssertNotCalled(t, "GetAnimals", mock.Anything, mock.Anything)
}

func TestHandler_Execute_EmptyForm(t *testing.T) {
	h := newTestHandler(t, nil)

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Percentage)
	assert.False(t, out.Eligible)
	for _, d := range out.Details {
		assert.Equal(t, application.NotSpecified, d.Value)
		assert.Zero(t, d.Contribution)
	}
}

func TestHandler_Execute_Threshold(t *testing.T) {
	h := newTestHandler(t, nil)

	form := bestForm()
	form.CareCommitment = "noCare"   // -13
	form.MonthlyBudget = "low"       // -8.4
	form.TravelPlans = "petHotel"    // -4
	form.RelationAnimals = "neutral" // -4.4

	out, err := h.Execute(context.Background(), &Input{Form: form, AnimalAge: &models.AnimalAge{Months: intPtr(4)}})
	require.NoError(t, err)
	assert.Equal(t, 70, out.Percentage)
	assert.True(t, out.Eligible)

	form.AllowVisits = "no"
	out, err = h.Execute(context.Background(), &Input{Form: form, AnimalAge: &models.AnimalAge{Months: intPtr(4)}})
	require.NoError(t, err)
	assert.Equal(t, 60, out.Percentage)
	assert.False(t, out.Eligible)
}

func TestHandler_Execute_AnimalNotFound(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("GetAnimals", mock.Anything, []string{"ghost"}).
		Return(nil, &catalog.NotFoundError{Entity: "animal", ID: "ghost"})

	h := newTestHandler(t, cat)
	_, err := h.Execute(context.Background(), &Input{Form: bestForm(), AnimalID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAnimalNotFound, errors.Normalize(err).Code)
}
