package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Error(string, map[string]interface{}) {}

func job(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: "rank-animal-matches", Retries: retries}}
}

func TestRetryCounts(t *testing.T) {
	tests := map[ErrorCode]int{
		ErrCodeQueryExecutionFailed:     3,
		ErrCodeSearchQueryFailed:        3,
		ErrCodeDatabaseConnectionFailed: 3,
		ErrCodeQueryTimeout:             2,
		ErrCodeScoringTimeout:           2,
		ErrCodeInputValidationFailed:    0,
		ErrCodeScalerConfigInvalid:      0,
		ErrCodeUnknownStrategy:          0,
	}
	for code, want := range tests {
		assert.Equal(t, want, GetRetryCount(code), string(code))
		assert.Equal(t, want > 0, IsRetryableErrorCode(code), string(code))
	}
}

func TestConvertToBPMNError(t *testing.T) {
	std := NewAnimalNotFoundError("a-9").WithMetadata("animalId", "a-9")

	bpmn := ConvertToBPMNError(std)
	assert.Equal(t, "ANIMAL_NOT_FOUND", bpmn.Code)
	assert.False(t, bpmn.Retryable)
	assert.Equal(t, 0, bpmn.Retries)
	assert.Equal(t, "a-9", bpmn.ErrorVariables["animalId"])
	assert.Equal(t, "ANIMAL_NOT_FOUND", bpmn.ErrorVariables["originalErrorCode"])

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "ANIMAL_NOT_FOUND", vars["errorCode"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeScalerConfigInvalid))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeFeatureDimensionMismatch))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchTimeout))
	assert.Equal(t, "BUSINESS", GetErrorCategory(ErrCodePreferencesIncomplete))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputValidationFailed))
	assert.Equal(t, "TIMEOUT", GetErrorCategory(ErrCodeScoringTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestNormalize(t *testing.T) {
	std := NewUnknownStrategyError("magic")
	wrapped := fmt.Errorf("recommend: %w", std)
	assert.Same(t, std, Normalize(wrapped))

	n := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, n.Code)
	assert.Equal(t, "boom", n.Details)
}

func TestErrorHandler_Resolve(t *testing.T) {
	h := NewErrorHandler(nopLogger{})

	t.Run("non retryable throws", func(t *testing.T) {
		_, out := h.Resolve(job(3), NewPreferencesIncompleteError("u1"))
		assert.True(t, out.Throw)
		assert.Equal(t, "PREFERENCES_INCOMPLETE", out.Error.Code)
	})

	t.Run("retryable fails with retries", func(t *testing.T) {
		_, out := h.Resolve(job(5), NewQueryTimeoutError("animals"))
		assert.False(t, out.Throw)
		assert.Equal(t, 2, out.Retries)
	})

	t.Run("retries capped by remaining budget", func(t *testing.T) {
		_, out := h.Resolve(job(2), NewSearchQueryFailedError("animals", context.DeadlineExceeded))
		assert.False(t, out.Throw)
		assert.Equal(t, 1, out.Retries)
	})

	t.Run("last attempt throws", func(t *testing.T) {
		_, out := h.Resolve(job(1), NewScoringTimeoutError(context.DeadlineExceeded))
		assert.True(t, out.Throw)
	})
}
