// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputValidationFailed    ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodePreferencesIncomplete    ErrorCode = "PREFERENCES_INCOMPLETE"
	ErrCodeAnimalNotFound           ErrorCode = "ANIMAL_NOT_FOUND"
	ErrCodeAdopterNotFound          ErrorCode = "ADOPTER_NOT_FOUND"
	ErrCodeUnknownStrategy          ErrorCode = "UNKNOWN_STRATEGY"
	ErrCodeScalerConfigInvalid      ErrorCode = "SCALER_CONFIG_INVALID"
	ErrCodeFeatureDimensionMismatch ErrorCode = "FEATURE_DIMENSION_MISMATCH"
	ErrCodeScoringTimeout           ErrorCode = "SCORING_TIMEOUT"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error metadata and returns e.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInputValidationFailedError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Job input validation failed", details, false)
}

// NewPreferencesIncompleteError is raised when ranking is requested for a
// questionnaire the adopter has not finished.
func NewPreferencesIncompleteError(userID string) *StandardError {
	return newError(ErrCodePreferencesIncomplete, "Adopter preferences are not completed",
		fmt.Sprintf("userId: %s", userID), false)
}

func NewAnimalNotFoundError(animalID string) *StandardError {
	return newError(ErrCodeAnimalNotFound, "Animal not found in catalog",
		fmt.Sprintf("animalId: %s", animalID), false)
}

func NewAdopterNotFoundError(userID string) *StandardError {
	return newError(ErrCodeAdopterNotFound, "Adopter preferences not found",
		fmt.Sprintf("userId: %s", userID), false)
}

func NewUnknownStrategyError(name string) *StandardError {
	return newError(ErrCodeUnknownStrategy, "Unknown matching strategy",
		fmt.Sprintf("strategy: %s", name), false)
}

// NewScalerConfigInvalidError reports a broken scaler artifact. It is never
// retried: the worker must be redeployed with a valid artifact.
func NewScalerConfigInvalidError(err error) *StandardError {
	return newError(ErrCodeScalerConfigInvalid, "Scaler configuration is invalid", err.Error(), false)
}

func NewFeatureDimensionMismatchError(err error) *StandardError {
	return newError(ErrCodeFeatureDimensionMismatch, "Feature vector does not match scaler dimension", err.Error(), false)
}

func NewScoringTimeoutError(err error) *StandardError {
	return newError(ErrCodeScoringTimeout, "Scoring did not finish within the job timeout", err.Error(), true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout",
		fmt.Sprintf("queryType: %s", queryType), true)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Elasticsearch query timeout",
		fmt.Sprintf("index: %s", index), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// GetRetryCount is the number of job retries allowed for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		ErrCodeScoringTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError maps a StandardError onto the BPMN error thrown to Zeebe.
// BPMN error codes equal the internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SCALER") || strings.Contains(codeStr, "DIMENSION"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY_"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOT_FOUND") || strings.Contains(codeStr, "INCOMPLETE") || strings.Contains(codeStr, "STRATEGY"):
		return "BUSINESS"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	default:
		return "OTHER"
	}
}
