// Package errors provides standardized error handling for discovery workers and the HTTP API.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidSearchRequest  ErrorCode = "INVALID_SEARCH_REQUEST"
	ErrCodeInvalidFilterFormat   ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeInvalidSuggestRequest ErrorCode = "INVALID_SUGGEST_REQUEST"
	ErrCodeInvalidRankingInput   ErrorCode = "INVALID_RANKING_INPUT"

	ErrCodeDependencyUnavailable  ErrorCode = "DEPENDENCY_UNAVAILABLE"
	ErrCodeCandidateLimitExceeded ErrorCode = "CANDIDATE_LIMIT_EXCEEDED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeTimeout  ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var (
	// ErrInvalidRequest marks a malformed discovery request. Rejected before any store access.
	ErrInvalidRequest = stderrors.New(string(ErrCodeInvalidSearchRequest))
	// ErrDependencyUnavailable marks a failed profile or taxonomy fetch.
	ErrDependencyUnavailable = stderrors.New(string(ErrCodeDependencyUnavailable))
	// ErrCandidateLimitExceeded marks a store fetch that matched more profiles than the candidate cap.
	ErrCandidateLimitExceeded = stderrors.New(string(ErrCodeCandidateLimitExceeded))
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

// ==========================
// 2. BPMN Error Integration
// ==========================

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

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSearchRequestError creates a non-retryable validation error for search requests.
func NewInvalidSearchRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidSearchRequest, "Invalid search request", details, false)
}

// NewInvalidFilterFormatError creates a non-retryable error for raw filter documents that cannot be parsed.
func NewInvalidFilterFormatError(details string) *StandardError {
	return newError(ErrCodeInvalidFilterFormat, "Invalid filter format", details, false)
}

func NewInvalidSuggestRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidSuggestRequest, "Invalid suggestion request", details, false)
}

func NewInvalidRankingInputError(details string) *StandardError {
	return newError(ErrCodeInvalidRankingInput, "Invalid ranking input", details, false)
}

// NewDependencyUnavailableError creates a retryable error for a failed collaborator fetch.
func NewDependencyUnavailableError(err error) *StandardError {
	return newError(ErrCodeDependencyUnavailable, "Profile or taxonomy store unavailable", err.Error(), true)
}

// NewCandidateLimitExceededError asks the caller to narrow the filters. Retrying the same request cannot help.
func NewCandidateLimitExceededError(details string) *StandardError {
	return newError(ErrCodeCandidateLimitExceeded, "Too many matching profiles, narrow the filters", details, false)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("queryType: %s", queryType), true)
}

func NewInvalidQueryTypeError(queryType string) *StandardError {
	return newError(ErrCodeInvalidQueryType, "Unsupported query type", fmt.Sprintf("queryType: %s", queryType), false)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), true)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Elasticsearch query timeout", fmt.Sprintf("index: %s", index), true)
}

func NewIndexNotFoundError(index string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Elasticsearch index not found", fmt.Sprintf("index: %s", index), false)
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewBusinessRuleError(message, details string) *StandardError {
	return newError("BUSINESS_RULE_VIOLATION", message, details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError("AUTHENTICATION_ERROR", "Authentication failed", details, false)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// Classify maps any error returned by the discovery stack onto a StandardError.
func Classify(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	switch {
	case stderrors.Is(err, ErrInvalidRequest):
		return NewInvalidSearchRequestError(err.Error())
	case stderrors.Is(err, ErrCandidateLimitExceeded):
		return NewCandidateLimitExceededError(err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewTimeoutError("discovery", err)
	case stderrors.Is(err, ErrDependencyUnavailable):
		return NewDependencyUnavailableError(err)
	default:
		return NewInternalError(err)
	}
}

// HTTPStatus returns the HTTP status code an API response should carry for the error.
func HTTPStatus(e *StandardError) int {
	if strings.Contains(string(e.Code), "TIMEOUT") {
		return http.StatusGatewayTimeout
	}
	if e.Code == ErrCodeCandidateLimitExceeded {
		return http.StatusUnprocessableEntity
	}
	switch GetErrorCategory(e.Code) {
	case "VALIDATION":
		return http.StatusBadRequest
	case "DEPENDENCY", "DATABASE", "SEARCH":
		return http.StatusServiceUnavailable
	case "NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes thrown into the process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidSearchRequest:          "INVALID_SEARCH_REQUEST",
	ErrCodeInvalidFilterFormat:           "INVALID_FILTER_FORMAT",
	ErrCodeInvalidSuggestRequest:         "INVALID_SUGGEST_REQUEST",
	ErrCodeInvalidRankingInput:           "INVALID_RANKING_INPUT",
	ErrCodeDependencyUnavailable:         "DEPENDENCY_UNAVAILABLE",
	ErrCodeCandidateLimitExceeded:        "CANDIDATE_LIMIT_EXCEEDED",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:          "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                  "QUERY_TIMEOUT",
	ErrCodeInvalidQueryType:              "INVALID_QUERY_TYPE",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeSearchQueryFailed:             "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:                 "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:                 "INDEX_NOT_FOUND",
	ErrCodeTimeout:                       "TIMEOUT_ERROR",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDependencyUnavailable,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DEPENDENCY"):
		return "DEPENDENCY"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	default:
		return "OTHER"
	}
}
