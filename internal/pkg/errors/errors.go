package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
		Details: details,
	})
}

// ValidationError rejects a malformed inbound payload. It is surfaced as
// HTTP 400 and never enters the processing queue.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func NewValidation(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// PersistenceError wraps a store read/write failure. The processor retries
// these up to the configured attempt budget.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// DispatchError is a handler failure that is not a store failure. Same retry
// treatment as PersistenceError.
type DispatchError struct {
	EventType string
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s: %v", e.EventType, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// EngineCallError is a failed call to the external workflow engine. Outbound
// sends surface it as a boolean false; it is never retried internally.
type EngineCallError struct {
	WorkflowID string
	StatusCode int
	Err        error
}

func (e *EngineCallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine call for workflow %s: %v", e.WorkflowID, e.Err)
	}
	return fmt.Sprintf("engine call for workflow %s: HTTP %d", e.WorkflowID, e.StatusCode)
}

func (e *EngineCallError) Unwrap() error { return e.Err }

// ErrNotFound is returned by registry and repository lookups.
var ErrNotFound = errors.New("not found")
