package domain

import (
	"errors"
	"fmt"
)

// Error types for consistent error handling across the BFA.

// ErrValidation indicates a pre-flight validation failure. Operations that
// fail validation never reach the ledger.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrNotFound indicates a resource was not found on the ledger.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrRemoteRejection indicates the ledger refused an operation (insufficient
// funds, daily limit exceeded, inactive account, malformed CPF, ...).
// Message carries the server-provided text verbatim; the BFA never
// reinterprets it.
type ErrRemoteRejection struct {
	Operation string
	Message   string
}

func (e *ErrRemoteRejection) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("ledger rejected operation: %s", e.Operation)
}

// ErrExternalService indicates a transport-level failure talking to the
// ledger (connectivity, non-JSON 5xx, ...). Distinguished from a rejection
// only by the absence of a structured message.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// IsBusinessOutcome reports whether err is an expected caller-driven result
// (missing resource, ledger rejection) rather than an infrastructure
// failure. Resilience machinery must not retry these or count them as
// outages.
func IsBusinessOutcome(err error) bool {
	var notFound *ErrNotFound
	var rejection *ErrRemoteRejection
	return errors.As(err, &notFound) || errors.As(err, &rejection)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}
