// Package domain defines core types, interfaces, and errors for the
// membership dashboard core.
package domain

import "fmt"

// NotFoundError indicates a referenced record is absent.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// PermissionDeniedError indicates a role or ownership check failed.
// Reason distinguishes role-based from ownership-based denial so callers
// can report which rule was violated.
type PermissionDeniedError struct {
	Message string
	Reason  DenialReason
}

func (e *PermissionDeniedError) Error() string { return e.Message }

// DenialReason classifies a permission denial.
type DenialReason string

const (
	DenialRole      DenialReason = "role"
	DenialOwnership DenialReason = "ownership"
)

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PreconditionError indicates a state-machine guard was violated,
// for example verifying a deposit that is already terminal.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

// DependencyError indicates a best-effort secondary write failed.
// It never rolls back or blocks the already-committed primary write.
type DependencyError struct {
	Message string
}

func (e *DependencyError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrPermissionDenied creates a role-based PermissionDeniedError.
func ErrPermissionDenied(format string, args ...interface{}) *PermissionDeniedError {
	return &PermissionDeniedError{Message: fmt.Sprintf(format, args...), Reason: DenialRole}
}

// ErrOwnershipDenied creates an ownership-based PermissionDeniedError.
func ErrOwnershipDenied(format string, args ...interface{}) *PermissionDeniedError {
	return &PermissionDeniedError{Message: fmt.Sprintf(format, args...), Reason: DenialOwnership}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrPrecondition creates a PreconditionError with a formatted message.
func ErrPrecondition(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// ErrDependency creates a DependencyError with a formatted message.
func ErrDependency(format string, args ...interface{}) *DependencyError {
	return &DependencyError{Message: fmt.Sprintf(format, args...)}
}
