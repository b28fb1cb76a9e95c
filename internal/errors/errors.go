package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a recase error code.
type ErrorCode string

const (
	ErrAmbiguousAddressing ErrorCode = "AMBIGUOUS_ADDRESSING" // 400
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrUnknownStyle        ErrorCode = "UNKNOWN_STYLE"        // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrFileNotFound        ErrorCode = "FILE_NOT_FOUND"       // 404
	ErrNameAlreadyExists   ErrorCode = "NAME_ALREADY_EXISTS"  // 409
	ErrNotEditable         ErrorCode = "NOT_EDITABLE"         // 409
	ErrNameTooLong         ErrorCode = "NAME_TOO_LONG"        // 413
	ErrCancelled           ErrorCode = "CANCELLED"            // 499
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// RecaseError represents a structured error with code, status, and details.
type RecaseError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *RecaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAmbiguousAddressing creates a 400 error for when both ID and name are provided.
func NewAmbiguousAddressing() *RecaseError {
	return &RecaseError{
		Code:    ErrAmbiguousAddressing,
		Status:  400,
		Message: "cannot specify both id and name; use one addressing mode",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RecaseError {
	return &RecaseError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownStyle creates a 400 error for an unrecognized style name.
func NewUnknownStyle(style string, known []string) *RecaseError {
	return &RecaseError{
		Code:    ErrUnknownStyle,
		Status:  400,
		Message: fmt.Sprintf("unknown style %q (known: %v)", style, known),
		Details: map[string]any{"style": style, "known_styles": known},
	}
}

// NewNotFound creates a 404 error for when an entity cannot be found.
func NewNotFound(identifier string) *RecaseError {
	return &RecaseError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("entity not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *RecaseError {
	return &RecaseError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNameAlreadyExists creates a 409 error for sibling name collisions.
func NewNameAlreadyExists(workspace, name string) *RecaseError {
	return &RecaseError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("entity with name %q already exists under the same parent in workspace %q", name, workspace),
		Details: map[string]any{"workspace": workspace, "name": name},
	}
}

// NewNotEditable creates a 409 error when a read-only entity is targeted directly.
func NewNotEditable(id string) *RecaseError {
	return &RecaseError{
		Code:    ErrNotEditable,
		Status:  409,
		Message: fmt.Sprintf("entity is not editable: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewNameTooLong creates a 413 error when a name exceeds the configured limit.
func NewNameTooLong(max, actual int) *RecaseError {
	return &RecaseError{
		Code:    ErrNameTooLong,
		Status:  413,
		Message: fmt.Sprintf("name exceeds maximum length: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewCancelled creates a 499 error when an operation is cancelled by the caller.
func NewCancelled(op string) *RecaseError {
	return &RecaseError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the original error is kept in Details for logging.
func NewInternal(err error) *RecaseError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &RecaseError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// As returns the *RecaseError in err's chain, if any.
func As(err error) (*RecaseError, bool) {
	var rErr *RecaseError
	if stderrors.As(err, &rErr) {
		return rErr, true
	}
	return nil, false
}

// Is checks if an error is a RecaseError with the given code.
// Wrapped errors are unwrapped.
func Is(err error, code ErrorCode) bool {
	if rErr, ok := As(err); ok {
		return rErr.Code == code
	}
	return false
}
