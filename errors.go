package reflection

import (
	"errors"
	"fmt"
)

// Error definitions - using sentinel errors for better performance and type safety
var (
	// Path resolution errors
	ErrInvalidPathSyntax  = errors.New("invalid path syntax")
	ErrMemberNotFound     = errors.New("member not found")
	ErrUnsupportedIndexer = errors.New("unsupported indexer access")
	ErrInvalidIndexFormat = errors.New("invalid index format")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrKeyNotFound        = errors.New("key not found")
	ErrNilRoot            = errors.New("nil root value")

	// Write-path and conversion errors
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrNotAddressable = errors.New("value is not addressable")

	// Flatten errors
	ErrCyclicGraph        = errors.New("cyclic object graph")
	ErrUnrepresentableKey = errors.New("unrepresentable map key")

	// Registry errors
	ErrTypeNotRegistered = errors.New("type not registered")
	ErrTypeRegistered    = errors.New("type already registered")

	// Limit-related errors
	ErrSizeLimit  = errors.New("size limit exceeded")
	ErrDepthLimit = errors.New("depth limit exceeded")

	// Generic operation errors
	ErrOperationFailed = errors.New("operation failed")
)

// PathError represents a resolution failure with operation and path context
type PathError struct {
	Op      string // Operation that failed
	Path    string // Property path where the error occurred
	Message string // Human-readable error message
	Err     error  // Underlying sentinel error
}

func (e *PathError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("reflection %s failed at path '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("reflection %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *PathError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for modern error handling
func (e *PathError) Is(target error) bool {
	if target == nil {
		return false
	}
	if targetErr, ok := target.(*PathError); ok {
		return e.Op == targetErr.Op && e.Err == targetErr.Err
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

// newError creates a standard PathError with all fields
func newError(op, path, message string, err error) *PathError {
	return &PathError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

func newOperationError(op, message string, err error) *PathError {
	return newError(op, "", message, err)
}

// newSyntaxError reports a malformed path. The operation name and the full
// path are stamped on by the top-level call.
func newSyntaxError(message string) *PathError {
	return newError("", "", message, ErrInvalidPathSyntax)
}

// fillErrorContext stamps the operation name and original path onto engine
// errors on their way out. Errors raised by user code, such as custom
// indexer methods, are not PathErrors and pass through untouched.
func fillErrorContext(err error, op, path string) error {
	var pe *PathError
	if errors.As(err, &pe) {
		if pe.Op == "" {
			pe.Op = op
		}
		if pe.Path == "" {
			pe.Path = path
		}
	}
	return err
}
