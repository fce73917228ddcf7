package errors

import (
	"errors"
	"fmt"
)

// Extraction error taxonomy. The HTTP layer maps these onto status codes,
// the retry layer uses them to tell transient failures from permanent ones.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrTimeout      = errors.New("timeout")
	ErrSession      = errors.New("browser session error")
)

// Error represents a custom error type
type Error struct {
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// ExtractionFailed reports that every attempt at a URL was exhausted. It
// wraps the last attempt's error so the chain stays inspectable.
type ExtractionFailed struct {
	Attempts int
	LastErr  error
}

func (e *ExtractionFailed) Error() string {
	return fmt.Sprintf("extraction failed after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *ExtractionFailed) Unwrap() error {
	return e.LastErr
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalidInput returns true if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTimeout returns true if the error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsSession returns true if the error is a browser session error
func IsSession(err error) bool {
	return errors.Is(err, ErrSession)
}

// AsExtractionFailed extracts an ExtractionFailed from the chain if present
func AsExtractionFailed(err error) (*ExtractionFailed, bool) {
	var e *ExtractionFailed
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
