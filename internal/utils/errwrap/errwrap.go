package errwrap

import (
	"errors"
)

// customError wraps an error with a custom message
type customError struct {
	msg string
	err error
}

// Error returns only the custom message
func (e *customError) Error() string {
	return e.msg
}

// Unwrap returns the underlying error for errors.Is
func (e *customError) Unwrap() error {
	return e.err
}

// WrapError replaces the message of err while keeping it matchable with errors.Is.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	if message == "" {
		return err
	}
	return &customError{
		msg: message,
		err: err,
	}
}

// IsErrorType checks if an error matches a specific error type
func IsErrorType(err error, target error) bool {
	return errors.Is(err, target)
}
