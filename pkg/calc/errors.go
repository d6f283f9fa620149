package calc

import (
	"errors"
	"fmt"
)

// Failure kinds reported by the engine. Use errors.Is to classify an error
// returned by Evaluate, Delete, or LastCalc.
var (
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrTooFewArguments   = errors.New("not enough arguments")
	ErrTooManyArguments  = errors.New("too many arguments")
	ErrInsufficientStack = errors.New("insufficient stack")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrNegativeFactorial = errors.New("factorial of negative number")
	ErrEmptyHistory      = errors.New("empty history")
)

// Error is a calculation failure: a kind for classification plus the exact
// caller-facing message. No other error type crosses the engine boundary, and
// no failure is fatal to the engine's state.
type Error struct {
	kind    error
	message string
}

// Error returns the human-readable message for the failure.
func (e *Error) Error() string { return e.message }

// Unwrap exposes the failure kind so errors.Is can classify it.
func (e *Error) Unwrap() error { return e.kind }

// failf builds an *Error of the given kind with a formatted message.
func failf(kind error, format string, args ...any) error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}
