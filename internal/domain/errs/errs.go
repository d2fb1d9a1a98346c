package errs

import (
	"errors"
	"fmt"
)

// The four failure categories every engine reports. Handlers map them to
// HTTP statuses with errors.Is; usecases wrap them with context via the
// constructors below.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrConsistency = errors.New("consistency error")
	ErrStore       = errors.New("store error")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func Consistency(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConsistency)...)
}

// Store wraps a failure of the underlying record store. The cause is kept in
// the chain so callers can still inspect driver errors.
func Store(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, cause, ErrStore)
}
