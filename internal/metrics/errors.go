package metrics

import (
	"errors"
	"fmt"
)

// Reasons a registration record is rejected.
var (
	ErrNegativeCount      = errors.New("count must not be negative")
	ErrInvalidDate        = errors.New("date is not a calendar date")
	ErrUnknownVehicleType = errors.New("vehicle type is not 2W, 3W or 4W")
)

// InvalidInputError reports the first malformed record of a computation.
// The whole computation fails; no partial payload is produced.
type InvalidInputError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid record %d: %s %q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// IsInvalidInput reports whether err is, or wraps, an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
