package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when lookup data does not cover the input.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidInput is returned when simulation preconditions are violated.
	ErrInvalidInput = errors.New("invalid input")
)

// Error kinds carried in responses that cross a process boundary.
const (
	KindInvalidInput  = "invalid_input"
	KindConfiguration = "configuration"
	KindInternal      = "internal"
)

func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return KindInternal
	}
}

// KindError rebuilds an error received from a remote peer so that
// errors.Is keeps working on this side.
func KindError(kind, msg string) error {
	switch kind {
	case KindInvalidInput:
		return fmt.Errorf("%w: remote: %s", ErrInvalidInput, msg)
	case KindConfiguration:
		return fmt.Errorf("%w: remote: %s", ErrConfiguration, msg)
	default:
		return fmt.Errorf("remote: %s", msg)
	}
}
