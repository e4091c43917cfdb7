package loaders

import (
	"errors"
	"fmt"
)

// ErrDecode matches every DecodeError.
var ErrDecode = errors.New("decode failed")

// DecodeError reports bytes that were loaded but could not be parsed.
// Lookup failures are returned as they come from loader.Get instead.
type DecodeError struct {
	ID     string
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s as %s: %s", e.ID, e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
