package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoaded is returned by Get for identifiers that were never requested.
	ErrNotLoaded = errors.New("resource not loaded")
	// ErrLoadFailed is returned by Get for identifiers whose fetch failed.
	ErrLoadFailed = errors.New("resource failed to load")

	ErrEmptyBatch      = errors.New("cannot load an empty batch")
	ErrUnknownResource = errors.New("resource was not seeded in this batch")
	ErrAlreadyResolved = errors.New("resource already resolved")
	ErrPendingWrite    = errors.New("only terminal outcomes can be written")
	ErrLoopClosed      = errors.New("event loop closed")
	ErrHTTPStatus      = errors.New("unexpected http status")
)

// LookupError is returned by Get. Kind is ErrNotLoaded or ErrLoadFailed;
// Err carries the fetch error for failed resources.
type LookupError struct {
	Kind error
	ID   string
	Err  error
}

func (e *LookupError) Error() string {
	switch {
	case e.Kind == ErrNotLoaded:
		return fmt.Sprintf("tried to use a resource which was not loaded: %s", e.ID)
	case e.Err != nil:
		return fmt.Sprintf("could not load resource %s: %s", e.ID, e.Err)
	default:
		return fmt.Sprintf("could not load resource: %s", e.ID)
	}
}

func (e *LookupError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
