package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrStale marks a result that was issued for a Feed State that has since been replaced
	ErrStale = errors.New("feed state replaced")

	// ErrNotFound is returned when a mutation names an entry that is not in the model
	ErrNotFound = errors.New("entry not found")

	// ErrNoCategory is returned when an operation needs a selected category
	ErrNoCategory = errors.New("no category selected")
)

// FetchError is a recoverable remote failure. Local state is left as it was
// before the call; the user retries by scrolling, resubmitting or :retry.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
