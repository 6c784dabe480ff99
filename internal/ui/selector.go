package ui

import (
	"context"
	"errors"
)

var (
	// ErrSelectorUnavailable means the selector cannot run here (missing binary, no terminal)
	ErrSelectorUnavailable = errors.New("selector unavailable")
	// ErrNoSelection means the user left the selector without choosing
	ErrNoSelection = errors.New("no test selected")
)

// Selector lets the user pick one identifier out of a live candidate stream
type Selector interface {
	// Available reports ErrSelectorUnavailable when Select cannot run
	Available() error
	// Select consumes candidates as they arrive and returns the chosen one.
	// It may return before candidates is closed. It returns
	// ErrSelectorUnavailable when the selector could not start.
	Select(ctx context.Context, candidates <-chan string) (string, error)
}
