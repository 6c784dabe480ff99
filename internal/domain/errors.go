package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedConstruct aborts a run when a module contains a statement the visitor does not understand
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	// ErrNoTestFiles is returned when no candidate files exist under the search roots
	ErrNoTestFiles = errors.New("no compatible test files found")
	// ErrNoHistory is returned when a rerun is requested without a cached selection
	ErrNoHistory = errors.New("no test history found")
)

// UnsupportedConstructError describes the offending node
type UnsupportedConstructError struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

func (e *UnsupportedConstructError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: not handling %s (%s)", e.File, e.Line, ErrUnsupportedConstruct, e.Kind, e.Snippet)
	}
	return fmt.Sprintf("%s: %s: not handling %s (%s)", e.File, ErrUnsupportedConstruct, e.Kind, e.Snippet)
}

func (e *UnsupportedConstructError) Unwrap() error {
	return ErrUnsupportedConstruct
}
