package model

import (
	"errors"
	"fmt"
)

// Sentinel errors caught before the extraction engine is ever invoked.
var (
	// ErrInvalidInput means no URL was supplied.
	ErrInvalidInput = errors.New("no URL provided")

	// ErrInvalidSelection means no format was chosen.
	ErrInvalidSelection = errors.New("no format selected")

	// ErrBusy means a task of the same kind is already in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrStreamAborted means the consuming client disconnected mid-stream.
	// It is a cleanup trigger, not a user-facing failure.
	ErrStreamAborted = errors.New("stream aborted by client")
)

// ResolutionError means the engine could not enumerate formats for a URL.
// The engine's message is surfaced verbatim to the caller.
type ResolutionError struct {
	Message string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not fetch formats: %s", e.Message)
}

// EngineError means the engine failed during download, mux, or transfer.
type EngineError struct {
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("download failed: %s", e.Message)
}

// IOError means the destination could not be written.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot write to %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
