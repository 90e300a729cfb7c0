// Package task runs resolution and download work off the caller's control
// path, with at most one task of a given kind in flight at a time.
package task

import (
	"sync"

	"github.com/vidgrab/vidgrab/internal/model"
)

// Kind identifies a category of background work. The one-per-kind rule is
// what prevents two concurrent engine invocations from racing on the same
// selection state.
type Kind string

const (
	KindFetch    Kind = "fetch"
	KindDownload Kind = "download"
)

// Runner executes tasks on fresh goroutines, one in flight per kind.
// Completion callbacks are delivered through the dispatch function so that
// consumers owning single-threaded state (a UI event loop) are never mutated
// from the worker goroutine.
type Runner struct {
	dispatch func(func())

	mu       sync.Mutex
	inFlight map[Kind]bool
}

// NewRunner creates a runner. dispatch marshals completion callbacks onto
// the loop that owns the caller's state; nil means callbacks run directly on
// the worker goroutine.
func NewRunner(dispatch func(func())) *Runner {
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	return &Runner{
		dispatch: dispatch,
		inFlight: make(map[Kind]bool),
	}
}

// Run starts work on a background goroutine and reports completion through
// onDone. Returns ErrBusy without starting anything if a task of the same
// kind is already in flight.
func (r *Runner) Run(kind Kind, work func() error, onDone func(error)) error {
	r.mu.Lock()
	if r.inFlight[kind] {
		r.mu.Unlock()
		return model.ErrBusy
	}
	r.inFlight[kind] = true
	r.mu.Unlock()

	go func() {
		err := work()

		// Clear the flag before dispatching so a completion handler may
		// immediately start the next task of this kind.
		r.mu.Lock()
		delete(r.inFlight, kind)
		r.mu.Unlock()

		if onDone != nil {
			r.dispatch(func() { onDone(err) })
		}
	}()

	return nil
}

// Busy reports whether a task of the given kind is in flight.
func (r *Runner) Busy(kind Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight[kind]
}
