package progress

import (
	"sync"

	"github.com/vidgrab/vidgrab/internal/model"
)

// Sink receives translated progress events. The translator invokes it on
// whatever goroutine feeds the translator; sinks that update presentation
// state must marshal to their owning loop themselves.
type Sink func(model.ProgressEvent)

// Update is one raw progress callback from the extraction engine. All fields
// but DownloadedBytes are optional: the engine may report an exact total, an
// estimate, both, or neither.
type Update struct {
	DownloadedBytes    int64
	TotalBytes         *int64
	TotalBytesEstimate *int64
	SpeedBytesPerSec   *float64
	ETASeconds         *int64
}

// Translator converts raw engine callbacks into ProgressEvents for a single
// download. It guarantees the event-stream invariants: downloaded bytes never
// decrease, exactly one terminal event is delivered, and nothing follows it.
type Translator struct {
	sink Sink

	mu             sync.Mutex
	terminal       bool
	lastDownloaded int64
}

// NewTranslator creates a translator delivering to sink. A nil sink discards
// events.
func NewTranslator(sink Sink) *Translator {
	if sink == nil {
		sink = func(model.ProgressEvent) {}
	}
	return &Translator{sink: sink}
}

// Downloading translates one in-flight callback. An exact total is preferred
// over an estimate; with neither, the event carries no total and consumers
// must not derive a percentage.
func (t *Translator) Downloading(u Update) {
	t.mu.Lock()
	if t.terminal {
		t.mu.Unlock()
		return
	}
	if u.DownloadedBytes < t.lastDownloaded {
		// Engines restart counters between fragments; hold the high-water
		// mark so the emitted sequence stays non-decreasing.
		u.DownloadedBytes = t.lastDownloaded
	}
	t.lastDownloaded = u.DownloadedBytes
	t.mu.Unlock()

	total := u.TotalBytes
	if total == nil {
		total = u.TotalBytesEstimate
	}

	t.sink(model.ProgressEvent{
		Phase:            model.PhaseDownloading,
		DownloadedBytes:  u.DownloadedBytes,
		TotalBytes:       total,
		SpeedBytesPerSec: u.SpeedBytesPerSec,
		ETASeconds:       u.ETASeconds,
	})
}

// Finished emits the terminal finished event: all bytes retrieved, engine
// post-processing may still be running.
func (t *Translator) Finished() {
	if !t.markTerminal() {
		return
	}
	t.sink(model.ProgressEvent{
		Phase:           model.PhaseFinished,
		DownloadedBytes: t.lastDownloaded,
	})
}

// Error emits the terminal error event with the engine's failure text.
func (t *Translator) Error(message string) {
	if !t.markTerminal() {
		return
	}
	t.sink(model.ProgressEvent{
		Phase:           model.PhaseError,
		DownloadedBytes: t.lastDownloaded,
		Message:         message,
	})
}

// markTerminal flips the terminal flag; reports false if already terminal.
func (t *Translator) markTerminal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.terminal {
		return false
	}
	t.terminal = true
	return true
}
