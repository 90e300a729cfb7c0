package model

// Phase identifies where a download is in its lifecycle.
type Phase string

const (
	// PhaseDownloading means bytes are being retrieved.
	PhaseDownloading Phase = "downloading"

	// PhaseFinished means all bytes are retrieved; post-processing such as
	// muxing may still be running on the engine side.
	PhaseFinished Phase = "finished"

	// PhaseError means the download failed. Terminal.
	PhaseError Phase = "error"
)

// IsTerminal reports whether no further events follow this phase.
func (p Phase) IsTerminal() bool {
	return p == PhaseFinished || p == PhaseError
}

// ProgressEvent is one snapshot of an in-flight download. Events are
// transient; consumers keep at most the latest one for display.
type ProgressEvent struct {
	Phase           Phase
	DownloadedBytes int64

	// TotalBytes is nil until the engine reports a total, or forever for
	// streamed muxes.
	TotalBytes *int64

	SpeedBytesPerSec *float64
	ETASeconds       *int64

	// Message carries the engine's failure text for PhaseError events.
	Message string
}

// Percent returns the completion percentage in [0,100] and whether it is
// known. Unknown when no total has been reported.
func (e ProgressEvent) Percent() (float64, bool) {
	if e.TotalBytes == nil || *e.TotalBytes <= 0 {
		return 0, false
	}
	p := float64(e.DownloadedBytes) / float64(*e.TotalBytes) * 100
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p, true
}
