package model

// DownloadRequest is the immutable input to one orchestration run. The
// orchestrator owns it for the duration of the run and never retains it.
type DownloadRequest struct {
	// URL is the source media URL.
	URL string

	// FormatID is the selected rendition's selector string.
	FormatID string

	// Title is the human title used for naming and labeling the output.
	Title string

	// DestinationDir is the target directory for disk delivery. Empty means
	// the bytes are streamed to the caller instead of written to disk.
	DestinationDir string
}

// Streams reports whether the request delivers bytes to the caller rather
// than to a file.
func (r DownloadRequest) Streams() bool {
	return r.DestinationDir == ""
}
