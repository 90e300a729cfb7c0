package model

// FormatDescriptor represents one selectable rendition of a media item.
// A batch of descriptors is produced by a single resolution call and is never
// mutated afterwards; the ID is only meaningful within that batch.
type FormatDescriptor struct {
	// ID is the opaque selector string understood by the extraction engine.
	ID string

	// Container is the short extension label (e.g. "mp4"), "?" when unknown.
	Container string

	// Resolution is a human label such as "1920x1080"; informational only.
	Resolution string

	// Note is a free-text quality hint from the engine, may be empty.
	Note string

	// SizeBytes is the estimated size. Nil when the engine cannot estimate;
	// a missing size is not the same thing as a zero-byte file.
	SizeBytes *int64
}
