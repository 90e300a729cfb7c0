package engine

// Package engine wraps the yt-dlp extraction engine behind three
// invocations: a metadata-only probe (JSON dump, no bytes fetched), a disk
// download with progress hooks via the go-ytdlp bindings, and a raw stdout
// pipe for streaming delivery.
