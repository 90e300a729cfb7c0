package download

// Package download implements the orchestration of one download run: format
// selector construction, disk delivery through the engine with translated
// progress events, and stream delivery through a producer pipe handle.
