// Package stream copies engine output to an HTTP client in small chunks,
// flushing as it goes so playback can start before the transfer completes.
package stream
