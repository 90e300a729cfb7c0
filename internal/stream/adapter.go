package stream

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/vidgrab/vidgrab/internal/model"
)

// ChunkSize is the unit of transfer towards the client. Small enough that
// the first media bytes reach the player quickly.
const ChunkSize = 4096

// Pump copies src to dst chunk by chunk until src is exhausted, the context
// is canceled, or the client stops accepting writes. src is always closed
// before Pump returns, which reaps the engine process behind it.
//
// onChunk, if non-nil, is invoked with the size of each chunk written.
func Pump(ctx context.Context, dst io.Writer, src io.ReadCloser, onChunk func(n int)) (int64, error) {
	defer src.Close()

	flusher, _ := dst.(http.Flusher)
	buf := make([]byte, ChunkSize)

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, model.ErrStreamAborted
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return written, model.ErrStreamAborted
			}
			if flusher != nil {
				flusher.Flush()
			}
			written += int64(n)
			if onChunk != nil {
				onChunk(n)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return written, nil
			}
			return written, readErr
		}
	}
}
