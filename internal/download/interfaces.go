package download

import (
	"context"
	"io"

	"github.com/vidgrab/vidgrab/internal/progress"
)

// DiskEngine is the slice of the extraction engine that downloads and muxes
// to a file on disk.
type DiskEngine interface {
	DownloadToFile(ctx context.Context, url, selector, outputTemplate string, hook func(progress.Update)) (string, error)
}

// StreamEngine is the slice of the extraction engine that produces a live
// byte stream. The returned reader owns the producer; closing it reaps the
// producer on every exit path.
type StreamEngine interface {
	OpenStream(ctx context.Context, url, selector string) (io.ReadCloser, error)
}
