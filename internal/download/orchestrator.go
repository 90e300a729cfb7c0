package download

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vidgrab/vidgrab/internal/model"
	"github.com/vidgrab/vidgrab/internal/progress"
)

// Format selector pieces. The selected video format is muxed with the best
// available audio track; if that combination is infeasible the engine falls
// back to the single best combined stream.
const (
	selectorAudioFallback = "+bestaudio/b"
)

// outputTemplate is the engine substitution pattern for disk delivery:
// "{title} - {resolution}.{ext}", resolved by the engine after extraction.
const outputTemplate = "%(title)s - %(resolution)s.%(ext)s"

// Selector builds the engine format selector for a chosen video format id.
func Selector(formatID string) string {
	return formatID + selectorAudioFallback
}

// Orchestrator drives one download run at a time against the extraction
// engine. It holds no per-run state; runs are independent.
type Orchestrator struct {
	disk   DiskEngine
	stream StreamEngine
}

// NewOrchestrator creates an orchestrator over the two engine slices.
func NewOrchestrator(disk DiskEngine, stream StreamEngine) *Orchestrator {
	return &Orchestrator{disk: disk, stream: stream}
}

// ToDisk runs one disk-delivery download. Progress flows to sink as
// translated events, ending in exactly one terminal event. Returns the final
// written path. No retry is attempted; a failed run is terminal for this
// request.
func (o *Orchestrator) ToDisk(ctx context.Context, req model.DownloadRequest, sink progress.Sink) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	if err := os.MkdirAll(req.DestinationDir, 0o755); err != nil {
		return "", &model.IOError{Path: req.DestinationDir, Err: err}
	}

	tr := progress.NewTranslator(sink)
	template := filepath.Join(req.DestinationDir, outputTemplate)

	path, err := o.disk.DownloadToFile(ctx, req.URL, Selector(req.FormatID), template, tr.Downloading)
	if err != nil {
		engineErr := asEngineError(err)
		tr.Error(engineErr.Message)
		return "", engineErr
	}

	tr.Finished()
	return path, nil
}

// OpenStream starts one stream-delivery download and returns the producer's
// byte stream. The caller owns the reader and must close it on every exit
// path; closing reaps the producer process.
func (o *Orchestrator) OpenStream(ctx context.Context, req model.DownloadRequest) (io.ReadCloser, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	rc, err := o.stream.OpenStream(ctx, req.URL, Selector(req.FormatID))
	if err != nil {
		return nil, asEngineError(err)
	}
	return rc, nil
}

// validate rejects requests that must never reach the engine.
func validate(req model.DownloadRequest) error {
	if strings.TrimSpace(req.URL) == "" {
		return model.ErrInvalidInput
	}
	if strings.TrimSpace(req.FormatID) == "" {
		return model.ErrInvalidSelection
	}
	return nil
}

// asEngineError preserves an existing EngineError and wraps anything else.
func asEngineError(err error) *model.EngineError {
	var engineErr *model.EngineError
	if errors.As(err, &engineErr) {
		return engineErr
	}
	return &model.EngineError{Message: err.Error()}
}
