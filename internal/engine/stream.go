package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/vidgrab/vidgrab/internal/model"
)

// stderrTailSize caps how much engine diagnostic output is retained for
// error reporting on a streaming run.
const stderrTailSize = 4 * 1024

// StreamContainer is the container every streamed download is muxed into,
// regardless of the selected format's native container. A byte stream cannot
// carry a dynamically-typed file, so the delivery format is fixed.
const StreamContainer = "mp4"

// StreamHandle owns one producing engine process and its stdout pipe. Read
// pulls media bytes as the engine emits them; Close reaps the process. The
// handle is single-use and non-restartable.
type StreamHandle struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser

	stderrMu   sync.Mutex
	stderr     bytes.Buffer
	stderrDone chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// OpenStream starts a download-and-mux run writing to stdout and hands back
// the pipe. The process is bound to ctx: cancelling it (e.g. on client
// disconnect) terminates the producer, and Close then reaps it.
func (e *Engine) OpenStream(ctx context.Context, url, selector string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, e.binary,
		"-f", selector,
		"--merge-output-format", StreamContainer,
		"--no-playlist",
		"--quiet",
		"-o", "-",
		url,
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", e.binary, err)
	}

	h := &StreamHandle{cmd: cmd, stdout: stdout, stderrDone: make(chan struct{})}

	// Drain stderr so the producer cannot block on a full pipe; keep only a
	// bounded tail for diagnostics.
	go h.drainStderr(stderr)

	return h, nil
}

// Read pulls the next media bytes from the producer.
func (h *StreamHandle) Read(p []byte) (int, error) {
	return h.stdout.Read(p)
}

// Close closes the producer's output handle and waits for the process to
// exit. Safe to call more than once; every exit path of a streaming response
// must reach it, or the process and its descriptors leak.
func (h *StreamHandle) Close() error {
	h.closeOnce.Do(func() {
		h.stdout.Close()
		if h.cmd.Process != nil {
			// The producer may still be mid-transfer when the consumer goes
			// away; closing the pipe alone does not stop a blocked network
			// read.
			h.cmd.Process.Kill()
		}
		if err := h.cmd.Wait(); err != nil {
			// The drain goroutine sees EOF once the process is gone; give it
			// a moment so the tail is complete before reading it. Bounded:
			// an orphaned grandchild may hold the pipe open past the kill.
			select {
			case <-h.stderrDone:
			case <-time.After(time.Second):
			}
			msg := h.stderrTail()
			if msg == "" {
				msg = err.Error()
			}
			h.closeErr = &model.EngineError{Message: msg}
		}
	})
	return h.closeErr
}

func (h *StreamHandle) stderrTail() string {
	h.stderrMu.Lock()
	defer h.stderrMu.Unlock()
	return strings.TrimSpace(h.stderr.String())
}

func (h *StreamHandle) drainStderr(r io.Reader) {
	defer close(h.stderrDone)
	buf := make([]byte, 512)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.stderrMu.Lock()
			if h.stderr.Len() < stderrTailSize {
				h.stderr.Write(buf[:n])
			}
			h.stderrMu.Unlock()
		}
		if err != nil {
			return
		}
	}
}
