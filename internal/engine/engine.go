package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Defaults for engine invocations.
const (
	DefaultBinary       = "yt-dlp"
	DefaultProbeTimeout = 60 * time.Second
)

// RawFormat is one rendition record from the engine's metadata blob. Size
// fields are pointers: yt-dlp omits them when it cannot estimate, and an
// absent size must stay distinguishable from zero.
type RawFormat struct {
	FormatID       string `json:"format_id"`
	Ext            string `json:"ext"`
	Resolution     string `json:"resolution"`
	FormatNote     string `json:"format_note"`
	VCodec         string `json:"vcodec"`
	ACodec         string `json:"acodec"`
	Filesize       *int64 `json:"filesize"`
	FilesizeApprox *int64 `json:"filesize_approx"`
}

// MediaInfo is the engine's answer to a metadata-only probe.
type MediaInfo struct {
	Title   string      `json:"title"`
	Formats []RawFormat `json:"formats"`
}

// Engine invokes the yt-dlp binary.
type Engine struct {
	binary       string
	probeTimeout time.Duration
}

// New creates an engine driving the given yt-dlp binary. An empty path means
// the binary is found on PATH under its default name.
func New(binary string) *Engine {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Engine{
		binary:       binary,
		probeTimeout: DefaultProbeTimeout,
	}
}

// SetProbeTimeout overrides the metadata probe timeout.
func (e *Engine) SetProbeTimeout(timeout time.Duration) {
	e.probeTimeout = timeout
}

// Probe runs the engine in metadata-only mode and returns the media title
// and raw rendition records. No media bytes are fetched.
func (e *Engine) Probe(ctx context.Context, url string) (*MediaInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, e.probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binary,
		"--dump-single-json",
		"--no-playlist",
		"--no-warnings",
		url,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, err
	}

	return parseMediaInfo(stdout.Bytes())
}

// parseMediaInfo decodes the engine's single-JSON metadata dump.
func parseMediaInfo(data []byte) (*MediaInfo, error) {
	var info MediaInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("unreadable metadata from engine: %w", err)
	}
	return &info, nil
}
