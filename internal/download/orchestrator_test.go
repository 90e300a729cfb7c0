package download

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/model"
	"github.com/vidgrab/vidgrab/internal/progress"
	"github.com/vidgrab/vidgrab/internal/resolve"
)

type fakeDiskEngine struct {
	gotURL      string
	gotSelector string
	gotTemplate string
	updates     []progress.Update
	err         error

	title      string
	resolution string
	ext        string
}

func (f *fakeDiskEngine) DownloadToFile(ctx context.Context, url, selector, template string, hook func(progress.Update)) (string, error) {
	f.gotURL = url
	f.gotSelector = selector
	f.gotTemplate = template

	for _, u := range f.updates {
		hook(u)
	}
	if f.err != nil {
		return "", f.err
	}

	path := strings.NewReplacer(
		"%(title)s", f.title,
		"%(resolution)s", f.resolution,
		"%(ext)s", f.ext,
	).Replace(template)
	return path, nil
}

type fakeStreamEngine struct {
	gotSelector string
	rc          io.ReadCloser
	err         error
}

func (f *fakeStreamEngine) OpenStream(ctx context.Context, url, selector string) (io.ReadCloser, error) {
	f.gotSelector = selector
	return f.rc, f.err
}

func i64(v int64) *int64 { return &v }

func TestSelector(t *testing.T) {
	if got := Selector("137"); got != "137+bestaudio/b" {
		t.Errorf(`Selector("137") = %q, expected "137+bestaudio/b"`, got)
	}
}

func TestToDisk_Validation(t *testing.T) {
	o := NewOrchestrator(&fakeDiskEngine{}, &fakeStreamEngine{})

	_, err := o.ToDisk(context.Background(), model.DownloadRequest{FormatID: "22", DestinationDir: "/tmp/out"}, nil)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Missing URL: expected ErrInvalidInput, got %v", err)
	}

	_, err = o.ToDisk(context.Background(), model.DownloadRequest{URL: "https://example/video", DestinationDir: "/tmp/out"}, nil)
	if !errors.Is(err, model.ErrInvalidSelection) {
		t.Errorf("Missing format: expected ErrInvalidSelection, got %v", err)
	}
}

func TestToDisk_EngineFailure(t *testing.T) {
	disk := &fakeDiskEngine{err: &model.EngineError{Message: "ffmpeg exited with code 1"}}
	o := NewOrchestrator(disk, &fakeStreamEngine{})

	var events []model.ProgressEvent
	sink := func(ev model.ProgressEvent) { events = append(events, ev) }

	req := model.DownloadRequest{URL: "https://example/video", FormatID: "22", Title: "Demo", DestinationDir: t.TempDir()}
	_, err := o.ToDisk(context.Background(), req, sink)

	var engineErr *model.EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("Expected EngineError, got %v", err)
	}
	if engineErr.Message != "ffmpeg exited with code 1" {
		t.Errorf("Engine message not preserved: %q", engineErr.Message)
	}

	if len(events) == 0 || events[len(events)-1].Phase != model.PhaseError {
		t.Error("A failed run must end with exactly one error event")
	}
}

func TestToDisk_IOFailure(t *testing.T) {
	o := NewOrchestrator(&fakeDiskEngine{}, &fakeStreamEngine{})

	// A destination under a regular file cannot be created.
	blocked := t.TempDir() + "/file"
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := model.DownloadRequest{URL: "https://example/video", FormatID: "22", DestinationDir: blocked + "/sub"}
	_, err := o.ToDisk(context.Background(), req, nil)

	var ioErr *model.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Expected IOError, got %v", err)
	}
}

func TestOpenStream_Validation(t *testing.T) {
	o := NewOrchestrator(&fakeDiskEngine{}, &fakeStreamEngine{})

	_, err := o.OpenStream(context.Background(), model.DownloadRequest{URL: "https://example/video"})
	if !errors.Is(err, model.ErrInvalidSelection) {
		t.Errorf("Expected ErrInvalidSelection, got %v", err)
	}
}

func TestOpenStream_Selector(t *testing.T) {
	stream := &fakeStreamEngine{rc: io.NopCloser(strings.NewReader("bytes"))}
	o := NewOrchestrator(&fakeDiskEngine{}, stream)

	rc, err := o.OpenStream(context.Background(), model.DownloadRequest{URL: "https://example/video", FormatID: "137"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer rc.Close()

	if stream.gotSelector != "137+bestaudio/b" {
		t.Errorf("Expected selector '137+bestaudio/b', got %q", stream.gotSelector)
	}
}

// TestEndToEnd walks the full happy path: resolve, select, download to disk,
// observe the terminal event and the final path.
func TestEndToEnd(t *testing.T) {
	prober := &fakeProber{info: &engine.MediaInfo{
		Title: "Demo",
		Formats: []engine.RawFormat{
			{FormatID: "18", Ext: "mp4", Resolution: "640x360", VCodec: "avc1", Filesize: i64(1 << 20)},
			{FormatID: "22", Ext: "mp4", Resolution: "1280x720", VCodec: "avc1", FormatNote: "720p"},
			{FormatID: "137", Ext: "mp4", Resolution: "1920x1080", VCodec: "avc1"},
			{FormatID: "140", Ext: "m4a", VCodec: "none"},
		},
	}}
	r := resolve.New(prober)

	title, formats, err := r.Resolve(context.Background(), "https://example/video")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if title != "Demo" {
		t.Errorf("Expected title 'Demo', got %q", title)
	}
	if len(formats) != 3 {
		t.Fatalf("Expected 3 video formats, got %d", len(formats))
	}

	var selected *model.FormatDescriptor
	for i := range formats {
		if formats[i].ID == "22" {
			selected = &formats[i]
		}
	}
	if selected == nil {
		t.Fatal("Format 22 should be selectable")
	}

	disk := &fakeDiskEngine{
		title:      "Demo",
		resolution: "720p",
		ext:        "mp4",
		updates: []progress.Update{
			{DownloadedBytes: 512, TotalBytes: i64(1024)},
			{DownloadedBytes: 1024, TotalBytes: i64(1024)},
		},
	}
	o := NewOrchestrator(disk, &fakeStreamEngine{})

	var events []model.ProgressEvent
	sink := func(ev model.ProgressEvent) { events = append(events, ev) }

	destDir := t.TempDir()
	req := model.DownloadRequest{
		URL:            "https://example/video",
		FormatID:       selected.ID,
		Title:          title,
		DestinationDir: destDir,
	}
	path, err := o.ToDisk(context.Background(), req, sink)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if path != filepath.Join(destDir, "Demo - 720p.mp4") {
		t.Errorf(`Expected final path %q, got %q`, filepath.Join(destDir, "Demo - 720p.mp4"), path)
	}
	if disk.gotSelector != "22+bestaudio/b" {
		t.Errorf("Expected selector '22+bestaudio/b', got %q", disk.gotSelector)
	}

	finished := 0
	for _, ev := range events {
		if ev.Phase == model.PhaseFinished {
			finished++
		}
	}
	if finished != 1 {
		t.Errorf("Expected exactly one finished event, got %d", finished)
	}
	if events[len(events)-1].Phase != model.PhaseFinished {
		t.Error("The finished event must be the last one delivered")
	}
}

type fakeProber struct {
	info *engine.MediaInfo
}

func (f *fakeProber) Probe(ctx context.Context, url string) (*engine.MediaInfo, error) {
	return f.info, nil
}
