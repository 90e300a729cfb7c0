package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/model"
)

type fakeProber struct {
	info   *engine.MediaInfo
	err    error
	called bool
}

func (f *fakeProber) Probe(ctx context.Context, url string) (*engine.MediaInfo, error) {
	f.called = true
	return f.info, f.err
}

func i64(v int64) *int64 { return &v }

func TestResolve_EmptyURL(t *testing.T) {
	prober := &fakeProber{}
	r := New(prober)

	for _, url := range []string{"", "   "} {
		_, _, err := r.Resolve(context.Background(), url)
		if !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("Resolve(%q): expected ErrInvalidInput, got %v", url, err)
		}
	}

	if prober.called {
		t.Error("Engine must not be invoked for empty input")
	}
}

func TestResolve_FiltersAudioOnly(t *testing.T) {
	prober := &fakeProber{info: &engine.MediaInfo{
		Title: "Demo",
		Formats: []engine.RawFormat{
			{FormatID: "140", Ext: "m4a", VCodec: "none", ACodec: "mp4a"},
			{FormatID: "18", Ext: "mp4", Resolution: "640x360", VCodec: "avc1", ACodec: "mp4a"},
			{FormatID: "251", Ext: "webm", VCodec: "none", ACodec: "opus"},
			{FormatID: "136", Ext: "mp4", Resolution: "1280x720", VCodec: "avc1"},
			{FormatID: "303", Resolution: "1920x1080", VCodec: "vp9"},
		},
	}}
	r := New(prober)

	title, formats, err := r.Resolve(context.Background(), "https://example/video")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if title != "Demo" {
		t.Errorf("Expected title 'Demo', got %q", title)
	}

	// 5 renditions, 2 report no video codec.
	if len(formats) != 3 {
		t.Fatalf("Expected 3 formats, got %d", len(formats))
	}
	for _, f := range formats {
		if f.ID == "140" || f.ID == "251" {
			t.Errorf("Audio-only rendition %s must never appear", f.ID)
		}
	}
}

func TestResolve_FiltersAbsentVideoCodec(t *testing.T) {
	prober := &fakeProber{info: &engine.MediaInfo{
		Title: "Demo",
		Formats: []engine.RawFormat{
			{FormatID: "x", Ext: "mp4"}, // no codec fields at all
		},
	}}
	r := New(prober)

	_, formats, err := r.Resolve(context.Background(), "https://example/video")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(formats) != 0 {
		t.Errorf("Renditions without a vcodec field must be excluded, got %d", len(formats))
	}
}

func TestResolve_Normalization(t *testing.T) {
	prober := &fakeProber{info: &engine.MediaInfo{
		Formats: []engine.RawFormat{
			{FormatID: "1", VCodec: "avc1"},
			{FormatID: "2", Ext: "webm", Resolution: "1920x1080", VCodec: "vp9", Filesize: i64(100), FilesizeApprox: i64(999)},
			{FormatID: "3", Ext: "mp4", Resolution: "1280x720", VCodec: "avc1", FilesizeApprox: i64(2048)},
		},
	}}
	r := New(prober)

	title, formats, err := r.Resolve(context.Background(), "https://example/video")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if title != FallbackTitle {
		t.Errorf("Missing title should fall back to %q, got %q", FallbackTitle, title)
	}

	bare := formats[0]
	if bare.Container != UnknownContainer {
		t.Errorf("Missing container should normalize to %q, got %q", UnknownContainer, bare.Container)
	}
	if bare.Resolution != AudioOnlyLabel {
		t.Errorf("Missing resolution should default to %q, got %q", AudioOnlyLabel, bare.Resolution)
	}
	if bare.SizeBytes != nil {
		t.Error("Absent size must stay nil on the descriptor")
	}

	sized := formats[1]
	if sized.SizeBytes == nil || *sized.SizeBytes != 100 {
		t.Error("Exact size should be preferred over the approximation")
	}

	approx := formats[2]
	if approx.SizeBytes == nil || *approx.SizeBytes != 2048 {
		t.Error("Approximate size should be used when no exact size exists")
	}
}

func TestResolve_EngineFailure(t *testing.T) {
	prober := &fakeProber{err: errors.New("Unsupported URL: https://example/nope")}
	r := New(prober)

	_, _, err := r.Resolve(context.Background(), "https://example/nope")

	var resErr *model.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Expected ResolutionError, got %v", err)
	}
	if resErr.Message != "Unsupported URL: https://example/nope" {
		t.Errorf("Engine message not preserved verbatim: %q", resErr.Message)
	}
}
