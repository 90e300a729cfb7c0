package resolve

import (
	"context"
	"strings"

	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/model"
)

// Fallback labels for fields the engine leaves out.
const (
	UnknownContainer  = "?"
	AudioOnlyLabel    = "audio"
	FallbackTitle     = "video"
	missingVideoCodec = "none"
)

// Prober is the metadata-only slice of the extraction engine.
type Prober interface {
	Probe(ctx context.Context, url string) (*engine.MediaInfo, error)
}

// Resolver turns a media URL into a selectable list of format descriptors.
type Resolver struct {
	prober Prober
}

// New creates a resolver backed by the given prober.
func New(prober Prober) *Resolver {
	return &Resolver{prober: prober}
}

// Resolve enumerates the video renditions available for url. Renditions
// without a video codec are excluded: this tool is video-download-oriented,
// and audio-only entries are filtered by policy, not by engine limitation.
func (r *Resolver) Resolve(ctx context.Context, url string) (string, []model.FormatDescriptor, error) {
	if strings.TrimSpace(url) == "" {
		return "", nil, model.ErrInvalidInput
	}

	info, err := r.prober.Probe(ctx, url)
	if err != nil {
		return "", nil, &model.ResolutionError{Message: err.Error()}
	}

	title := info.Title
	if title == "" {
		title = FallbackTitle
	}

	formats := make([]model.FormatDescriptor, 0, len(info.Formats))
	for _, raw := range info.Formats {
		if !hasVideo(raw) {
			continue
		}
		formats = append(formats, normalize(raw))
	}

	return title, formats, nil
}

// hasVideo reports whether a raw rendition carries a video track. An absent
// codec field counts as "none".
func hasVideo(raw engine.RawFormat) bool {
	return raw.VCodec != "" && raw.VCodec != missingVideoCodec
}

// normalize maps one raw rendition onto a descriptor. Absent sizes stay nil;
// an exact size wins over the engine's approximation.
func normalize(raw engine.RawFormat) model.FormatDescriptor {
	d := model.FormatDescriptor{
		ID:         raw.FormatID,
		Container:  raw.Ext,
		Resolution: raw.Resolution,
		Note:       raw.FormatNote,
	}

	if d.Container == "" {
		d.Container = UnknownContainer
	}
	if d.Resolution == "" {
		d.Resolution = AudioOnlyLabel
	}

	if raw.Filesize != nil {
		d.SizeBytes = raw.Filesize
	} else if raw.FilesizeApprox != nil {
		d.SizeBytes = raw.FilesizeApprox
	}

	return d
}
