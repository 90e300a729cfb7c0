package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidgrab/vidgrab/internal/hub"
	"github.com/vidgrab/vidgrab/internal/metrics"
	"github.com/vidgrab/vidgrab/internal/model"
	"github.com/vidgrab/vidgrab/internal/progress"
	"github.com/vidgrab/vidgrab/internal/stream"
)

// DefaultTitle names the attachment when the client did not pass a title.
const DefaultTitle = "video"

// progressBroadcastInterval throttles websocket progress events during a
// streamed download.
const progressBroadcastInterval = 500 * time.Millisecond

// Resolver lists the selectable formats of a media URL.
type Resolver interface {
	Resolve(ctx context.Context, url string) (string, []model.FormatDescriptor, error)
}

// StreamOpener turns a validated request into a byte stream.
type StreamOpener interface {
	OpenStream(ctx context.Context, req model.DownloadRequest) (io.ReadCloser, error)
}

type Handlers struct {
	resolver Resolver
	streams  StreamOpener
	hub      *hub.Hub
}

func NewHandlers(resolver Resolver, streams StreamOpener, h *hub.Hub) *Handlers {
	return &Handlers{resolver: resolver, streams: streams, hub: h}
}

type fetchFormatsRequest struct {
	URL string `json:"url"`
}

type formatPayload struct {
	ID      string `json:"id"`
	Ext     string `json:"ext"`
	Res     string `json:"res"`
	Note    string `json:"note"`
	SizeStr string `json:"size_str"`
}

type fetchFormatsResponse struct {
	Title   string          `json:"title"`
	Formats []formatPayload `json:"formats"`
}

// FetchFormats handles POST /api/fetch_formats.
func (h *Handlers) FetchFormats(w http.ResponseWriter, r *http.Request) {
	var req fetchFormatsRequest
	// A decode failure leaves the URL empty, which is reported the same
	// way as a missing one.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.URL == "" {
		writeJSONError(w, http.StatusBadRequest, "No URL provided")
		return
	}

	title, formats, err := h.resolver.Resolve(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			writeJSONError(w, http.StatusBadRequest, "No URL provided")
			return
		}
		metrics.ResolutionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		slog.Error("Format resolution failed", "url", req.URL, "error", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.ResolutionsTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	resp := fetchFormatsResponse{Title: title, Formats: make([]formatPayload, 0, len(formats))}
	for _, f := range formats {
		resp.Formats = append(resp.Formats, formatPayload{
			ID:      f.ID,
			Ext:     f.Container,
			Res:     f.Resolution,
			Note:    f.Note,
			SizeStr: progress.Bytes(f.SizeBytes),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Download handles GET /download. The response body is the media itself,
// produced while the engine is still downloading.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := model.DownloadRequest{
		URL:      q.Get("url"),
		FormatID: q.Get("format_id"),
		Title:    q.Get("title"),
	}
	if req.URL == "" || req.FormatID == "" {
		http.Error(w, "Missing URL or Format ID", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		req.Title = DefaultTitle
	}

	src, err := h.streams.OpenStream(r.Context(), req)
	if err != nil {
		slog.Error("Failed to start stream", "url", req.URL, "format", req.FormatID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	streamID := newStreamID()
	slog.Info("Streaming download started", "stream_id", streamID, "url", req.URL, "format", req.FormatID)

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", stream.AttachmentFilename(req.Title)))

	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	tr := progress.NewTranslator(func(ev model.ProgressEvent) {
		h.hub.BroadcastProgress(streamID, ev)
	})

	// Broadcasting on every chunk would flood the hub; hold progress events
	// to the same cadence the engine uses for disk downloads.
	var (
		delivered int64
		lastSent  time.Time
	)
	written, err := stream.Pump(r.Context(), w, src, func(n int) {
		metrics.StreamedBytesTotal.Add(float64(n))
		delivered += int64(n)
		if time.Since(lastSent) >= progressBroadcastInterval {
			lastSent = time.Now()
			tr.Downloading(progress.Update{DownloadedBytes: delivered})
		}
	})

	switch {
	case err == nil:
		metrics.StreamsTotal.WithLabelValues(metrics.OutcomeCompleted).Inc()
		tr.Finished()
		slog.Info("Streaming download finished", "stream_id", streamID, "bytes", written)
	case errors.Is(err, model.ErrStreamAborted):
		// The client went away. Nothing useful to send back.
		metrics.StreamsTotal.WithLabelValues(metrics.OutcomeAborted).Inc()
		tr.Error("client disconnected")
		slog.Info("Streaming download aborted by client", "stream_id", streamID, "bytes", written)
	default:
		metrics.StreamsTotal.WithLabelValues(metrics.OutcomeEngineError).Inc()
		tr.Error(err.Error())
		slog.Error("Streaming download failed", "stream_id", streamID, "bytes", written, "error", err)
	}
}

func newStreamID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("stream-%d", time.Now().UnixNano())
	}
	return id.String()
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
