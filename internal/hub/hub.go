// Package hub fans progress events out to connected websocket clients.
package hub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vidgrab/vidgrab/internal/model"
	"github.com/vidgrab/vidgrab/internal/progress"
)

// broadcastBuffer absorbs bursts between the producing download goroutines
// and the write loop. When it is full, events are dropped rather than letting
// a slow consumer back-pressure the byte path.
const broadcastBuffer = 64

// writeTimeout bounds how long one stalled client can hold up the write loop
// before it is dropped.
const writeTimeout = 5 * time.Second

type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	upgrader  websocket.Upgrader
}

// progressMessage is the wire form of a progress event. Optional fields are
// omitted rather than sent as zeroes.
type progressMessage struct {
	Type            string   `json:"type"`
	StreamID        string   `json:"streamId"`
	Phase           string   `json:"phase"`
	DownloadedBytes int64    `json:"downloadedBytes"`
	TotalBytes      *int64   `json:"totalBytes,omitempty"`
	Percent         *float64 `json:"percent,omitempty"`
	Downloaded      string   `json:"downloaded"`
	Message         string   `json:"message,omitempty"`
}

func New() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, broadcastBuffer),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) Run() {
	for {
		msg := <-h.broadcast
		h.mu.Lock()
		for client := range h.clients {
			client.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := client.WriteMessage(websocket.TextMessage, msg)
			if err != nil {
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mu.Unlock()
	}
}

// BroadcastProgress sends one progress event to every connected client.
// Events for different streams are distinguished by streamID. It never
// blocks: progress is a lossy display stream, and when the broadcast buffer
// is full the event is dropped so a stalled websocket consumer cannot hold
// up concurrent downloads.
func (h *Hub) BroadcastProgress(streamID string, ev model.ProgressEvent) {
	wire := progressMessage{
		Type:            "progress",
		StreamID:        streamID,
		Phase:           string(ev.Phase),
		DownloadedBytes: ev.DownloadedBytes,
		TotalBytes:      ev.TotalBytes,
		Downloaded:      progress.Bytes(&ev.DownloadedBytes),
		Message:         ev.Message,
	}
	if pct, ok := ev.Percent(); ok {
		wire.Percent = &pct
	}

	msg, err := json.Marshal(wire)
	if err != nil {
		slog.Error("Failed to marshal progress event", "error", err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
	}
}

func (h *Hub) WsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	slog.Info("Client connected", "remote_addr", r.RemoteAddr)
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		slog.Info("Client disconnected")
	}()

	waitTimeout := 60 * time.Second
	for {
		conn.SetReadDeadline(time.Now().Add(waitTimeout))
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WS read error", "error", err)
			}
			break
		}
	}
}
