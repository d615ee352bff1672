package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/sse"
)

type EventHandler interface {
	// Stream pushes an event each time a new attendance snapshot is loaded
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	hub       *sse.Hub
	keepalive time.Duration
}

func NewEventHandler(hub *sse.Hub) EventHandler {
	return &eventHandlerImpl{hub: hub, keepalive: 30 * time.Second}
}

// Stream handles the SSE connection for snapshot refresh notices
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(sse.TopicSnapshot)
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("dropping unencodable event", "event", event.Name, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
