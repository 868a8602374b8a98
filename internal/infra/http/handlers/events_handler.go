package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/infra/realtime"
)

// Subscriber lo cumple *realtime.Hub.
type Subscriber interface {
	Subscribe(userID string) (<-chan realtime.Event, func())
}

// EventsHandler expone los eventos realtime del usuario como Server-Sent Events.
type EventsHandler struct {
	Hub       Subscriber
	KeepAlive time.Duration
	log       zerolog.Logger
}

func NewEventsHandler(hub Subscriber, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{Hub: hub, KeepAlive: 25 * time.Second, log: log}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming no soportado")
		return
	}
	uid := userID(r)
	events, unsubscribe := h.Hub.Subscribe(uid)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": conectado\n\n")
	flusher.Flush()

	h.log.Debug().Str("user_id", uid).Msg("📡 cliente SSE conectado")

	ticker := time.NewTicker(h.KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Debug().Str("user_id", uid).Msg("📡 cliente SSE desconectado")
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Payload)
			flusher.Flush()
		}
	}
}
