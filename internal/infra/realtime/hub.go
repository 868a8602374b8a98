package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

const subscriberBuffer = 16

// Hub reparte eventos a las conexiones SSE abiertas en esta instancia.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
	log  zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{}), log: log}
}

// Subscribe devuelve el canal del usuario y la función para soltarlo.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan Event]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()
	metrics.RealtimeSubscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(ch)
			metrics.RealtimeSubscribers.Dec()
		})
	}
}

// Broadcast nunca bloquea: si un cliente no lee, el evento se descarta para él.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
			h.log.Warn().Str("user_id", ev.UserID).Str("event", ev.Type).Msg("⚠️ suscriptor lento, evento descartado")
		}
	}
}

// Publish entrega en local sin broker (instancia única o RabbitMQ no configurado).
func (h *Hub) Publish(_ context.Context, userID, kind string, payload any) error {
	ev, err := NewEvent(userID, kind, payload)
	if err != nil {
		return err
	}
	h.Broadcast(ev)
	return nil
}

func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
