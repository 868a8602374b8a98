package realtime

import (
	"encoding/json"
	"strings"
	"time"
)

// Event es lo que recibe el navegador por SSE.
type Event struct {
	UserID  string          `json:"user_id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

func NewEvent(userID, kind string, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{UserID: userID, Type: kind, Payload: body, At: time.Now()}, nil
}

// RoutingKey es user.<id>.<evento>.
func RoutingKey(userID, kind string) string {
	return "user." + userID + "." + kind
}

// userFromKey extrae el id de usuario de una routing key. Los UUID no llevan puntos.
func userFromKey(key string) string {
	parts := strings.SplitN(key, ".", 3)
	if len(parts) < 2 || parts[0] != "user" {
		return ""
	}
	return parts[1]
}
