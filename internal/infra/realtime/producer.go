package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher envía los eventos al exchange topic para que los reparta cualquier
// instancia que tenga abierta la conexión SSE del usuario.
type Publisher struct {
	Ch  publishChannel
	log zerolog.Logger
}

func NewPublisher(ch publishChannel, log zerolog.Logger) *Publisher {
	return &Publisher{Ch: ch, log: log}
}

func (p *Publisher) Publish(ctx context.Context, userID, kind string, payload any) error {
	ev, err := NewEvent(userID, kind, payload)
	if err != nil {
		return fmt.Errorf("error al convertir payload: %w", err)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("error al convertir evento: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey(userID, kind),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Transient,
			Timestamp:    ev.At,
		},
	)
	if err != nil {
		return fmt.Errorf("fallo al publicar en RabbitMQ: %w", err)
	}
	p.log.Debug().Str("user_id", userID).Str("event", kind).Msg("📤 evento realtime publicado")
	return nil
}
