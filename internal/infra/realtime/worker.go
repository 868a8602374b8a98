package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type consumeChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Relay consume los eventos del exchange y los entrega al Hub local.
type Relay struct {
	Channel consumeChannel
	Hub     *Hub
	log     zerolog.Logger
}

func NewRelay(ch consumeChannel, hub *Hub, log zerolog.Logger) *Relay {
	return &Relay{Channel: ch, Hub: hub, log: log}
}

// Start bloquea hasta que se cancela ctx o se cierra el canal de entregas.
func (r *Relay) Start(ctx context.Context) error {
	// cola exclusiva y anónima: desaparece con la instancia
	q, err := r.Channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("fallo al declarar la cola del relay: %w", err)
	}
	if err := r.Channel.QueueBind(q.Name, BindingKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("fallo al enlazar la cola del relay: %w", err)
	}

	msgs, err := r.Channel.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("fallo al registrar consumidor RabbitMQ: %w", err)
	}

	r.log.Info().Str("queue", q.Name).Msg("📡 relay realtime escuchando")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal de entregas cerrado")
			}
			r.handle(d)
		}
	}
}

func (r *Relay) handle(d amqp.Delivery) {
	var ev Event
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		r.log.Warn().Err(err).Msg("❌ evento realtime inválido")
		return
	}
	if ev.UserID == "" {
		ev.UserID = userFromKey(d.RoutingKey)
	}
	if ev.UserID == "" {
		r.log.Warn().Str("routing_key", d.RoutingKey).Msg("⚠️ evento realtime sin destinatario")
		return
	}
	r.Hub.Broadcast(ev)
}
