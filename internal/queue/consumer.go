package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Applier applies a settlement event to the store.  It must be
// idempotent: the consumer redelivers events whose apply failed.
type Applier interface {
	Apply(ctx context.Context, event SettlementEvent) error
}

// StartSettlementConsumer connects to RabbitMQ, declares the durable
// request.settled queue, and applies each event through the given
// Applier.  The function runs a reconnect loop with exponential
// backoff and never returns under normal operation.  Apply failures
// are requeued so the settlement eventually lands; malformed messages
// are rejected without requeue to avoid tight redelivery loops.
func StartSettlementConsumer(applier Applier) error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("settlement-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, applier); err != nil {
			log.Printf("settlement-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, applier Applier) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("settlement-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(settlementQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(settlementQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		var ev SettlementEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("settlement-consumer: unmarshal failed: %v", err)
			_ = d.Nack(false, false) // poison message, drop it
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := applier.Apply(ctx, ev)
		cancel()
		if err != nil {
			log.Printf("settlement-consumer: apply request %s failed: %v", ev.RequestID, err)
			_ = d.Nack(false, true) // requeue, apply is idempotent
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}
