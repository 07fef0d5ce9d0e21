package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oreshkin/slotbook/internal/queue"
)

// AMQPPublisher publishes slot lifecycle events to the "slot.events" queue
// on RabbitMQ.  It dials per publish so a broker restart between events
// needs no connection management here; errors are logged and returned so
// callers can choose to ignore them.  Messages are marked persistent.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisher returns a publisher for the given broker URL.  An empty
// URL falls back to the conventional local default.
func NewAMQPPublisher(url string) *AMQPPublisher {
	if url == "" {
		url = queue.BrokerURL()
	}
	return &AMQPPublisher{URL: url}
}

// Publish sends a single SlotEvent to the slot.events queue.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.SlotEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		"slot.events", // name
		true,          // durable
		false,         // autoDelete
		false,         // exclusive
		false,         // noWait
		nil,           // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",            // default exchange
		"slot.events", // routing key = queue name
		false,         // mandatory
		false,         // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
