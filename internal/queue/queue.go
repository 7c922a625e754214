// In file: internal/queue/queue.go

// Package queue wraps the RabbitMQ plumbing for asynchronous publishing.
// The API server enqueues publish-record IDs; cmd/worker consumes them and
// performs the actual platform posts.
package queue

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

const publishQueueName = "publish_jobs"

// PublishJob is the payload carried on the queue: the ID of the
// publish_records row to process.
type PublishJob struct {
	PublishRecordID int `json:"publish_record_id"`
}

// Publisher enqueues publish jobs.
type Publisher interface {
	EnqueuePublishJob(recordID int) error
	Close()
}

// Queue is a durable RabbitMQ queue for publish jobs.
type Queue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	name    string
}

var _ Publisher = (*Queue)(nil)

// Connect dials RabbitMQ and declares the durable publish queue.
func Connect(amqpURL string) (*Queue, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if _, err := channel.QueueDeclare(
		publishQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return &Queue{conn: conn, channel: channel, name: publishQueueName}, nil
}

// EnqueuePublishJob publishes one job as persistent JSON.
func (q *Queue) EnqueuePublishJob(recordID int) error {
	body, err := json.Marshal(PublishJob{PublishRecordID: recordID})
	if err != nil {
		return fmt.Errorf("failed to marshal publish job: %w", err)
	}
	err = q.channel.Publish(
		"",     // default exchange
		q.name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}
	return nil
}

// Consume registers a manual-ack consumer and returns its delivery channel.
func (q *Queue) Consume() (<-chan amqp.Delivery, error) {
	deliveries, err := q.channel.Consume(
		q.name,
		"",    // consumer tag
		false, // autoAck off: ack only after the record is updated
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return deliveries, nil
}

func (q *Queue) Close() {
	if err := q.channel.Close(); err != nil {
		log.Printf("Warning: Failed to close AMQP channel: %v", err)
	}
	if err := q.conn.Close(); err != nil {
		log.Printf("Warning: Failed to close AMQP connection: %v", err)
	}
}
