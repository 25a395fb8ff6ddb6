package cache

import (
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/wlopz/codeflow-app/internal/config"
	"github.com/wlopz/codeflow-app/internal/models"
)

// VoteChangedEvent tells downstream consumers that a target's vote state
// changed and should be re-read. It carries no counts, only the identity.
type VoteChangedEvent struct {
	TargetType models.TargetType `json:"target_type"`
	TargetID   int               `json:"target_id"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Publisher pushes vote-changed events to a durable queue.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewPublisher dials the broker and declares the queue. An empty url
// returns a nil publisher, whose methods are no-ops.
func NewPublisher(cfg *config.Config) (*Publisher, error) {
	if cfg.RabbitMQ.Url == "" {
		log.Println("rabbitmq url empty, skipping event publisher")
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.Url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	queue := cfg.RabbitMQ.Queue
	if queue == "" {
		queue = "vote.events"
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Println("RabbitMQ initialized, queue:", queue)
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

// PublishVoteChanged emits one event. Failures are logged and dropped;
// the vote has already committed by the time this runs.
func (p *Publisher) PublishVoteChanged(targetType models.TargetType, targetID int) {
	if p == nil {
		return
	}

	body, err := json.Marshal(VoteChangedEvent{
		TargetType: targetType,
		TargetID:   targetID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("marshal vote event: %v", err)
		return
	}

	err = p.ch.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		log.Printf("publish vote event for %s %d: %v", targetType, targetID, err)
	}
}

// Close shuts the channel and connection down.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.ch.Close(); err != nil {
		log.Printf("amqp channel close: %v", err)
	}
	if err := p.conn.Close(); err != nil {
		log.Printf("amqp connection close: %v", err)
	}
}
