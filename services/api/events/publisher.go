package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/db"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes every stored record to a Kafka topic, keyed by record id.
type Publisher struct {
	topic string
	w     messageWriter
	log   *zap.Logger
}

// NewPublisher returns a synchronous writer for topic on brokers.
func NewPublisher(brokers []string, topic string, log *zap.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  false,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return &Publisher{topic: topic, w: w, log: log.With(zap.String("component", "kafka-publisher"))}
}

func (p *Publisher) Name() string { return "kafka" }

// Event is the message body published for a stored record.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Record    db.Record `json:"record"`
}

func (p *Publisher) Publish(ctx context.Context, rec db.Record) error {
	b, err := json.Marshal(Event{Type: "reading.evaluated", Timestamp: rec.ReceivedAt, Record: rec})
	if err != nil {
		return err
	}
	msg := kafka.Message{Key: []byte(rec.ID.String()), Value: b, Time: rec.ReceivedAt}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", p.topic, err)
	}
	p.log.Debug("published record", zap.String("topic", p.topic), zap.Stringer("id", rec.ID))
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
