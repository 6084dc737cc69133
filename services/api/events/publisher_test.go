package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap/zaptest"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/db"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
)

type stubWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func (s *stubWriter) Close() error {
	s.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	w := &stubWriter{}
	p := &Publisher{topic: "irrigation.evaluations", w: w, log: zaptest.NewLogger(t)}

	rec := db.NewRecord(plant.Reading{Temperature: 25, Humidity: 50, SoilMoisture: 200, Light: 500}, plant.Evaluation{PlantState: 31.6}, time.Now())
	if err := p.Publish(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("wrote %d messages", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != rec.ID.String() {
		t.Fatalf("key = %s", msg.Key)
	}
	var ev Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Type != "reading.evaluated" || ev.Record.ID != rec.ID || ev.Record.Evaluation.PlantState != 31.6 {
		t.Fatalf("event = %+v", ev)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatal("writer not closed")
	}
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := &Publisher{topic: "t", w: &stubWriter{err: boom}, log: zaptest.NewLogger(t)}
	if err := p.Publish(context.Background(), db.Record{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewPublisherName(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "irrigation.evaluations", zaptest.NewLogger(t))
	defer p.Close()
	if p.Name() != "kafka" || p.topic != "irrigation.evaluations" {
		t.Fatalf("publisher = %+v", p)
	}
}
