package sensors

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/db"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/metrics"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
)

type recordingSink struct {
	name string
	err  error

	mu   sync.Mutex
	recs []db.Record
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(_ context.Context, rec db.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return s.err
}

type failingStore struct{ db.Store }

func (failingStore) Append(context.Context, db.Record) error { return errors.New("disk full") }

func newTestService(t *testing.T, strategy plant.Strategy, store db.Store, sinks ...Sink) (*Service, *metrics.Metrics) {
	t.Helper()
	sys, err := plant.NewSystem()
	if err != nil {
		t.Fatal(err)
	}
	eval, err := plant.NewEvaluator(sys, strategy)
	if err != nil {
		t.Fatal(err)
	}
	m := metrics.New()
	s := NewService(eval, store, m, zaptest.NewLogger(t), sinks...)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, m
}

func TestSubmitStoresAndPublishes(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{name: "test"}
	store := db.NewMemory()
	s, _ := newTestService(t, plant.StrategyThreshold, store, sink)

	rec, err := s.Submit(ctx, plant.Reading{Temperature: 25, Humidity: 50, SoilMoisture: 200, Light: 500})
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Evaluation.Activate || *rec.Evaluation.Seconds != 60 {
		t.Fatalf("evaluation = %+v", rec.Evaluation)
	}
	if !rec.ReceivedAt.Equal(s.now()) {
		t.Fatalf("received at %v", rec.ReceivedAt)
	}

	latest, err := s.Latest(ctx)
	if err != nil || latest.ID != rec.ID {
		t.Fatalf("Latest = %+v, %v", latest, err)
	}
	if len(sink.recs) != 1 || sink.recs[0].ID != rec.ID {
		t.Fatalf("sink saw %+v", sink.recs)
	}
}

func TestLatestIsTheLastSubmission(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, plant.StrategyThreshold, db.NewMemory())

	if _, err := s.Latest(ctx); !errors.Is(err, ErrNoData) {
		t.Fatalf("Latest on empty store err = %v", err)
	}
	if _, err := s.PumpForLatest(ctx); !errors.Is(err, ErrNoData) {
		t.Fatalf("PumpForLatest on empty store err = %v", err)
	}

	first, _ := s.Submit(ctx, plant.Reading{Temperature: 25, Humidity: 50, SoilMoisture: 200, Light: 500})
	second, _ := s.Submit(ctx, plant.Reading{Temperature: 25, Humidity: 50, SoilMoisture: 600, Light: 500})

	latest, _ := s.Latest(ctx)
	if latest.ID != second.ID || latest.ID == first.ID {
		t.Fatal("latest is not the last submission")
	}
	d, err := s.PumpForLatest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.Activate || d.Conditions.Soil != 600 {
		t.Fatalf("pump decision = %+v", d)
	}
	all, _ := s.All(ctx)
	if len(all) != 2 {
		t.Fatalf("All returned %d records", len(all))
	}
}

func TestSubmitRejectsNonFinite(t *testing.T) {
	s, _ := newTestService(t, plant.StrategyInference, db.NewMemory())
	for _, r := range []plant.Reading{
		{Temperature: math.NaN(), Humidity: 50, SoilMoisture: 500, Light: 500},
		{Temperature: 25, Humidity: math.Inf(1), SoilMoisture: 500, Light: 500},
	} {
		if _, err := s.Submit(context.Background(), r); !errors.Is(err, ErrInvalidReading) {
			t.Fatalf("Submit(%+v) err = %v", r, err)
		}
	}
}

func TestSubmitNamesFirstNonFiniteField(t *testing.T) {
	s, _ := newTestService(t, plant.StrategyThreshold, db.NewMemory())
	r := plant.Reading{Temperature: 25, Humidity: math.NaN(), SoilMoisture: math.Inf(-1), Light: math.NaN()}
	for i := 0; i < 20; i++ {
		_, err := s.Submit(context.Background(), r)
		if !errors.Is(err, ErrInvalidReading) {
			t.Fatalf("err = %v", err)
		}
		if !strings.Contains(err.Error(), "humedad is not") {
			t.Fatalf("err = %q, want the humedad field", err)
		}
	}
}

func TestSinkFailureDoesNotFailSubmit(t *testing.T) {
	broken := &recordingSink{name: "kafka", err: errors.New("broker down")}
	healthy := &recordingSink{name: "websocket"}
	s, m := newTestService(t, plant.StrategyInference, db.NewMemory(), broken, healthy)

	if _, err := s.Submit(context.Background(), plant.Reading{Temperature: 25, Humidity: 60, SoilMoisture: 600, Light: 600}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(healthy.recs) != 1 {
		t.Fatal("healthy sink skipped after a failure")
	}
	n, err := testutil.GatherAndCount(m.Registry(), "irrigation_sink_errors_total")
	if err != nil || n != 1 {
		t.Fatalf("sink error series = %d, %v", n, err)
	}
}

func TestStoreFailure(t *testing.T) {
	sink := &recordingSink{name: "test"}
	s, _ := newTestService(t, plant.StrategyThreshold, failingStore{db.NewMemory()}, sink)
	if _, err := s.Submit(context.Background(), plant.Reading{Temperature: 25, Humidity: 50, SoilMoisture: 600, Light: 500}); err == nil {
		t.Fatal("expected store error")
	}
	if len(sink.recs) != 0 {
		t.Fatal("unstored record was published")
	}
}
