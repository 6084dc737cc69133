package sensors

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/db"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/metrics"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
)

var (
	// ErrNoData is returned when the log holds no readings yet.
	ErrNoData = errors.New("no readings stored")
	// ErrInvalidReading is returned for readings with non-finite values.
	ErrInvalidReading = errors.New("invalid reading")
)

const sinkTimeout = 5 * time.Second

// Sink receives every record after it has been stored.
type Sink interface {
	Name() string
	Publish(ctx context.Context, rec db.Record) error
}

// Service evaluates submitted readings, appends them to the store and fans
// the stored record out to the sinks.
type Service struct {
	eval    *plant.Evaluator
	store   db.Store
	sinks   []Sink
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewService(eval *plant.Evaluator, store db.Store, m *metrics.Metrics, log *zap.Logger, sinks ...Sink) *Service {
	return &Service{
		eval:    eval,
		store:   store,
		sinks:   sinks,
		metrics: m,
		log:     log.With(zap.String("component", "sensors")),
		now:     time.Now,
	}
}

func (s *Service) Evaluator() *plant.Evaluator { return s.eval }

// Submit evaluates r and stores it with its evaluation.
func (s *Service) Submit(ctx context.Context, r plant.Reading) (db.Record, error) {
	if err := validate(r); err != nil {
		return db.Record{}, err
	}

	start := time.Now()
	ev, err := s.eval.Evaluate(r)
	if err != nil {
		return db.Record{}, fmt.Errorf("evaluate: %w", err)
	}
	took := time.Since(start)

	rec := db.NewRecord(r, ev, s.now())
	if err := s.store.Append(ctx, rec); err != nil {
		return db.Record{}, fmt.Errorf("store reading: %w", err)
	}

	s.metrics.Evaluation(string(ev.Strategy), ev.PlantState, ev.Time(), ev.Activate, took)
	s.log.Debug("reading evaluated",
		zap.Stringer("id", rec.ID),
		zap.Object("reading", readingLog(r)),
		zap.Float64("estado", ev.PlantState),
		zap.Bool("activar", ev.Activate),
		zap.Float64("tiempo", ev.Time()),
		zap.Strings("razones", ev.Reasons),
		zap.Duration("took", took))

	s.publish(ctx, rec)
	return rec, nil
}

func (s *Service) publish(ctx context.Context, rec db.Record) {
	base := context.WithoutCancel(ctx)
	for _, sink := range s.sinks {
		sctx, cancel := context.WithTimeout(base, sinkTimeout)
		err := sink.Publish(sctx, rec)
		cancel()
		if err != nil {
			s.metrics.SinkError(sink.Name())
			s.log.Warn("sink publish failed", zap.String("sink", sink.Name()), zap.Stringer("id", rec.ID), zap.Error(err))
		}
	}
}

// Latest returns the most recent stored record.
func (s *Service) Latest(ctx context.Context) (db.Record, error) {
	rec, err := s.store.Latest(ctx)
	if err != nil {
		return db.Record{}, err
	}
	if rec == nil {
		return db.Record{}, ErrNoData
	}
	return *rec, nil
}

// All returns every stored record in submission order.
func (s *Service) All(ctx context.Context) ([]db.Record, error) {
	return s.store.All(ctx)
}

// PumpForLatest re-runs the pump decision on the most recent reading.
func (s *Service) PumpForLatest(ctx context.Context) (plant.Decision, error) {
	rec, err := s.Latest(ctx)
	if err != nil {
		return plant.Decision{}, err
	}
	return s.eval.Decide(rec.Reading)
}

func validate(r plant.Reading) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"temperatura", r.Temperature},
		{"humedad", r.Humidity},
		{"humedadSuelo", r.SoilMoisture},
		{"luz", r.Light},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidReading, f.name)
		}
	}
	return nil
}
