package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/config"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/db"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/events"
	httpserver "github.com/02loveslollipop/Shizuku-irrigation/services/api/http"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/logging"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/metrics"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/realtime"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/sensors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	sys, err := plant.LoadSystem(cfg.ModelFile)
	if err != nil {
		logger.Fatal("fuzzy model error", zap.String("file", cfg.ModelFile), zap.Error(err))
	}
	eval, err := plant.NewEvaluator(sys, cfg.Strategy)
	if err != nil {
		logger.Fatal("evaluator error", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store db.Store
	if cfg.DatabaseURL != "" {
		pg, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connection error", zap.Error(err))
		}
		store = pg
	} else {
		logger.Warn("DATABASE_URL not set, readings are kept in memory")
		store = db.NewMemory()
	}
	defer store.Close()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	hub := realtime.NewHub(logger)
	sinks := []sensors.Sink{hub}
	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if err := pub.Close(); err != nil {
				logger.Warn("kafka close", zap.Error(err))
			}
		}()
		sinks = append(sinks, pub)
	}

	svc := sensors.NewService(eval, store, m, logger, sinks...)
	srv := httpserver.New(cfg, httpserver.Deps{
		Sensors: svc,
		Store:   store,
		Hub:     hub,
		Metrics: m,
		Log:     logger,
	})
	logger.Info("irrigation API listening",
		zap.String("addr", cfg.ListenAddr()),
		zap.String("strategy", string(cfg.Strategy)),
		zap.Int("rules", len(sys.Rules())),
		zap.Bool("postgres", cfg.DatabaseURL != ""),
		zap.Strings("kafka_brokers", cfg.KafkaBrokers))

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
