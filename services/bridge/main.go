package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/logging"
	"github.com/02loveslollipop/Shizuku-irrigation/services/bridge/internal/config"
	"github.com/02loveslollipop/Shizuku-irrigation/services/bridge/internal/forward"
	"github.com/02loveslollipop/Shizuku-irrigation/services/bridge/internal/mqttsub"
)

const queueSize = 64

func main() {
	if err := run(); err != nil {
		log.Fatalf("bridge failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := &http.Client{Timeout: cfg.RequestTimeout}
	fwd := forward.New(cfg, client, logger)

	// Messages are handed to a single worker so submissions keep device order
	// and the paho callback never blocks on HTTP.
	queue := make(chan []byte, queueSize)
	sub := mqttsub.New(mqttsub.Options{
		Broker:   cfg.Broker,
		ClientID: cfg.ClientID,
		Topic:    cfg.Topic,
		QoS:      cfg.QoS,
	}, func(topic string, payload []byte) {
		select {
		case queue <- payload:
		default:
			logger.Warn("bridge queue full, dropping message", zap.String("topic", topic))
		}
	}, logger)

	if err := sub.Connect(cfg.RequestTimeout); err != nil {
		return err
	}
	defer sub.Close()

	logger.Info("bridge running",
		zap.String("broker", cfg.Broker),
		zap.String("topic", cfg.Topic),
		zap.String("api", cfg.APIURL),
		zap.Bool("dry_run", cfg.DryRun))

	for {
		select {
		case <-ctx.Done():
			logger.Info("bridge stopping")
			return nil
		case payload := <-queue:
			if _, err := fwd.Handle(ctx, payload); err != nil {
				logger.Warn("reading not forwarded", zap.Error(err))
			}
		}
	}
}
