package forward

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
	"github.com/02loveslollipop/Shizuku-irrigation/services/bridge/internal/apiclient"
	"github.com/02loveslollipop/Shizuku-irrigation/services/bridge/internal/config"
	"github.com/02loveslollipop/Shizuku-irrigation/services/bridge/internal/models"
	"github.com/02loveslollipop/Shizuku-irrigation/services/bridge/internal/utils"
)

// Submitter posts a reading to the API.
type Submitter func(ctx context.Context, r plant.Reading) (models.SubmitResponse, error)

// Forwarder turns device telemetry into API submissions.
type Forwarder struct {
	cfg    config.Config
	submit Submitter
	log    *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	last map[string]models.LastForwarded
}

func New(cfg config.Config, client *http.Client, log *zap.Logger) *Forwarder {
	submit := func(ctx context.Context, r plant.Reading) (models.SubmitResponse, error) {
		return apiclient.SubmitReading(ctx, client, cfg.APIURL, r)
	}
	return newForwarder(cfg, submit, log)
}

func newForwarder(cfg config.Config, submit Submitter, log *zap.Logger) *Forwarder {
	return &Forwarder{
		cfg:    cfg,
		submit: submit,
		log:    log,
		now:    time.Now,
		last:   make(map[string]models.LastForwarded),
	}
}

// Handle processes one MQTT payload. It returns false with a nil error when
// the reading was suppressed as a duplicate.
func (f *Forwarder) Handle(ctx context.Context, payload []byte) (bool, error) {
	var p models.DevicePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return false, fmt.Errorf("decode payload: %w", err)
	}

	cand, err := utils.BuildCandidate(p, f.now().UTC())
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	forward := utils.ShouldForward(cand, f.last, f.cfg.MinInterval, f.cfg.ValueEpsilon)
	f.mu.Unlock()
	if !forward {
		f.log.Debug("duplicate reading suppressed", zap.String("device", cand.Device))
		return false, nil
	}

	if f.cfg.DryRun {
		f.log.Info("dry-run: would submit reading",
			zap.String("device", cand.Device),
			zap.Float64("temperatura", cand.Reading.Temperature),
			zap.Float64("humedad", cand.Reading.Humidity),
			zap.Float64("humedadSuelo", cand.Reading.SoilMoisture),
			zap.Float64("luz", cand.Reading.Light))
	} else {
		ctx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
		defer cancel()
		resp, err := f.submit(ctx, cand.Reading)
		if err != nil {
			return false, err
		}
		ev := resp.Evaluation
		f.log.Info("reading submitted",
			zap.String("device", cand.Device),
			zap.Float64("estado", ev.PlantState),
			zap.Bool("activar", ev.Activate),
			zap.Float64("tiempo", ev.Time()),
			zap.Strings("razones", ev.Reasons))
	}

	f.mu.Lock()
	f.last[cand.Device] = models.LastForwarded{Reading: cand.Reading, TS: cand.TS}
	f.mu.Unlock()
	return true, nil
}
