package utils

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
	"github.com/02loveslollipop/Shizuku-irrigation/services/bridge/internal/models"
)

// ErrIncomplete is returned for payloads missing a usable sensor value.
var ErrIncomplete = errors.New("incomplete reading")

// NormalizeValue cleans raw sensor values; -999 sentinel and non-finite -> nil.
func NormalizeValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if *v <= -900 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	val := *v
	return &val
}

// BuildCandidate converts a device payload into a forwardable reading.
func BuildCandidate(p models.DevicePayload, ts time.Time) (models.Candidate, error) {
	values := []struct {
		name string
		v    *float64
	}{
		{"temperatura", NormalizeValue(p.Temperature)},
		{"humedad", NormalizeValue(p.Humidity)},
		{"humedadSuelo", NormalizeValue(p.SoilMoisture)},
		{"luz", NormalizeValue(p.Light)},
	}
	for _, f := range values {
		if f.v == nil {
			return models.Candidate{}, fmt.Errorf("%w: %s", ErrIncomplete, f.name)
		}
	}
	device := p.Device
	if device == "" {
		device = "default"
	}
	return models.Candidate{
		Device: device,
		Reading: plant.Reading{
			Temperature:  *values[0].v,
			Humidity:     *values[1].v,
			SoilMoisture: *values[2].v,
			Light:        *values[3].v,
		},
		TS: ts,
	}, nil
}

// ShouldForward reports whether cand differs enough from the last reading
// forwarded for its device. Identical readings are suppressed until
// minInterval has passed.
func ShouldForward(cand models.Candidate, last map[string]models.LastForwarded, minInterval time.Duration, epsilon float64) bool {
	prev, ok := last[cand.Device]
	if !ok {
		return true
	}
	if cand.TS.Sub(prev.TS) >= minInterval {
		return true
	}
	return !ReadingsEqual(prev.Reading, cand.Reading, epsilon)
}

// ReadingsEqual compares two readings field by field with tolerance.
func ReadingsEqual(a, b plant.Reading, epsilon float64) bool {
	return math.Abs(a.Temperature-b.Temperature) <= epsilon &&
		math.Abs(a.Humidity-b.Humidity) <= epsilon &&
		math.Abs(a.SoilMoisture-b.SoilMoisture) <= epsilon &&
		math.Abs(a.Light-b.Light) <= epsilon
}
