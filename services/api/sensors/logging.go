package sensors

import (
	"go.uber.org/zap/zapcore"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
)

type readingLog plant.Reading

func (r readingLog) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddFloat64("temperatura", r.Temperature)
	enc.AddFloat64("humedad", r.Humidity)
	enc.AddFloat64("humedadSuelo", r.SoilMoisture)
	enc.AddFloat64("luz", r.Light)
	return nil
}
