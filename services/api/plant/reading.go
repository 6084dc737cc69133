package plant

import "math"

// Reading is one crisp sample from the greenhouse sensors. Soil moisture and
// light are raw 10-bit ADC values.
type Reading struct {
	Temperature  float64 `json:"temperatura"`
	Humidity     float64 `json:"humedad"`
	SoilMoisture float64 `json:"humedadSuelo"`
	Light        float64 `json:"luz"`
}

func (r Reading) inputs() map[string]float64 {
	return map[string]float64{
		VarTemperature: r.Temperature,
		VarHumidity:    r.Humidity,
		VarSoil:        r.SoilMoisture,
		VarLight:       r.Light,
	}
}

// Conditions echoes the evaluated inputs back to the caller.
type Conditions struct {
	Temperature float64 `json:"temperatura"`
	Humidity    float64 `json:"humedad"`
	Soil        float64 `json:"suelo"`
	Light       float64 `json:"luz"`
}

func (r Reading) conditions() Conditions {
	return Conditions{Temperature: r.Temperature, Humidity: r.Humidity, Soil: r.SoilMoisture, Light: r.Light}
}

// Decision is the irrigation verdict for a reading. Exactly one of Seconds
// (threshold strategy) and PumpTime (inference strategy) is set.
type Decision struct {
	Strategy   Strategy   `json:"estrategia"`
	Activate   bool       `json:"activar"`
	Seconds    *int       `json:"tiempo_segundos,omitempty"`
	PumpTime   *float64   `json:"tiempo_bomba,omitempty"`
	Reasons    []string   `json:"razones"`
	Conditions Conditions `json:"condiciones"`
}

// Time returns the reported pump time regardless of strategy.
func (d Decision) Time() float64 {
	switch {
	case d.Seconds != nil:
		return float64(*d.Seconds)
	case d.PumpTime != nil:
		return *d.PumpTime
	default:
		return 0
	}
}

// Evaluation is attached to every stored reading and never changes after
// creation.
type Evaluation struct {
	PlantState float64 `json:"estado"`
	Decision
	Recommendations []string `json:"recomendaciones"`
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
