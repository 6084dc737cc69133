package models

import (
	"time"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
)

// DevicePayload models the JSON telemetry published by the greenhouse
// controller. Failed sensor reads are sent as -999.
type DevicePayload struct {
	Device       string   `json:"dispositivo"`
	Temperature  *float64 `json:"temperatura"`
	Humidity     *float64 `json:"humedad"`
	SoilMoisture *float64 `json:"humedadSuelo"`
	Light        *float64 `json:"luz"`
}

// Candidate is a normalized reading ready to be forwarded.
type Candidate struct {
	Device  string
	Reading plant.Reading
	TS      time.Time
}

// LastForwarded is the most recent reading forwarded for a device.
type LastForwarded struct {
	Reading plant.Reading
	TS      time.Time
}

// SubmitResponse is the API answer to a stored reading.
type SubmitResponse struct {
	Message    string           `json:"message"`
	Evaluation plant.Evaluation `json:"evaluacion"`
}
