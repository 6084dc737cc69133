package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/sensors"
)

const noDataMessage = "No hay datos disponibles"

// readingRequest uses pointers so that a missing field is rejected while an
// explicit zero is accepted.
type readingRequest struct {
	Temperature  *float64 `json:"temperatura" binding:"required"`
	Humidity     *float64 `json:"humedad" binding:"required"`
	SoilMoisture *float64 `json:"humedadSuelo" binding:"required"`
	Light        *float64 `json:"luz" binding:"required"`
}

func (r readingRequest) reading() plant.Reading {
	return plant.Reading{
		Temperature:  *r.Temperature,
		Humidity:     *r.Humidity,
		SoilMoisture: *r.SoilMoisture,
		Light:        *r.Light,
	}
}

func bindReading(c *gin.Context) (plant.Reading, bool) {
	var req readingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return plant.Reading{}, false
	}
	return req.reading(), true
}

// respondServiceError maps service errors to status codes. It reports
// whether err was non-nil.
func respondServiceError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, sensors.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"message": noDataMessage})
	case errors.Is(err, sensors.ErrInvalidReading):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
	return true
}
