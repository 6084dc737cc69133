package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// handleV1SubmitReading evaluates and stores a reading
// POST /api/v1/readings
func (s *Server) handleV1SubmitReading(c *gin.Context) {
	reading, ok := bindReading(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	rec, err := s.sensors.Submit(ctx, reading)
	if respondServiceError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": rec,
		"meta": gin.H{
			"strategy": rec.Evaluation.Strategy,
		},
	})
}

// handleV1ListReadings returns every stored reading in submission order
// GET /api/v1/readings
func (s *Server) handleV1ListReadings(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	records, err := s.sensors.All(ctx)
	if respondServiceError(c, err) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
		"meta": gin.H{
			"count": len(records),
		},
	})
}

// handleV1LatestReading returns the most recent reading with its evaluation
// GET /api/v1/readings/latest
func (s *Server) handleV1LatestReading(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	rec, err := s.sensors.Latest(ctx)
	if respondServiceError(c, err) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": rec,
		"meta": gin.H{
			"age_seconds":  time.Since(rec.ReceivedAt).Seconds(),
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// handleV1Pump re-decides the pump for the latest reading
// GET /api/v1/irrigation/pump
func (s *Server) handleV1Pump(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	decision, err := s.sensors.PumpForLatest(ctx)
	if respondServiceError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": decision})
}

// handleV1Decide returns the pump decision for an ad-hoc reading without
// storing it
// POST /api/v1/irrigation/decide
func (s *Server) handleV1Decide(c *gin.Context) {
	reading, ok := bindReading(c)
	if !ok {
		return
	}
	decision, err := s.sensors.Evaluator().Decide(reading)
	if respondServiceError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": decision})
}
