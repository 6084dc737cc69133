package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerLegacyRoutes serves the /api routes the greenhouse dashboard and
// devices already call.
func (s *Server) registerLegacyRoutes() {
	api := s.engine.Group("/api")
	{
		api.POST("/sensors", s.handleSaveSensorData)
		api.GET("/sensors", s.handleGetSensorData)
		api.GET("/sensors/evaluation", s.handleLatestEvaluation)
		api.GET("/sensors/pump", s.handlePump)
		api.GET("/pump", s.handlePump)
		api.GET("/membership-functions", s.handleMembershipFunctions)
	}
}

func (s *Server) handleSaveSensorData(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"message":    "Datos almacenados",
		"evaluacion": rec.Evaluation,
	})
}

func (s *Server) handleGetSensorData(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	records, err := s.sensors.All(ctx)
	if respondServiceError(c, err) {
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleLatestEvaluation(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	rec, err := s.sensors.Latest(ctx)
	if respondServiceError(c, err) {
		return
	}
	c.JSON(http.StatusOK, rec.Evaluation)
}

func (s *Server) handlePump(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	decision, err := s.sensors.PumpForLatest(ctx)
	if respondServiceError(c, err) {
		return
	}
	c.JSON(http.StatusOK, decision)
}

type membershipData struct {
	Range []float64            `json:"range"`
	Sets  map[string][]float64 `json:"sets"`
}

func (s *Server) handleMembershipFunctions(c *gin.Context) {
	sys := s.sensors.Evaluator().System()
	out := make(map[string]membershipData)
	for _, vars := range [][]string{variableNames(sys.Inputs()), variableNames(sys.Outputs())} {
		for _, name := range vars {
			xs, sets, _ := sys.Curves(name)
			out[name] = membershipData{Range: xs, Sets: sets}
		}
	}
	c.JSON(http.StatusOK, out)
}
