package http

import "github.com/gin-gonic/gin"

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/readings, /api/v1/irrigation, /api/v1/model, /api/v1/realtime
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	readings := v1.Group("/readings")
	{
		readings.POST("", s.handleV1SubmitReading)
		readings.GET("", s.handleV1ListReadings)
		readings.GET("/latest", s.handleV1LatestReading)
	}

	irrigation := v1.Group("/irrigation")
	{
		irrigation.GET("/pump", s.handleV1Pump)
		irrigation.POST("/decide", s.handleV1Decide)
	}

	model := v1.Group("/model")
	{
		model.GET("/variables", s.handleV1ModelVariables)
		model.GET("/rules", s.handleV1ModelRules)
		model.POST("/infer", s.handleV1ModelInfer)
	}

	if s.hub != nil {
		realtime := v1.Group("/realtime")
		{
			realtime.GET("/ws", s.handleV1RealtimeWS)
		}
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
