package http

import "github.com/gin-gonic/gin"

// handleV1RealtimeWS streams every stored reading over a websocket
// GET /api/v1/realtime/ws
func (s *Server) handleV1RealtimeWS(c *gin.Context) {
	s.hub.ServeHTTP(c.Writer, c.Request)
}
