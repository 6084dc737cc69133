package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/config"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/db"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/logging"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/metrics"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/realtime"
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/sensors"
)

// Deps are the collaborators the server routes to. Hub and Metrics are
// optional.
type Deps struct {
	Sensors *sensors.Service
	Store   db.Store
	Hub     *realtime.Hub
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg     config.Config
	sensors *sensors.Service
	store   db.Store
	hub     *realtime.Hub
	metrics *metrics.Metrics
	log     *zap.Logger
	engine  *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.Middleware(deps.Log))
	engine.Use(corsMiddleware(cfg.CORSOrigins))
	if deps.Metrics != nil {
		engine.Use(metricsMiddleware(deps.Metrics))
	}

	server := &Server{
		cfg:     cfg,
		sensors: deps.Sensors,
		store:   deps.Store,
		hub:     deps.Hub,
		metrics: deps.Metrics,
		log:     deps.Log,
		engine:  engine,
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if s.hub != nil {
			s.hub.Close()
		}
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	s.registerLegacyRoutes()
	s.registerV1Routes()
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "strategy": s.sensors.Evaluator().Strategy()})
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-API-Version"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Request(route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
