package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/ganesh9880/termipy/internal/api/http"
	"github.com/ganesh9880/termipy/internal/api/middleware"
	"github.com/ganesh9880/termipy/internal/api/ws"
	"github.com/ganesh9880/termipy/internal/infrastructure/monitoring"
)

// shutdownGrace bounds how long in-flight requests may run during shutdown.
const shutdownGrace = 5 * time.Second

// Server is the web front end over a Runtime.
type Server struct {
	runtime *Runtime
	router  *gin.Engine
	metrics *monitoring.Metrics
}

// NewServer builds the gin router, middleware chain, and routes.
func NewServer(rt *Runtime) *Server {
	cfg := rt.Config
	metrics := monitoring.NewMetrics()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS())
	if cfg.RateLimit.Enabled {
		rt.Logger.Info("rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(float64(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst))
	}

	handlers := apihttp.NewHandlers(rt.Sessions, rt.Dispatcher, metrics, rt.Logger)
	stats := ws.NewHandler(2*time.Second, 300, metrics, rt.Logger)

	router.GET("/health", handlers.Health)
	router.POST("/execute", handlers.Execute)
	router.GET("/history", handlers.History)
	router.GET("/complete", handlers.Complete)
	router.GET("/system_info", handlers.SystemInfo)
	router.GET("/ws/stats", stats.Stats)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{runtime: rt, router: router, metrics: metrics}
}

// Run serves until ctx is canceled, then drains in-flight requests and
// closes the runtime.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.runtime.Config
	srv := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.runtime.Logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.runtime.Close()
		return err
	case <-ctx.Done():
	}

	s.runtime.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.runtime.Close()
	return err
}
