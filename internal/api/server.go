// Package api serves the record services over REST for remote clients.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderramin/trestle/internal/service"
)

const shutdownGrace = 5 * time.Second

// Services bundles what the handlers need.
type Services struct {
	Projects service.ProjectService
	Stages   service.StageService
	Tasks    service.TaskService
}

type Server struct {
	svc     Services
	logger  *slog.Logger
	metrics *metrics
	router  *gin.Engine
}

type ServerOption func(*serverConfig)

type serverConfig struct {
	logger   *slog.Logger
	registry *prometheus.Registry
}

func WithLogger(l *slog.Logger) ServerOption {
	return func(c *serverConfig) { c.logger = l }
}

// WithRegistry collects request metrics into reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) ServerOption {
	return func(c *serverConfig) { c.registry = reg }
}

func NewServer(svc Services, opts ...ServerOption) *Server {
	cfg := serverConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}

	s := &Server{
		svc:     svc,
		logger:  cfg.logger,
		metrics: newMetrics(cfg.registry),
		router:  gin.New(),
	}

	s.router.Use(gin.Recovery(), requestID(), s.observe())
	s.router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.registry, promhttp.HandlerOpts{})))

	api := s.router.Group("/api")
	{
		api.GET("/projects", s.listProjects)
		api.POST("/projects", s.createProject)
		api.GET("/projects/:id", s.getProject)
		api.GET("/projects/:id/stages", s.listStages)
		api.POST("/projects/:id/stages", s.createStage)

		api.PUT("/stages/:id", s.editStage)
		api.DELETE("/stages/:id", s.deleteStage)
		api.GET("/stages/:id/tasks", s.listTasks)
		api.POST("/stages/:id/tasks", s.createTask)

		api.PUT("/tasks/:id", s.editTask)
		api.DELETE("/tasks/:id", s.deleteTask)
		api.POST("/tasks/:id/complete", s.completeTask)
		api.POST("/tasks/:id/uncheck", s.uncheckTask)
	}
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	s.logger.Info("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}
