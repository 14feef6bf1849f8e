package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cardiodash/adapters/stats/senses"
	"cardiodash/app"
	"cardiodash/internal"
	"cardiodash/internal/config"
	"cardiodash/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Server is the dashboard HTTP API
type Server struct {
	router         *gin.Engine
	httpServer     *http.Server
	service        *app.DashboardService
	metrics        *metrics.Collector
	logger         *internal.Logger
	senses         *senses.SenseEngine
	maxUploadBytes int64
}

// NewServer creates the gin engine and registers every route
func NewServer(service *app.DashboardService, collector *metrics.Collector, logger *internal.Logger, cfg config.ServerConfig) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = app.DefaultDashboardConfig().MaxUploadBytes
	}

	s := &Server{
		router:         gin.New(),
		service:        service,
		metrics:        collector,
		logger:         logger,
		senses:         senses.NewSenseEngine(),
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	s.router.MaxMultipartMemory = cfg.MaxUploadBytes
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Router exposes the engine, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/report", s.handleReport)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.router.Group("/api")
	{
		api.GET("/schema", s.handleSchema)
		api.GET("/sources", s.handleSources)
		api.POST("/sources/:name/select", s.handleSelectSource)
		api.POST("/datasets/upload", s.handleUpload)

		api.GET("/dataset", s.handleDataset)
		api.DELETE("/dataset", s.handleClear)
		api.GET("/dataset/export.xlsx", s.handleExport)

		views := api.Group("/views")
		views.GET("/summary", s.handleSummary)
		views.GET("/grouped", s.handleGrouped)
		views.GET("/scatter", s.handleScatter)
		views.GET("/patterns", s.handlePatterns)
		views.GET("/comparison", s.handleComparison)
		views.GET("/categorical", s.handleCategorical)
		views.GET("/describe", s.handleDescribe)
		views.GET("/associations", s.handleAssociations)
	}
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Dashboard API listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
