// Package server exposes the ingestion, retrieval, and strategy
// administration surfaces over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/docugraph"
	"github.com/soundprediction/docugraph/pkg/config"
	"github.com/soundprediction/docugraph/pkg/server/handlers"
)

// Service is the full engine surface the server fronts.
type Service interface {
	docugraph.Ingestor
	docugraph.Retriever
	docugraph.StrategyAdmin
	docugraph.GraphAdmin
}

// Server is the HTTP server.
type Server struct {
	config  *config.Config
	router  *gin.Engine
	service Service
	server  *http.Server
}

// New creates a server instance.
func New(cfg *config.Config, service Service) *Server {
	return &Server{
		config:  cfg,
		service: service,
	}
}

// Setup builds the router, middleware, and the underlying http.Server.
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    s.config.Server.Addr(),
		Handler: s.router,
	}
}

// Router returns the configured router.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.service)
	documentsHandler := handlers.NewDocumentsHandler(s.service, s.service)
	queryHandler := handlers.NewQueryHandler(s.service)
	strategiesHandler := handlers.NewStrategiesHandler(s.service)
	graphHandler := handlers.NewGraphHandler(s.service)

	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)

	v1 := s.router.Group("/api/v1")
	{
		documents := v1.Group("/documents")
		{
			documents.POST("", documentsHandler.Ingest)
			documents.GET("/:id/chunks", documentsHandler.Chunks)
			documents.DELETE("/:id", documentsHandler.Delete)
		}

		v1.POST("/query", queryHandler.Query)

		graph := v1.Group("/graph")
		{
			graph.GET("/stats", graphHandler.Stats)
			graph.DELETE("", graphHandler.Clear)
		}

		strategies := v1.Group("/strategies")
		{
			strategies.GET("", strategiesHandler.Get)
			strategies.GET("/presets", strategiesHandler.Presets)
			strategies.POST("/presets/:name", strategiesHandler.ApplyPreset)
			strategies.PATCH("/extraction", strategiesHandler.UpdateExtraction)
			strategies.PATCH("/retrieval", strategiesHandler.UpdateRetrieval)
			strategies.POST("/reset", strategiesHandler.Reset)
		}
	}
}

// Start starts the server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
