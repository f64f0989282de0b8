package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/tfidf-search/internal/metrics"
	"github.com/gcbaptista/tfidf-search/services"
)

// Options configures the HTTP surface.
type Options struct {
	DefaultTopK int              // k used when a search does not set one
	MaxTopK     int              // Largest k a search may request; 0 means unbounded
	Metrics     *metrics.Metrics // Served on /metrics when not nil
}

// API holds dependencies for API handlers, primarily the search engine.
type API struct {
	engine  services.IndexManager
	options Options
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.IndexManager, options Options) *API {
	if options.DefaultTopK <= 0 {
		options.DefaultTopK = 10
	}
	return &API{
		engine:  engine,
		options: options,
	}
}

// SetupRoutes defines all the API routes for the search engine.
func SetupRoutes(router *gin.Engine, engine services.IndexManager, options Options) {
	apiHandler := NewAPI(engine, options)

	router.Use(RequestIDMiddleware(), LoggingMiddleware(), CORSMiddleware())
	if options.Metrics != nil {
		router.Use(MetricsMiddleware(options.Metrics))
		router.GET("/metrics", gin.WrapH(options.Metrics.Handler()))
	}

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/stats", apiHandler.StatsHandler)

	// Search routes
	router.GET("/search", apiHandler.SearchHandler)
	router.POST("/search", apiHandler.SearchJSONHandler)

	// Index inspection routes
	router.GET("/documents/:id", apiHandler.GetDocumentHandler)
	router.GET("/terms/:term", apiHandler.GetTermHandler)

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)      // List build jobs
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler) // Get job status by ID
	}
}

// HealthCheckHandler provides a simple health check endpoint. The service is
// healthy while the index is still being built; readiness is reported apart.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "tfidf-search",
		"ready":     api.engine.Stats().Ready,
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// StatsHandler returns statistics for the published index
func (api *API) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.Stats())
}
