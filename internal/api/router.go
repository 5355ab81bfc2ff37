package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/citygroups/internal/listing"
	"github.com/steemit/citygroups/pkg/logging"
)

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Router sets up API routes
type Router struct {
	handler *JSONRPCHandler
	svc     *listing.Service
	store   HealthChecker
	cache   HealthChecker
	logger  *zap.Logger
}

// NewRouter creates a new API router. cache may be nil.
func NewRouter(svc *listing.Service, store HealthChecker, cache HealthChecker) *Router {
	router := &Router{
		handler: NewJSONRPCHandler(),
		svc:     svc,
		store:   store,
		cache:   cache,
		logger:  logging.WithComponent("api-router"),
	}

	router.registerMethods()

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	engine.POST("/", r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods() {
	directory := NewDirectoryAPI(r.svc)
	moderation := NewModerationAPI(r.svc)

	r.handler.RegisterMethod("directory.submit", directory.Submit)
	r.handler.RegisterMethod("directory.list", directory.List)

	r.handler.RegisterMethod("moderation.list_pending", moderation.ListPending)
	r.handler.RegisterMethod("moderation.decide", moderation.Decide)
	r.handler.RegisterMethod("moderation.approve", moderation.Approve)
	r.handler.RegisterMethod("moderation.reject", moderation.Reject)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"store": "OK"}

	if err := r.store.Health(ctx); err != nil {
		r.logger.Warn("Store health check failed", zap.Error(err))
		status = http.StatusServiceUnavailable
		checks["store"] = err.Error()
	}
	if r.cache != nil {
		if err := r.cache.Health(ctx); err != nil {
			// The directory still works from the store alone
			r.logger.Warn("Cache health check failed", zap.Error(err))
			checks["cache"] = err.Error()
		} else {
			checks["cache"] = "OK"
		}
	}

	overall := "OK"
	if status != http.StatusOK {
		overall = "DEGRADED"
	}
	c.JSON(status, gin.H{
		"status":  overall,
		"service": "citygroups-api",
		"checks":  checks,
	})
}
