package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Itish41/InnovationTracker/middleware"
	services "github.com/Itish41/InnovationTracker/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Version is reported by GET /api.
const Version = "1.0.0"

// RouterConfig holds the HTTP level settings.
type RouterConfig struct {
	Env                  string
	ClientURL            string
	UploadDir            string
	RateLimitPerMinute   int
	StrictLimitPerMinute int
	// Ready reports whether dependencies are reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

// SetupRouter builds the gin engine with every route of the API.
func SetupRouter(ctl *InitiativeController, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		gin.Recovery(),
		middleware.Metrics(),
		middleware.CORSMiddleware(cfg.ClientURL),
	)

	// Global rate limiter for most routes
	if cfg.RateLimitPerMinute > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute).Limit())
	}
	// Writes that create rows get a stricter limit.
	strict := func(c *gin.Context) { c.Next() }
	if cfg.StrictLimitPerMinute > 0 {
		strict = middleware.NewRateLimiter(cfg.StrictLimitPerMinute, time.Minute).Limit()
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Env,
		})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if cfg.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()
			if err := cfg.Ready(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/api", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "Innovation Tracker API",
			"version": Version,
			"endpoints": gin.H{
				"health":      "GET /health",
				"initiatives": "/api/initiatives",
				"search":      "GET /api/initiatives/search?q=",
				"transitions": "GET /api/initiatives/:id/transitions",
				"contacts":    "/api/initiatives/:id/contacts",
				"attachments": "/api/initiatives/:id/attachments",
				"metrics":     "GET /metrics",
			},
		})
	})

	if cfg.UploadDir != "" {
		r.Static(services.LocalURLPrefix, cfg.UploadDir)
	}

	initiatives := r.Group("/api/initiatives")
	{
		initiatives.POST("", strict, ctl.CreateInitiative)
		initiatives.GET("", ctl.GetAllInitiatives)
		initiatives.GET("/search", ctl.SearchInitiatives)
		initiatives.GET("/:id", ctl.GetInitiative)
		initiatives.PATCH("/:id", ctl.UpdateInitiative)
		initiatives.GET("/:id/transitions", ctl.GetTransitions)

		initiatives.GET("/:id/contacts", ctl.GetContacts)
		initiatives.POST("/:id/contacts", ctl.CreateContact)
		initiatives.PATCH("/:id/contacts/:contactId", ctl.UpdateContact)
		initiatives.DELETE("/:id/contacts/:contactId", ctl.DeleteContact)

		initiatives.GET("/:id/attachments", ctl.GetAttachments)
		initiatives.POST("/:id/attachments", strict, ctl.CreateAttachment)
		initiatives.DELETE("/:id/attachments/:attachmentId", ctl.DeleteAttachment)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path),
			"path":    c.Request.URL.Path,
		})
	})

	return r
}
