// Package httpapi exposes the planner over a JSON HTTP API.
package httpapi

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/studyplan/internal/logger"
)

type RouterConfig struct {
	Handler      *Handler
	Log          *logger.Logger
	AllowOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(cfg.Log))

	router.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	router.GET("/healthcheck", HealthCheck)

	h := cfg.Handler
	api := router.Group("/api")
	{
		api.GET("/session", h.GetSession)
		api.POST("/subjects", h.AddSubject)
		api.PUT("/subjects/:id", h.UpdateSubject)
		api.DELETE("/subjects/:id", h.RemoveSubject)
		api.PUT("/profile", h.SetProfile)
		api.PUT("/materials", h.SetMaterials)
		api.POST("/import", h.Import)
		// Plan
		api.POST("/plan/generate", h.Generate)
		api.POST("/plan/days/:day/tasks/:task/toggle", h.ToggleTask)
		api.POST("/plan/rebalance", h.Rebalance)
		api.GET("/coach", h.Coach)
	}

	return router
}

// corsConfig allows every origin when origins is empty or contains "*".
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// requestLogger logs one line per request at debug level, or at warn for
// server errors.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if status >= 500 {
			log.Warn("http request", kv...)
			return
		}
		log.Debug("http request", kv...)
	}
}
