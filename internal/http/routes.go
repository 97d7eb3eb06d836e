package http

import (
	"time"

	"todo_webapp/internal/config"
	"todo_webapp/internal/http/handlers"
	"todo_webapp/internal/http/middleware"
	"todo_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the health checks, /metrics and the /todos API.
func RegisterRoutes(r *gin.Engine, todos *service.TodoService, cfg *config.Config, version string) {
	healthHandler := handlers.NewHealthHandler(todos, cfg.StorageDriver, version, map[string]handlers.StatusCheck{
		"redis": middleware.RedisStatus,
	})
	todoHandler := handlers.NewTodoHandler(todos)

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/todos")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))
	registerTodoRoutes(api, todoHandler, cfg.WriteRateLimit, apiRateWindow)
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler, writeRateLimit int, window time.Duration) {
	api.GET("", h.List)
	api.GET("/:id", h.Get)

	// writes need a token when JWT_SECRET is set
	writes := api.Group("")
	writes.Use(middleware.JWT(), middleware.MutationRateLimit(writeRateLimit, window))
	{
		writes.POST("", h.Create)
		writes.PUT("/:id", h.Update)
		writes.PUT("/:id/done", h.MarkDone)
		writes.PUT("/:id/not-done", h.MarkNotDone)
		writes.DELETE("/:id", h.Delete)
	}
}
