package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is the todo store as seen by the health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusCheck probes an optional dependency. A non-nil error marks the
// service unready; otherwise the returned string is reported as is.
type StatusCheck func(ctx context.Context) (string, error)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store     Pinger
	storage   string
	extra     map[string]StatusCheck
	startTime time.Time
	version   string
}

// NewHealthHandler reports the store under its driver name plus every extra
// check under its key.
func NewHealthHandler(store Pinger, storage, version string, extra map[string]StatusCheck) *HealthHandler {
	return &HealthHandler{
		store:     store,
		storage:   storage,
		extra:     extra,
		startTime: time.Now(),
		version:   version,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness only says the process answers.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness runs every check and answers 503 when any fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{h.storage: "healthy"}
	ready := true
	if err := h.store.Ping(ctx); err != nil {
		checks[h.storage] = "unhealthy: " + err.Error()
		ready = false
	}
	for name, check := range h.extra {
		status, err := check(ctx)
		if err != nil {
			checks[name] = "unhealthy: " + err.Error()
			ready = false
			continue
		}
		checks[name] = status
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = fmt.Sprintf("%.2f", float64(m.Alloc)/1024/1024)

	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	code := http.StatusOK
	if !ready {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// Health checks the store only, for load balancers.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  h.storage + " unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
