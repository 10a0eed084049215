package handler

import (
	"context"
	"sort"
	"time"

	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]HealthCheck
	version string
	started time.Time
}

func NewHealthHandler(version string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, version: version, started: time.Now()}
}

// Health answers 200 when every dependency responds and 503 otherwise, with
// per-dependency status and host CPU and memory usage either way.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	healthy := true
	deps := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			healthy = false
			deps[name] = "down"
			utils.Logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
			continue
		}
		deps[name] = "up"
	}

	body := gin.H{
		"status":       "ok",
		"version":      h.version,
		"uptime":       time.Since(h.started).Round(time.Second).String(),
		"dependencies": deps,
		"system":       utils.GetSystemUsage(ctx),
	}
	if !healthy {
		body["status"] = "degraded"
		utils.ServiceUnavailable(c, "One or more dependencies are unavailable", body)
		return
	}
	utils.Success(c, body)
}
