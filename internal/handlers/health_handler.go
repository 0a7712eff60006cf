package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
)

const serviceName = "school-records-service"

// HealthChecker reports whether one dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	BaseHandler
	checkers map[string]HealthChecker
	timeout  time.Duration
}

func NewHealthHandler(checkers map[string]HealthChecker, logger utils.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: NewBaseHandler(logger),
		checkers:    checkers,
		timeout:     3 * time.Second,
	}
}

// Health reports the status of every registered dependency
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := models.HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Checks:  make(map[string]string, len(h.checkers)),
	}
	status := http.StatusOK

	for name, checker := range h.checkers {
		if err := checker.HealthCheck(ctx); err != nil {
			h.LogError(c, err, "Health check failed", "check", name)
			resp.Checks[name] = err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}
