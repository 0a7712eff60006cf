package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/services"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
)

type ActivityHandler struct {
	BaseHandler
	service services.ActivityService
}

func NewActivityHandler(service services.ActivityService, logger utils.Logger) *ActivityHandler {
	return &ActivityHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListActivity returns activity entries oldest first
// @Summary List activity log
// @Tags activity
// @Produce json
// @Param entity query string false "Filter by entity (user, student, course)"
// @Param skip query int false "Rows to skip (default: 0)"
// @Param limit query int false "Page size (default: 15, max: 100)"
// @Success 200 {array} models.ActivityLog
// @Failure 400 {object} ErrorResponse "Unknown entity"
// @Router /activity_logs [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	h.LogRequest(c, "Listing activity")

	var entity *models.ActivityEntity
	if raw := c.Query("entity"); raw != "" {
		e := models.ActivityEntity(raw)
		entity = &e
	}

	logs, err := h.service.ListActivity(c.Request.Context(), h.parsePagination(c), entity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}
