package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/services"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
)

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the logger shared by every handler.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	args = append(args, "method", c.Request.Method, "path", c.FullPath())
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "path", c.FullPath())
	utils.GetLogger(c, h.logger).Error(msg, args...)
}

// ===== PARAMETER PARSING =====

// parseIDParam reads a positive id from the path. On failure it writes a 400
// response and returns false.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID must be a valid number",
		})
		return 0, false
	}
	return uint(id), true
}

// parseActorID reads the acting user from the user_id query parameter.
func (h *BaseHandler) parseActorID(c *gin.Context) (uint, bool) {
	raw := c.Query("user_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid user_id",
			Details: "user_id query parameter must identify the acting user",
		})
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads skip and limit. Unparsable values fall back to defaults.
func (h *BaseHandler) parsePagination(c *gin.Context) models.Pagination {
	page := models.Pagination{Skip: 0, Limit: models.DefaultPageLimit}

	if skip, err := strconv.Atoi(c.Query("skip")); err == nil && skip >= 0 {
		page.Skip = skip
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		page.Limit = limit
	}
	return page
}

// bindJSON decodes the body into dest and writes a 400 response on failure.
func (h *BaseHandler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		details := err.Error()
		if errors.Is(err, models.ErrEmptyPayload) {
			details = "request body must be a JSON object or array"
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: details,
		})
		return false
	}
	return true
}

// ===== ERROR HANDLING =====

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrCoursesNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrPasswordRequired),
		errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrUserHasStudents):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "User still owns students",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidImport):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid import file",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
