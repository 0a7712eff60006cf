package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/services"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	service services.UserService
}

func NewUserHandler(service services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListUsers lists users
// @Summary List users
// @Tags users
// @Produce json
// @Param skip query int false "Rows to skip (default: 0)"
// @Param limit query int false "Page size (default: 15, max: 100)"
// @Success 200 {array} models.User
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	users, err := h.service.ListUsers(c.Request.Context(), h.parsePagination(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser returns one user
// @Summary Get user
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /users/{user_id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseIDParam(c, "user_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting user", "user_id", id)

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// CreateUser creates a user
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserCreateRequest true "User data"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /create_users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	h.LogRequest(c, "Creating user")

	var req models.UserCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// UpdateUser replaces a user's profile
// @Summary Update user
// @Description A non-admin user must confirm the update with its current password.
// @Tags users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param password query string false "Current password of the user"
// @Param user body models.UserUpdateRequest true "User data"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Failure 403 {object} ErrorResponse "Password missing or wrong"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /user_update/{user_id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseIDParam(c, "user_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Updating user", "user_id", id)

	var req models.UserUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, &req, c.Query("password"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser deletes a user
// @Summary Delete user
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.DeleteResponse
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 409 {object} ErrorResponse "User still owns students"
// @Router /delete_user/{user_id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseIDParam(c, "user_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting user", "user_id", id)

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DeleteResponse{Detail: "User deleted successfully"})
}
