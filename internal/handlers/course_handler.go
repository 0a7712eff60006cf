package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/services"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	service services.CourseService
}

func NewCourseHandler(service services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListCourses lists courses
// @Summary List courses
// @Tags courses
// @Produce json
// @Param skip query int false "Rows to skip (default: 0)"
// @Param limit query int false "Page size (default: 15, max: 100)"
// @Success 200 {array} models.Course
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	courses, err := h.service.ListCourses(c.Request.Context(), h.parsePagination(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourse returns a course with its enrolled students
// @Summary Get course
// @Tags courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} models.CourseWithStudents
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{course_id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "course_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting course", "course_id", id)

	course, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// CreateCourses creates one course or a batch
// @Summary Create courses
// @Tags courses
// @Accept json
// @Produce json
// @Success 200 {array} models.Course
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Router /create_courses [post]
func (h *CourseHandler) CreateCourses(c *gin.Context) {
	h.LogRequest(c, "Creating courses")

	var payload models.Payload[models.CourseCreateRequest]
	if !h.bindJSON(c, &payload) {
		return
	}

	courses, err := h.service.CreateCourses(c.Request.Context(), payload)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Shape(payload.Batch, courses))
}

// UpdateCourses renames a course, or each course named in a batch
// @Summary Update courses
// @Tags courses
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {array} models.Course
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /course_update/{course_id} [put]
func (h *CourseHandler) UpdateCourses(c *gin.Context) {
	id, ok := h.parseIDParam(c, "course_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Updating courses", "course_id", id)

	var payload models.Payload[models.CourseUpdateRequest]
	if !h.bindJSON(c, &payload) {
		return
	}

	courses, err := h.service.UpdateCourses(c.Request.Context(), id, payload)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Shape(payload.Batch, courses))
}

// DeleteCourse deletes a course and its enrollments
// @Summary Delete course
// @Tags courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} models.DeleteResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /delete_course/{course_id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "course_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	if err := h.service.DeleteCourse(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DeleteResponse{Detail: "Course deleted successfully"})
}
