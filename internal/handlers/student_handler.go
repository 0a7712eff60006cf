package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/services"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StudentHandler struct {
	BaseHandler
	service      services.StudentService
	importExport services.ImportExportService
}

func NewStudentHandler(service services.StudentService, importExport services.ImportExportService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:  NewBaseHandler(logger),
		service:      service,
		importExport: importExport,
	}
}

// ListStudents lists students with their courses
// @Summary List students
// @Tags students
// @Produce json
// @Param skip query int false "Rows to skip (default: 0)"
// @Param limit query int false "Page size (default: 15, max: 100)"
// @Success 200 {array} models.Student
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	students, err := h.service.ListStudents(c.Request.Context(), h.parsePagination(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// GetStudent returns one student with its courses
// @Summary Get student
// @Tags students
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/{student_id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := h.parseIDParam(c, "student_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting student", "student_id", id)

	student, err := h.service.GetStudent(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// CreateStudents creates one student or a batch
// @Summary Create students
// @Description Body is a student object or an array of them. The response has the same shape.
// @Tags students
// @Accept json
// @Produce json
// @Param user_id query int true "Acting admin user ID"
// @Success 200 {array} models.Student
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Failure 403 {object} ErrorResponse "Actor is not admin"
// @Failure 404 {object} ErrorResponse "User or course not found"
// @Router /create_students [post]
func (h *StudentHandler) CreateStudents(c *gin.Context) {
	actorID, ok := h.parseActorID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating students", "actor_id", actorID)

	var payload models.Payload[models.StudentCreateRequest]
	if !h.bindJSON(c, &payload) {
		return
	}

	students, err := h.service.CreateStudents(c.Request.Context(), actorID, payload)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Shape(payload.Batch, students))
}

// UpdateStudents updates one student or a batch
// @Summary Update students
// @Description A present course_id list replaces the whole enrollment set.
// @Tags students
// @Accept json
// @Produce json
// @Param user_id query int true "Acting admin user ID"
// @Success 200 {array} models.Student
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Failure 403 {object} ErrorResponse "Actor is not admin"
// @Failure 404 {object} ErrorResponse "Student or course not found"
// @Router /student_update/ [put]
func (h *StudentHandler) UpdateStudents(c *gin.Context) {
	actorID, ok := h.parseActorID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Updating students", "actor_id", actorID)

	var payload models.Payload[models.StudentUpdateRequest]
	if !h.bindJSON(c, &payload) {
		return
	}

	students, err := h.service.UpdateStudents(c.Request.Context(), actorID, payload)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Shape(payload.Batch, students))
}

// DeleteStudents deletes one student or a batch
// @Summary Delete students
// @Tags students
// @Accept json
// @Produce json
// @Param user_id query int true "Acting admin user ID"
// @Success 200 {object} models.StudentDeleteResponse
// @Failure 403 {object} ErrorResponse "Actor is not admin"
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /delete_student/ [delete]
func (h *StudentHandler) DeleteStudents(c *gin.Context) {
	actorID, ok := h.parseActorID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting students", "actor_id", actorID)

	var payload models.Payload[models.StudentDeleteRequest]
	if !h.bindJSON(c, &payload) {
		return
	}

	results, err := h.service.DeleteStudents(c.Request.Context(), actorID, payload)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StudentDeleteResponse{
		Detail:   "Students deleted successfully",
		Students: models.Shape(payload.Batch, results),
	})
}

// ExportStudents downloads the roster as xlsx
// @Summary Export students
// @Tags students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /students/export [get]
func (h *StudentHandler) ExportStudents(c *gin.Context) {
	h.LogRequest(c, "Exporting students")

	var buf bytes.Buffer
	if err := h.importExport.ExportStudents(c.Request.Context(), &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="students.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportStudents creates students from an uploaded xlsx roster
// @Summary Import students
// @Description Header row: Name, Lab, User ID, Course IDs. All rows are created in one batch.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param user_id query int true "Acting admin user ID"
// @Param file formData file true "xlsx workbook"
// @Success 200 {array} models.Student
// @Failure 400 {object} ErrorResponse "Invalid file or rows"
// @Failure 403 {object} ErrorResponse "Actor is not admin"
// @Router /students/import [post]
func (h *StudentHandler) ImportStudents(c *gin.Context) {
	actorID, ok := h.parseActorID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Importing students", "actor_id", actorID)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File is required",
			Details: err.Error(),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.LogError(c, err, "Failed to open uploaded file")
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to read uploaded file",
		})
		return
	}
	defer file.Close()

	students, err := h.importExport.ImportStudents(c.Request.Context(), actorID, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
