package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/school-records-service/internal/models"
)

func TestCourseHandler_CreateShapes(t *testing.T) {
	env := newAPIEnv(t, nil)

	course := env.createCourse(t, "Networks")
	assert.Equal(t, "Networks", course.Title)

	w := env.do(t, http.MethodPost, "/create_courses", []gin.H{{"title": "A"}, {"title": "B"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[[]models.Course](t, w), 2)

	w = env.do(t, http.MethodPost, "/create_courses", gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandler_UpdateAndDelete(t *testing.T) {
	env := newAPIEnv(t, nil)
	course := env.createCourse(t, "Old title")

	w := env.do(t, http.MethodPut, fmt.Sprintf("/course_update/%d", course.ID), gin.H{"title": "New title"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "New title", decode[models.Course](t, w).Title)

	w = env.do(t, http.MethodPut, "/course_update/999", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/delete_course/%d", course.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Course deleted successfully", decode[models.DeleteResponse](t, w).Detail)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/courses/%d", course.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrollmentScenarioOverHTTP(t *testing.T) {
	env := newAPIEnv(t, nil)
	admin := env.createUser(t, "admin", models.RoleAdmin)
	owner := env.createUser(t, "owner", models.RoleUser)
	algo := env.createCourse(t, "Algorithms")
	nets := env.createCourse(t, "Networks")
	asAdmin := fmt.Sprintf("?user_id=%d", admin.ID)

	w := env.do(t, http.MethodPost, "/create_students"+asAdmin, gin.H{
		"name": "Ann", "lab": "L1", "user_id": owner.ID, "course_id": []uint{algo.ID, nets.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	student := decode[models.Student](t, w)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/courses/%d", algo.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	withStudents := decode[models.CourseWithStudents](t, w)
	require.Len(t, withStudents.Students, 1)
	assert.Equal(t, student.ID, withStudents.Students[0].ID)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/delete_course/%d", algo.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/students/%d", student.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	remaining := decode[models.Student](t, w)
	assert.Equal(t, []uint{nets.ID}, remaining.CourseIDs())

	w = env.do(t, http.MethodGet, fmt.Sprintf("/courses/%d", nets.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"students":[{`)

	w = env.do(t, http.MethodDelete, "/delete_student/"+asAdmin, gin.H{"id": student.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, fmt.Sprintf("/courses/%d", nets.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"students":[]`)
}
