package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-records-service/internal/services"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
)

type HandlerManager struct {
	userHandler     *UserHandler
	studentHandler  *StudentHandler
	courseHandler   *CourseHandler
	activityHandler *ActivityHandler
	healthHandler   *HealthHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	checkers map[string]HealthChecker,
) *HandlerManager {
	return &HandlerManager{
		userHandler:     NewUserHandler(serviceManager.User(), logger),
		studentHandler:  NewStudentHandler(serviceManager.Student(), serviceManager.ImportExport(), logger),
		courseHandler:   NewCourseHandler(serviceManager.Course(), logger),
		activityHandler: NewActivityHandler(serviceManager.Activity(), logger),
		healthHandler:   NewHealthHandler(checkers, logger),
	}
}

// SetupRoutes registers every endpoint at the root of router.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthHandler.Health)

	// Users
	router.GET("/users", hm.userHandler.ListUsers)
	router.GET("/users/:user_id", hm.userHandler.GetUser)
	router.POST("/create_users", hm.userHandler.CreateUser)
	router.PUT("/user_update/:user_id", hm.userHandler.UpdateUser)
	router.DELETE("/delete_user/:user_id", hm.userHandler.DeleteUser)

	// Students, mutations take the acting admin in ?user_id=
	router.GET("/students", hm.studentHandler.ListStudents)
	router.GET("/students/export", hm.studentHandler.ExportStudents)
	router.POST("/students/import", hm.studentHandler.ImportStudents)
	router.GET("/students/:student_id", hm.studentHandler.GetStudent)
	router.POST("/create_students", hm.studentHandler.CreateStudents)
	router.PUT("/student_update/", hm.studentHandler.UpdateStudents)
	router.DELETE("/delete_student/", hm.studentHandler.DeleteStudents)

	// Courses
	router.GET("/courses", hm.courseHandler.ListCourses)
	router.GET("/courses/:course_id", hm.courseHandler.GetCourse)
	router.POST("/create_courses", hm.courseHandler.CreateCourses)
	router.PUT("/course_update/:course_id", hm.courseHandler.UpdateCourses)
	router.DELETE("/delete_course/:course_id", hm.courseHandler.DeleteCourse)

	router.GET("/activity_logs", hm.activityHandler.ListActivity)
}
