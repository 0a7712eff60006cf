package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/school-records-service/internal/models"
)

// ===== REQUEST DTOs =====

type CreateUserRequest = models.UserCreateRequest
type UpdateUserRequest = models.UserUpdateRequest

type CreateStudentRequest = models.StudentCreateRequest
type UpdateStudentRequest = models.StudentUpdateRequest
type DeleteStudentRequest = models.StudentDeleteRequest

type CreateCourseRequest = models.CourseCreateRequest
type UpdateCourseRequest = models.CourseUpdateRequest

// ===== SERVICE INTERFACES =====

type UserService interface {
	ListUsers(ctx context.Context, page models.Pagination) ([]*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)

	// UpdateUser replaces the profile of user id. A non-admin target must be
	// confirmed with its current password.
	UpdateUser(ctx context.Context, id uint, req *UpdateUserRequest, currentPassword string) (*models.User, error)

	DeleteUser(ctx context.Context, id uint) error
}

// StudentService mutations are authorized by an admin actor and run each
// payload, single or batch, in one transaction.
type StudentService interface {
	ListStudents(ctx context.Context, page models.Pagination) ([]*models.Student, error)
	GetStudent(ctx context.Context, id uint) (*models.Student, error)
	CreateStudents(ctx context.Context, actorID uint, payload models.Payload[CreateStudentRequest]) ([]*models.Student, error)
	UpdateStudents(ctx context.Context, actorID uint, payload models.Payload[UpdateStudentRequest]) ([]*models.Student, error)
	DeleteStudents(ctx context.Context, actorID uint, payload models.Payload[DeleteStudentRequest]) ([]models.DeleteResponse, error)
}

type CourseService interface {
	ListCourses(ctx context.Context, page models.Pagination) ([]*models.Course, error)
	GetCourse(ctx context.Context, id uint) (*models.CourseWithStudents, error)
	CreateCourses(ctx context.Context, payload models.Payload[CreateCourseRequest]) ([]*models.Course, error)

	// UpdateCourses applies payload to courseID. Batch items that carry their
	// own id update that course instead.
	UpdateCourses(ctx context.Context, courseID uint, payload models.Payload[UpdateCourseRequest]) ([]*models.Course, error)

	DeleteCourse(ctx context.Context, id uint) error
}

// ImportExportService moves the student roster in and out of xlsx workbooks.
type ImportExportService interface {
	ExportStudents(ctx context.Context, w io.Writer) error
	ImportStudents(ctx context.Context, actorID uint, r io.Reader) ([]*models.Student, error)
}

type ActivityService interface {
	ListActivity(ctx context.Context, page models.Pagination, entity *models.ActivityEntity) ([]*models.ActivityLog, error)
}

// ServiceManager manages all services and their lifecycle
type ServiceManager interface {
	User() UserService
	Student() StudentService
	Course() CourseService
	ImportExport() ImportExportService
	Activity() ActivityService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
