package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-records-service/internal/models"
)

// ListFilters is offset pagination shared by every list query.
type ListFilters struct {
	Offset int
	Limit  int
}

// StudentRepository manages students and their course enrollments.
type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByIDWithCourses(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	ListWithCourses(ctx context.Context, tx *gorm.DB, filters ListFilters) ([]*models.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error

	// ReplaceCourses makes courses the exact enrollment set of the student.
	ReplaceCourses(ctx context.Context, tx *gorm.DB, student *models.Student, courses []models.Course) error

	// Delete removes the student and its enrollment rows.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
}

// CourseRepository manages courses.
type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	GetByIDWithStudents(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)

	// GetByIDs returns the courses that exist among ids, ordered by id.
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.Course, error)

	List(ctx context.Context, tx *gorm.DB, filters ListFilters) ([]*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error

	// Delete removes the course and every enrollment row that references it.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

// ActivityFilters narrows the audit trail listing.
type ActivityFilters struct {
	ListFilters
	Entity *models.ActivityEntity
}

// ActivityLogRepository stores the audit trail of mutations.
type ActivityLogRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error
	List(ctx context.Context, tx *gorm.DB, filters ActivityFilters) ([]*models.ActivityLog, error)
}
