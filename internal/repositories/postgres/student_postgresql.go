package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories"
)

type StudentPostgreSQL struct {
	baseRepository
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{baseRepository{db: db}}
}

// Create inserts the student and enrollment rows for student.Courses. The
// courses themselves must already exist and are not written.
func (r *StudentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Omit("User", "Courses.*").Create(student).Error; err != nil {
		return handleDBError(err, "create student")
	}
	return nil
}

func (r *StudentPostgreSQL) GetByIDWithCourses(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student
	if err := db.WithContext(ctx).
		Preload("Courses", orderCourses).
		First(&student, id).Error; err != nil {
		return nil, handleDBError(err, "get student with courses")
	}
	return &student, nil
}

// ListWithCourses loads a page of students and their courses in two queries.
func (r *StudentPostgreSQL) ListWithCourses(ctx context.Context, tx *gorm.DB, filters repositories.ListFilters) ([]*models.Student, error) {
	db := r.getDB(tx)
	students := make([]*models.Student, 0)

	query := db.WithContext(ctx).Model(&models.Student{}).Preload("Courses", orderCourses)
	query = applyPagination(query, "students", filters)

	if err := query.Find(&students).Error; err != nil {
		return nil, handleDBError(err, "list students with courses")
	}
	return students, nil
}

func (r *StudentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Omit(clause.Associations).Save(student).Error; err != nil {
		return handleDBError(err, "update student")
	}
	return nil
}

func (r *StudentPostgreSQL) ReplaceCourses(ctx context.Context, tx *gorm.DB, student *models.Student, courses []models.Course) error {
	db := r.getDB(tx).WithContext(ctx)

	if err := db.Where("student_id = ?", student.ID).Delete(&models.StudentCourse{}).Error; err != nil {
		return handleDBError(err, "clear student courses")
	}

	if len(courses) > 0 {
		rows := make([]models.StudentCourse, 0, len(courses))
		for _, c := range courses {
			rows = append(rows, models.StudentCourse{StudentID: student.ID, CourseID: c.ID})
		}
		if err := db.Create(&rows).Error; err != nil {
			return handleDBError(err, "attach student courses")
		}
	}

	student.Courses = courses
	return nil
}

func (r *StudentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx).WithContext(ctx)

	if err := db.Where("student_id = ?", id).Delete(&models.StudentCourse{}).Error; err != nil {
		return handleDBError(err, "detach student courses")
	}

	result := db.Delete(&models.Student{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete student")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete student")
	}
	return nil
}

func (r *StudentPostgreSQL) CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	db := r.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Student{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count students by user")
	}
	return count, nil
}

