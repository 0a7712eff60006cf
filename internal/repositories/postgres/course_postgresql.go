package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories"
)

type CoursePostgreSQL struct {
	baseRepository
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{baseRepository{db: db}}
}

func (r *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(course).Error; err != nil {
		return handleDBError(err, "create course")
	}
	return nil
}

func (r *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := r.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, handleDBError(err, "get course by id")
	}
	return &course, nil
}

func (r *CoursePostgreSQL) GetByIDWithStudents(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := r.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).
		Preload("Students", orderStudents).
		First(&course, id).Error; err != nil {
		return nil, handleDBError(err, "get course with students")
	}
	return &course, nil
}

func (r *CoursePostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.Course, error) {
	courses := make([]models.Course, 0, len(ids))
	if len(ids) == 0 {
		return courses, nil
	}

	db := r.getDB(tx)
	if err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&courses).Error; err != nil {
		return nil, handleDBError(err, "get courses by ids")
	}
	return courses, nil
}

func (r *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ListFilters) ([]*models.Course, error) {
	db := r.getDB(tx)
	courses := make([]*models.Course, 0)

	query := applyPagination(db.WithContext(ctx).Model(&models.Course{}), "courses", filters)
	if err := query.Find(&courses).Error; err != nil {
		return nil, handleDBError(err, "list courses")
	}
	return courses, nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Omit(clause.Associations).Save(course).Error; err != nil {
		return handleDBError(err, "update course")
	}
	return nil
}

func (r *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx).WithContext(ctx)

	if err := db.Where("course_id = ?", id).Delete(&models.StudentCourse{}).Error; err != nil {
		return handleDBError(err, "detach course students")
	}

	result := db.Delete(&models.Course{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete course")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete course")
	}
	return nil
}

