package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories"
)

// baseRepository carries the connection shared by every gorm repository.
type baseRepository struct {
	db *gorm.DB
}

// getDB returns tx when the call is part of a transaction.
func (b *baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return b.db
}

// handleDBError maps missing rows to repositories.ErrNotFound and wraps the rest.
func handleDBError(err error, operation string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// applyPagination orders by primary key and applies offset and limit.
func applyPagination(query *gorm.DB, table string, filters repositories.ListFilters) *gorm.DB {
	query = query.Order(table + ".id ASC")

	limit := filters.Limit
	if limit <= 0 {
		limit = models.DefaultPageLimit
	}
	query = query.Limit(limit)

	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

// orderCourses keeps preloaded course sets in a stable order.
func orderCourses(db *gorm.DB) *gorm.DB {
	return db.Order("courses.id ASC")
}

// orderStudents keeps preloaded student sets in a stable order.
func orderStudents(db *gorm.DB) *gorm.DB {
	return db.Order("students.id ASC")
}
