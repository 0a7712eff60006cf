package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories"
)

type ActivityLogPostgreSQL struct {
	baseRepository
}

func NewActivityLogPostgreSQL(db *gorm.DB) repositories.ActivityLogRepository {
	return &ActivityLogPostgreSQL{baseRepository{db: db}}
}

func (r *ActivityLogPostgreSQL) Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return handleDBError(err, "create activity log")
	}
	return nil
}

func (r *ActivityLogPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ActivityFilters) ([]*models.ActivityLog, error) {
	db := r.getDB(tx)
	entries := make([]*models.ActivityLog, 0)

	query := db.WithContext(ctx).Model(&models.ActivityLog{})
	if filters.Entity != nil {
		query = query.Where("entity = ?", *filters.Entity)
	}
	query = applyPagination(query, "activity_logs", filters.ListFilters)

	if err := query.Find(&entries).Error; err != nil {
		return nil, handleDBError(err, "list activity logs")
	}
	return entries, nil
}
