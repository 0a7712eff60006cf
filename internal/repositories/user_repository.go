package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-records-service/internal/models"
)

// UserRepository interface for user operations
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	List(ctx context.Context, tx *gorm.DB, filters ListFilters) ([]*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}
