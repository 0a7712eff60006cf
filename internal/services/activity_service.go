package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories"
)

type activityService struct {
	serviceBase
}

func NewActivityService(deps Dependencies) ActivityService {
	return &activityService{serviceBase: newServiceBase(deps, "activity")}
}

// ListActivity returns the audit trail oldest first, optionally for one entity type.
func (s *activityService) ListActivity(ctx context.Context, page models.Pagination, entity *models.ActivityEntity) ([]*models.ActivityLog, error) {
	if entity != nil && !entity.IsValid() {
		return nil, fmt.Errorf("validation failed: %w", ValidationErrors{{
			Field:   "entity",
			Message: "must be one of user, student, course",
			Value:   string(*entity),
			Rule:    "oneof",
		}})
	}

	logs, err := s.repo.ActivityLog().List(ctx, nil, repositories.ActivityFilters{
		ListFilters: s.page(page),
		Entity:      entity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return logs, nil
}
