package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-records-service/internal/cache"
	"github.com/SAP-F-2025/school-records-service/internal/events"
	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
	"github.com/SAP-F-2025/school-records-service/internal/validator"
)

// Settings are the tunables shared by every service.
type Settings struct {
	DefaultPageLimit int
	MaxPageLimit     int
	BatchMaxItems    int
	PasswordHashCost int
}

func DefaultSettings() Settings {
	return Settings{
		DefaultPageLimit: models.DefaultPageLimit,
		MaxPageLimit:     models.MaxPageLimit,
		BatchMaxItems:    100,
		PasswordHashCost: utils.BcryptCost,
	}
}

// Dependencies are the collaborators injected into every service.
type Dependencies struct {
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator
	Cache     *cache.CacheManager
	Publisher events.EventPublisher
	Settings  Settings
}

type serviceBase struct {
	name      string
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
	publisher events.EventPublisher
	settings  Settings
}

func newServiceBase(deps Dependencies, name string) serviceBase {
	cm := deps.Cache
	if cm == nil {
		cm = cache.NewCacheManager(nil)
	}
	return serviceBase{
		name:      name,
		repo:      deps.Repo,
		logger:    deps.Logger.With("service", name),
		validator: deps.Validator,
		cache:     cm,
		publisher: deps.Publisher,
		settings:  deps.Settings,
	}
}

// log prefers the request-scoped logger carried by ctx.
func (s *serviceBase) log(ctx context.Context) *slog.Logger {
	if l := utils.FromContext(ctx, nil); l != nil {
		return l.Slog().With("service", s.name)
	}
	return s.logger
}

// withTx executes a function within a transaction
func (s *serviceBase) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.repo.WithTransaction(ctx, fn)
}

// page clamps the requested window to the configured bounds.
func (s *serviceBase) page(p models.Pagination) repositories.ListFilters {
	filters := repositories.ListFilters{Offset: p.Skip, Limit: p.Limit}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.Limit <= 0 {
		filters.Limit = s.settings.DefaultPageLimit
	}
	if filters.Limit <= 0 {
		filters.Limit = models.DefaultPageLimit
	}
	if s.settings.MaxPageLimit > 0 && filters.Limit > s.settings.MaxPageLimit {
		filters.Limit = s.settings.MaxPageLimit
	}
	return filters
}

// validateBatch returns a ValidationErrors error, or nil when every item is valid.
func validateBatch[T any](s *serviceBase, payload models.Payload[T]) error {
	errs := validator.ValidateBatch(s.validator.GetBusinessValidator(), payload.Items, payload.Batch, s.settings.BatchMaxItems)
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errs)
	}
	return nil
}

// requireAdmin loads the actor inside tx and checks it may perform action.
func (s *serviceBase) requireAdmin(ctx context.Context, tx *gorm.DB, actorID uint, action string) (*models.User, error) {
	actor, err := s.repo.User().GetByID(ctx, tx, actorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("actor %d: %w", actorID, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}

	if !actor.IsAdmin() {
		return nil, NewPermissionError(actorID, "student", action, "only admin can "+action+" students")
	}
	return actor, nil
}

// recordActivity writes an audit row in tx and returns the matching event,
// to be published once tx commits.
func (s *serviceBase) recordActivity(ctx context.Context, tx *gorm.DB, eventType events.EventType, entity models.ActivityEntity, action models.ActivityAction, entityID uint, actorID *uint, data interface{}) (*events.Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode activity payload: %w", err)
	}

	entry := &models.ActivityLog{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		ActorID:  actorID,
		Payload:  datatypes.JSON(payload),
	}
	if err := s.repo.ActivityLog().Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}

	return events.NewEvent(eventType, entityID, actorID, data)
}

// publish sends committed events. Delivery failures are logged and do not
// fail the request.
func (s *serviceBase) publish(ctx context.Context, evts []*events.Event) {
	if s.publisher == nil || len(evts) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, evts...); err != nil {
		s.log(ctx).Warn("Failed to publish events", "error", err, "count", len(evts))
	}
}

func actorRef(id uint) *uint {
	return &id
}
