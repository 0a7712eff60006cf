package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-records-service/internal/cache"
	"github.com/SAP-F-2025/school-records-service/internal/events"
	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
)

type userService struct {
	serviceBase
}

func NewUserService(deps Dependencies) UserService {
	return &userService{serviceBase: newServiceBase(deps, "user")}
}

func (s *userService) ListUsers(ctx context.Context, page models.Pagination) ([]*models.User, error) {
	filters := s.page(page)

	var users []*models.User
	err := s.cache.User.CacheOrExecute(ctx, cache.ListKey(filters.Offset, filters.Limit), &users, s.cache.TTL, func() (interface{}, error) {
		return s.repo.User().List(ctx, nil, filters)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.cache.User.CacheOrExecute(ctx, cache.IDKey(id), &user, s.cache.TTL, func() (interface{}, error) {
		return s.repo.User().GetByID(ctx, nil, id)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	s.log(ctx).Info("Creating user", "login", req.Login, "role", req.Role)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	hashed, err := utils.HashPasswordWithCost(req.Password, s.settings.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:     req.Name,
		Login:    req.Login,
		Password: hashed,
		Phone:    req.Phone,
		Role:     role,
	}

	var evt *events.Event
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.User().Create(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		evt, err = s.recordActivity(ctx, tx, events.UserCreated, models.EntityUser, models.ActionCreated, user.ID, nil, user)
		return err
	})
	if err != nil {
		s.log(ctx).Error("Failed to create user", "login", req.Login, "error", err)
		return nil, err
	}

	cache.InvalidateUserCache(ctx, s.cache)
	s.publish(ctx, []*events.Event{evt})

	s.log(ctx).Info("User created successfully", "user_id", user.ID)
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, req *UpdateUserRequest, currentPassword string) (*models.User, error) {
	s.log(ctx).Info("Updating user", "user_id", id)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var (
		user *models.User
		evt  *events.Event
	)
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = s.repo.User().GetByID(ctx, tx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if !user.IsAdmin() {
			if currentPassword == "" {
				return ErrPasswordRequired
			}
			if !utils.CheckPassword(user.Password, currentPassword) {
				return ErrPasswordMismatch
			}
		}

		user.Name = req.Name
		user.Login = req.Login
		user.Phone = req.Phone
		user.Role = req.Role
		if req.Password != nil {
			hashed, err := utils.HashPasswordWithCost(*req.Password, s.settings.PasswordHashCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.Password = hashed
		}

		if err := s.repo.User().Update(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		evt, err = s.recordActivity(ctx, tx, events.UserUpdated, models.EntityUser, models.ActionUpdated, user.ID, nil, user)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrPasswordRequired) && !errors.Is(err, ErrPasswordMismatch) {
			s.log(ctx).Error("Failed to update user", "user_id", id, "error", err)
		}
		return nil, err
	}

	cache.InvalidateUserCache(ctx, s.cache, id)
	s.publish(ctx, []*events.Event{evt})

	s.log(ctx).Info("User updated successfully", "user_id", id)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	s.log(ctx).Info("Deleting user", "user_id", id)

	var evt *events.Event
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		exists, err := s.repo.User().ExistsByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return ErrUserNotFound
		}

		owned, err := s.repo.Student().CountByUser(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to count students of user: %w", err)
		}
		if owned > 0 {
			return fmt.Errorf("user %d owns %d students: %w", id, owned, ErrUserHasStudents)
		}

		if err := s.repo.User().Delete(ctx, tx, id); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to delete user: %w", err)
		}

		evt, err = s.recordActivity(ctx, tx, events.UserDeleted, models.EntityUser, models.ActionDeleted, id, nil, map[string]uint{"id": id})
		return err
	})
	if err != nil {
		return err
	}

	cache.InvalidateUserCache(ctx, s.cache, id)
	s.publish(ctx, []*events.Event{evt})

	s.log(ctx).Info("User deleted successfully", "user_id", id)
	return nil
}
