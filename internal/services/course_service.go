package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-records-service/internal/cache"
	"github.com/SAP-F-2025/school-records-service/internal/events"
	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories"
)

type courseService struct {
	serviceBase
}

func NewCourseService(deps Dependencies) CourseService {
	return &courseService{serviceBase: newServiceBase(deps, "course")}
}

func (s *courseService) ListCourses(ctx context.Context, page models.Pagination) ([]*models.Course, error) {
	filters := s.page(page)

	var courses []*models.Course
	err := s.cache.Course.CacheOrExecute(ctx, cache.ListKey(filters.Offset, filters.Limit), &courses, s.cache.TTL, func() (interface{}, error) {
		return s.repo.Course().List(ctx, nil, filters)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	if courses == nil {
		courses = []*models.Course{}
	}
	return courses, nil
}

func (s *courseService) GetCourse(ctx context.Context, id uint) (*models.CourseWithStudents, error) {
	var course models.CourseWithStudents
	err := s.cache.Course.CacheOrExecute(ctx, cache.IDKey(id), &course, s.cache.TTL, func() (interface{}, error) {
		c, err := s.repo.Course().GetByIDWithStudents(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		return models.NewCourseWithStudents(c), nil
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

func (s *courseService) CreateCourses(ctx context.Context, payload models.Payload[CreateCourseRequest]) ([]*models.Course, error) {
	s.log(ctx).Info("Creating courses", "count", len(payload.Items), "batch", payload.Batch)

	if err := validateBatch(&s.serviceBase, payload); err != nil {
		return nil, err
	}

	created := make([]*models.Course, 0, len(payload.Items))
	var evts []*events.Event

	err := s.withTx(ctx, func(tx *gorm.DB) error {
		for _, req := range payload.Items {
			course := &models.Course{Title: req.Title}
			if err := s.repo.Course().Create(ctx, tx, course); err != nil {
				return fmt.Errorf("failed to create course: %w", err)
			}

			evt, err := s.recordActivity(ctx, tx, events.CourseCreated, models.EntityCourse, models.ActionCreated, course.ID, nil, course)
			if err != nil {
				return err
			}
			created = append(created, course)
			evts = append(evts, evt)
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Error("Failed to create courses", "error", err)
		return nil, err
	}

	cache.SafeInvalidatePattern(ctx, s.cache.Course, "*")
	s.publish(ctx, evts)

	s.log(ctx).Info("Courses created successfully", "count", len(created))
	return created, nil
}

func (s *courseService) UpdateCourses(ctx context.Context, courseID uint, payload models.Payload[UpdateCourseRequest]) ([]*models.Course, error) {
	s.log(ctx).Info("Updating courses", "course_id", courseID, "count", len(payload.Items), "batch", payload.Batch)

	if err := validateBatch(&s.serviceBase, payload); err != nil {
		return nil, err
	}

	updated := make([]*models.Course, 0, len(payload.Items))
	var evts []*events.Event

	err := s.withTx(ctx, func(tx *gorm.DB) error {
		for _, req := range payload.Items {
			target := courseID
			if payload.Batch && req.ID != nil {
				target = *req.ID
			}

			course, err := s.repo.Course().GetByID(ctx, tx, target)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					return fmt.Errorf("course %d: %w", target, ErrCourseNotFound)
				}
				return fmt.Errorf("failed to get course: %w", err)
			}

			if req.Title != nil {
				course.Title = *req.Title
			}
			if err := s.repo.Course().Update(ctx, tx, course); err != nil {
				return fmt.Errorf("failed to update course: %w", err)
			}

			evt, err := s.recordActivity(ctx, tx, events.CourseUpdated, models.EntityCourse, models.ActionUpdated, course.ID, nil, course)
			if err != nil {
				return err
			}
			updated = append(updated, course)
			evts = append(evts, evt)
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Warn("Course update rolled back", "course_id", courseID, "error", err)
		return nil, err
	}

	// Titles are embedded in cached students.
	cache.InvalidateEnrollmentCache(ctx, s.cache)
	s.publish(ctx, evts)

	s.log(ctx).Info("Courses updated successfully", "count", len(updated))
	return updated, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id uint) error {
	s.log(ctx).Info("Deleting course", "course_id", id)

	var evt *events.Event
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Course().Delete(ctx, tx, id); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("failed to delete course: %w", err)
		}

		var err error
		evt, err = s.recordActivity(ctx, tx, events.CourseDeleted, models.EntityCourse, models.ActionDeleted, id, nil, map[string]uint{"id": id})
		return err
	})
	if err != nil {
		return err
	}

	cache.InvalidateEnrollmentCache(ctx, s.cache)
	s.publish(ctx, []*events.Event{evt})

	s.log(ctx).Info("Course deleted successfully", "course_id", id)
	return nil
}
