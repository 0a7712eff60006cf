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

type studentService struct {
	serviceBase
}

func NewStudentService(deps Dependencies) StudentService {
	return &studentService{serviceBase: newServiceBase(deps, "student")}
}

// ===== READS =====

func (s *studentService) ListStudents(ctx context.Context, page models.Pagination) ([]*models.Student, error) {
	filters := s.page(page)

	var students []*models.Student
	err := s.cache.Student.CacheOrExecute(ctx, cache.ListKey(filters.Offset, filters.Limit), &students, s.cache.TTL, func() (interface{}, error) {
		list, err := s.repo.Student().ListWithCourses(ctx, nil, filters)
		if err != nil {
			return nil, err
		}
		for _, st := range list {
			st.Normalize()
		}
		return list, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	if students == nil {
		students = []*models.Student{}
	}
	return students, nil
}

func (s *studentService) GetStudent(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := s.cache.Student.CacheOrExecute(ctx, cache.IDKey(id), &student, s.cache.TTL, func() (interface{}, error) {
		st, err := s.repo.Student().GetByIDWithCourses(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		return st.Normalize(), nil
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student.Normalize(), nil
}

// ===== MUTATIONS =====

func (s *studentService) CreateStudents(ctx context.Context, actorID uint, payload models.Payload[CreateStudentRequest]) ([]*models.Student, error) {
	s.log(ctx).Info("Creating students", "actor_id", actorID, "count", len(payload.Items), "batch", payload.Batch)

	if err := validateBatch(&s.serviceBase, payload); err != nil {
		return nil, err
	}

	created := make([]*models.Student, 0, len(payload.Items))
	var evts []*events.Event

	err := s.withTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.requireAdmin(ctx, tx, actorID, "create"); err != nil {
			return err
		}

		for i := range payload.Items {
			student, evt, err := s.createOne(ctx, tx, actorID, &payload.Items[i])
			if err != nil {
				return err
			}
			created = append(created, student)
			evts = append(evts, evt)
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Warn("Student creation rolled back", "actor_id", actorID, "error", err)
		return nil, err
	}

	cache.InvalidateEnrollmentCache(ctx, s.cache)
	s.publish(ctx, evts)

	s.log(ctx).Info("Students created successfully", "actor_id", actorID, "count", len(created))
	return created, nil
}

func (s *studentService) createOne(ctx context.Context, tx *gorm.DB, actorID uint, req *CreateStudentRequest) (*models.Student, *events.Event, error) {
	exists, err := s.repo.User().ExistsByID(ctx, tx, req.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, nil, fmt.Errorf("user %d: %w", req.UserID, ErrUserNotFound)
	}

	courses, err := s.resolveCourses(ctx, tx, req.CourseIDs)
	if err != nil {
		return nil, nil, err
	}

	student := &models.Student{
		Name:    req.Name,
		Lab:     req.Lab,
		UserID:  req.UserID,
		Courses: courses,
	}
	if err := s.repo.Student().Create(ctx, tx, student); err != nil {
		return nil, nil, fmt.Errorf("failed to create student: %w", err)
	}
	student.Normalize()

	evt, err := s.recordActivity(ctx, tx, events.StudentCreated, models.EntityStudent, models.ActionCreated, student.ID, actorRef(actorID), student)
	if err != nil {
		return nil, nil, err
	}
	return student, evt, nil
}

func (s *studentService) UpdateStudents(ctx context.Context, actorID uint, payload models.Payload[UpdateStudentRequest]) ([]*models.Student, error) {
	s.log(ctx).Info("Updating students", "actor_id", actorID, "count", len(payload.Items), "batch", payload.Batch)

	if err := validateBatch(&s.serviceBase, payload); err != nil {
		return nil, err
	}

	updated := make([]*models.Student, 0, len(payload.Items))
	var evts []*events.Event

	err := s.withTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.requireAdmin(ctx, tx, actorID, "update"); err != nil {
			return err
		}

		for i := range payload.Items {
			student, evt, err := s.updateOne(ctx, tx, actorID, &payload.Items[i])
			if err != nil {
				return err
			}
			updated = append(updated, student)
			evts = append(evts, evt)
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Warn("Student update rolled back", "actor_id", actorID, "error", err)
		return nil, err
	}

	cache.InvalidateEnrollmentCache(ctx, s.cache)
	s.publish(ctx, evts)

	s.log(ctx).Info("Students updated successfully", "actor_id", actorID, "count", len(updated))
	return updated, nil
}

func (s *studentService) updateOne(ctx context.Context, tx *gorm.DB, actorID uint, req *UpdateStudentRequest) (*models.Student, *events.Event, error) {
	student, err := s.repo.Student().GetByIDWithCourses(ctx, tx, req.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, fmt.Errorf("student %d: %w", req.ID, ErrStudentNotFound)
		}
		return nil, nil, fmt.Errorf("failed to get student: %w", err)
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Lab != nil {
		student.Lab = *req.Lab
	}

	if err := s.repo.Student().Update(ctx, tx, student); err != nil {
		return nil, nil, fmt.Errorf("failed to update student: %w", err)
	}

	// A present course list, even an empty one, replaces the enrollment set.
	if req.CourseIDs != nil {
		courses, err := s.resolveCourses(ctx, tx, req.CourseIDs)
		if err != nil {
			return nil, nil, err
		}
		if err := s.repo.Student().ReplaceCourses(ctx, tx, student, courses); err != nil {
			return nil, nil, fmt.Errorf("failed to replace courses: %w", err)
		}
	}
	student.Normalize()

	evt, err := s.recordActivity(ctx, tx, events.StudentUpdated, models.EntityStudent, models.ActionUpdated, student.ID, actorRef(actorID), student)
	if err != nil {
		return nil, nil, err
	}
	return student, evt, nil
}

func (s *studentService) DeleteStudents(ctx context.Context, actorID uint, payload models.Payload[DeleteStudentRequest]) ([]models.DeleteResponse, error) {
	s.log(ctx).Info("Deleting students", "actor_id", actorID, "count", len(payload.Items), "batch", payload.Batch)

	if err := validateBatch(&s.serviceBase, payload); err != nil {
		return nil, err
	}
	if errs := s.validator.GetBusinessValidator().ValidateStudentDeletes(payload.Items); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %w", errs)
	}

	results := make([]models.DeleteResponse, 0, len(payload.Items))
	var evts []*events.Event

	err := s.withTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.requireAdmin(ctx, tx, actorID, "delete"); err != nil {
			return err
		}

		for _, req := range payload.Items {
			if err := s.repo.Student().Delete(ctx, tx, req.ID); err != nil {
				if repositories.IsNotFoundError(err) {
					return fmt.Errorf("student %d: %w", req.ID, ErrStudentNotFound)
				}
				return fmt.Errorf("failed to delete student: %w", err)
			}

			evt, err := s.recordActivity(ctx, tx, events.StudentDeleted, models.EntityStudent, models.ActionDeleted, req.ID, actorRef(actorID), req)
			if err != nil {
				return err
			}
			evts = append(evts, evt)
			results = append(results, models.DeleteResponse{
				Detail: fmt.Sprintf("student with ID %d deleted successfully", req.ID),
			})
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Warn("Student deletion rolled back", "actor_id", actorID, "error", err)
		return nil, err
	}

	cache.InvalidateEnrollmentCache(ctx, s.cache)
	s.publish(ctx, evts)

	s.log(ctx).Info("Students deleted successfully", "actor_id", actorID, "count", len(results))
	return results, nil
}

// resolveCourses loads every requested course or fails when any is missing.
func (s *studentService) resolveCourses(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.Course, error) {
	if len(ids) == 0 {
		return []models.Course{}, nil
	}

	courses, err := s.repo.Course().GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	if len(courses) != len(ids) {
		return nil, fmt.Errorf("requested %d courses, found %d: %w", len(ids), len(courses), ErrCoursesNotFound)
	}
	return courses, nil
}
