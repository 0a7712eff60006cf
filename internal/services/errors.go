package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/school-records-service/internal/validator"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrCoursesNotFound  = errors.New("some courses not found")
	ErrUserHasStudents  = errors.New("user still owns students")
	ErrPasswordRequired = errors.New("user is not admin and password is empty")
	ErrPasswordMismatch = errors.New("the password did not match")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidImport    = errors.New("invalid import file")
)

type (
	ValidationError  = validator.ValidationError
	ValidationErrors = validator.ValidationErrors
)

// PermissionError reports an actor that may not perform an action.
type PermissionError struct {
	ActorID  uint
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(actorID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		ActorID:  actorID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s: %s", e.ActorID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}
