package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ===== USER REQUESTS =====

type UserCreateRequest struct {
	Name     string   `json:"name" validate:"required,min=1,max=100"`
	Login    string   `json:"login" validate:"required,min=1,max=100"`
	Password string   `json:"password" validate:"required,min=1,password_bytes"`
	Phone    string   `json:"phone" validate:"required,min=1,max=100"`
	Role     UserRole `json:"role" validate:"omitempty,user_role"`
}

// UserUpdateRequest replaces every profile field. Password is only changed when present.
type UserUpdateRequest struct {
	Name     string   `json:"name" validate:"required,min=1,max=100"`
	Login    string   `json:"login" validate:"required,min=1,max=100"`
	Password *string  `json:"password" validate:"omitempty,min=1,password_bytes"`
	Phone    string   `json:"phone" validate:"required,min=1,max=100"`
	Role     UserRole `json:"role" validate:"required,user_role"`
}

// ===== STUDENT REQUESTS =====

type StudentCreateRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Lab       string `json:"lab" validate:"required,min=1,max=100"`
	UserID    uint   `json:"user_id" validate:"required"`
	CourseIDs []uint `json:"course_id" validate:"omitempty,unique,dive,required"`
}

// StudentUpdateRequest changes only the fields that are present. A present
// course_id list replaces the whole course set, an empty list clears it.
type StudentUpdateRequest struct {
	ID        uint    `json:"id" validate:"required"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Lab       *string `json:"lab" validate:"omitempty,min=1,max=100"`
	CourseIDs []uint  `json:"course_id" validate:"omitempty,unique,dive,required"`
}

type StudentDeleteRequest struct {
	ID uint `json:"id" validate:"required"`
}

// ===== COURSE REQUESTS =====

type CourseCreateRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// CourseUpdateRequest targets ID when set, otherwise the course named in the path.
type CourseUpdateRequest struct {
	ID    *uint   `json:"id" validate:"omitempty,min=1"`
	Title *string `json:"title" validate:"omitempty,min=1,max=255"`
}

// ===== RESPONSES =====

// DeleteResponse mirrors the {"detail": "..."} body returned by delete endpoints.
type DeleteResponse struct {
	Detail string `json:"detail"`
}

type StudentDeleteResponse struct {
	Detail   string      `json:"detail"`
	Students interface{} `json:"students"`
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

// ===== PAGINATION =====

const (
	DefaultPageLimit = 15
	MaxPageLimit     = 100
)

type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// ===== SINGLE OR BATCH PAYLOADS =====

var ErrEmptyPayload = errors.New("request body is empty")

// Payload carries either one item or a batch of items. A JSON object decodes
// as a single item, a JSON array as a batch.
type Payload[T any] struct {
	Items []T
	Batch bool
}

func Single[T any](item T) Payload[T] {
	return Payload[T]{Items: []T{item}}
}

func Batch[T any](items ...T) Payload[T] {
	return Payload[T]{Items: items, Batch: true}
}

func (p *Payload[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrEmptyPayload
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		p.Items = items
		p.Batch = true
		return nil
	}

	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return err
	}
	p.Items = []T{item}
	p.Batch = false
	return nil
}

func (p Payload[T]) MarshalJSON() ([]byte, error) {
	if !p.Batch && len(p.Items) == 1 {
		return json.Marshal(p.Items[0])
	}
	if p.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.Items)
}

// Shape returns results in the same shape as the request: the lone element for
// a single payload, the whole slice for a batch.
func Shape[R any](batch bool, results []R) interface{} {
	if !batch && len(results) == 1 {
		return results[0]
	}
	if results == nil {
		return []R{}
	}
	return results
}
