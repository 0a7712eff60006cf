package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// ValidRoles lists every role a user may hold.
var ValidRoles = []UserRole{RoleAdmin, RoleUser}

func (r UserRole) IsValid() bool {
	for _, role := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Name     string   `json:"name" gorm:"not null;size:100"`
	Login    string   `json:"login" gorm:"not null;size:100"`
	Password string   `json:"-" gorm:"not null;size:100"` // bcrypt hash
	Phone    string   `json:"phone" gorm:"not null;size:100"`
	Role     UserRole `json:"role" gorm:"size:100;default:user"`

	Students []Student `json:"students,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user may perform admin-only student mutations.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
