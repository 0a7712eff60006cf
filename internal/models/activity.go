package models

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityEntity string

const (
	EntityUser    ActivityEntity = "user"
	EntityStudent ActivityEntity = "student"
	EntityCourse  ActivityEntity = "course"
)

func (e ActivityEntity) IsValid() bool {
	switch e {
	case EntityUser, EntityStudent, EntityCourse:
		return true
	}
	return false
}

type ActivityAction string

const (
	ActionCreated ActivityAction = "created"
	ActionUpdated ActivityAction = "updated"
	ActionDeleted ActivityAction = "deleted"
)

// ActivityLog records one committed mutation. It is written in the same
// transaction as the change it describes.
type ActivityLog struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	Entity   ActivityEntity `json:"entity" gorm:"not null;size:50;index"`
	EntityID uint           `json:"entity_id" gorm:"not null;index"`
	Action   ActivityAction `json:"action" gorm:"not null;size:50"`
	ActorID  *uint          `json:"actor_id,omitempty"`
	Payload  datatypes.JSON `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// AllModels returns every model managed by AutoMigrate, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Student{},
		&ActivityLog{},
	}
}
