package models

import "time"

type Student struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"not null;size:100"`
	Lab    string `json:"lab" gorm:"not null;size:100"`
	UserID uint   `json:"user_id" gorm:"not null;index"`

	User    *User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Courses []Course `json:"courses" gorm:"many2many:student_course;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

// CourseIDs returns the ids of the attached courses in their loaded order.
func (s *Student) CourseIDs() []uint {
	ids := make([]uint, 0, len(s.Courses))
	for _, c := range s.Courses {
		ids = append(ids, c.ID)
	}
	return ids
}

// Normalize makes an unloaded course set serialize as an empty list.
func (s *Student) Normalize() *Student {
	if s.Courses == nil {
		s.Courses = []Course{}
	}
	return s
}
