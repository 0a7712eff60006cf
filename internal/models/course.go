package models

import "time"

type Course struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"not null;size:255"`

	Students []Student `json:"students,omitempty" gorm:"many2many:student_course;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

// StudentCourse is the enrollment join row. It carries no attributes of its own.
type StudentCourse struct {
	StudentID uint `gorm:"primaryKey"`
	CourseID  uint `gorm:"primaryKey"`
}

func (StudentCourse) TableName() string {
	return "student_course"
}

// CourseWithStudents is a course together with its enrolled students. The
// students field is always present, empty when nobody is enrolled.
type CourseWithStudents struct {
	Course
	Students []Student `json:"students"`
}

func NewCourseWithStudents(course *Course) *CourseWithStudents {
	students := course.Students
	if students == nil {
		students = []Student{}
	}
	for i := range students {
		students[i].Normalize()
	}
	return &CourseWithStudents{Course: *course, Students: students}
}
