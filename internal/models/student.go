package models

import "time"

// Courses maps each course to its branches.
var Courses = map[string][]string{
	"B.Tech":   {"CSE", "ECE", "EEE", "MECH", "CIVIL"},
	"Diploma":  {"CSE", "ECE", "EEE", "MECH", "CIVIL"},
	"Pharmacy": {"B.Pharmacy"},
	"Degree":   {"B.Sc", "B.Com", "BBA"},
}

// CourseYears is how many years each course runs.
var CourseYears = map[string]int{
	"B.Tech":   4,
	"Diploma":  3,
	"Pharmacy": 4,
	"Degree":   3,
}

// Student is a registered hostel resident. GeneratedPassword is kept only
// until the student sets their own password.
type Student struct {
	ID                string    `gorm:"primaryKey" json:"_id"`
	Name              string    `json:"name"`
	RollNumber        string    `gorm:"uniqueIndex" json:"rollNumber"`
	Course            string    `gorm:"index" json:"course"`
	Year              string    `json:"year"`
	Branch            string    `gorm:"index" json:"branch"`
	RoomNumber        string    `gorm:"index" json:"roomNumber"`
	StudentPhone      string    `json:"studentPhone"`
	ParentPhone       string    `json:"parentPhone"`
	PasswordHash      string    `json:"-"`
	GeneratedPassword string    `json:"-"`
	IsPasswordChanged bool      `gorm:"index" json:"isPasswordChanged"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Ref returns the snapshot stored on complaints.
func (s Student) Ref() StudentRef {
	return StudentRef{ID: s.ID, Name: s.Name, RollNumber: s.RollNumber, Phone: s.StudentPhone}
}

// StudentInput is the body of an add or edit request.
type StudentInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	RollNumber   string `json:"rollNumber" validate:"required,alphanum,max=20"`
	Course       string `json:"course" validate:"required,oneof=B.Tech Diploma Pharmacy Degree"`
	Year         string `json:"year" validate:"required,oneof=1 2 3 4"`
	Branch       string `json:"branch" validate:"required"`
	RoomNumber   string `json:"roomNumber" validate:"required,numeric"`
	StudentPhone string `json:"studentPhone" validate:"required,numeric,len=10"`
	ParentPhone  string `json:"parentPhone" validate:"required,numeric,len=10"`
}

// StudentFilter selects one page of the roster. Empty fields are unset.
type StudentFilter struct {
	Page       int
	Limit      int
	Search     string
	Course     string
	Branch     string
	RoomNumber string
}

// StudentPage is one page of the roster.
type StudentPage struct {
	Students   []Student `json:"students"`
	TotalPages int       `json:"totalPages"`
	Total      int64     `json:"total"`
}

// TempStudent is a student still using the generated password.
type TempStudent struct {
	ID                string    `json:"_id"`
	Name              string    `json:"name"`
	RollNumber        string    `json:"rollNumber"`
	GeneratedPassword string    `json:"generatedPassword"`
	StudentPhone      string    `json:"studentPhone"`
	CreatedAt         time.Time `json:"createdAt"`
}
