package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusReceived   Status = "Received"
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusReceived, StatusPending, StatusInProgress, StatusResolved}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Category is the area a complaint belongs to.
type Category string

const (
	CategoryCanteen     Category = "Canteen"
	CategoryInternet    Category = "Internet"
	CategoryMaintenance Category = "Maintenance"
	CategoryOthers      Category = "Others"
)

var Categories = []Category{CategoryCanteen, CategoryInternet, CategoryMaintenance, CategoryOthers}

// SubCategory narrows a Maintenance complaint.
type SubCategory string

const (
	SubCategoryHousekeeping SubCategory = "Housekeeping"
	SubCategoryPlumbing     SubCategory = "Plumbing"
	SubCategoryElectricity  SubCategory = "Electricity"
)

var SubCategories = []SubCategory{SubCategoryHousekeeping, SubCategoryPlumbing, SubCategoryElectricity}

// Role decides which endpoints a session talks to.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// StudentRef is the student who raised a complaint.
type StudentRef struct {
	ID         string `json:"_id,omitempty"`
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Phone      string `json:"phone,omitempty"`
}

// MemberRef is a snapshot of the staff member a complaint is assigned to.
type MemberRef struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Phone    string `json:"phone,omitempty"`
}

// Feedback is the student's verdict on a resolved complaint.
type Feedback struct {
	IsSatisfied bool   `json:"isSatisfied"`
	Comment     string `json:"comment"`
}

// Complaint is a single hostel complaint as the backend reports it.
// Nested references are stored as JSON columns by the dev backend.
type Complaint struct {
	ID                 string      `gorm:"primaryKey" json:"_id"`
	Title              string      `json:"title,omitempty"`
	Description        string      `gorm:"type:text" json:"description"`
	Category           Category    `gorm:"index" json:"category"`
	SubCategory        SubCategory `json:"subCategory,omitempty"`
	CurrentStatus      Status      `gorm:"index" json:"currentStatus"`
	IsReopened         bool        `json:"isReopened"`
	IsLockedForUpdates bool        `json:"isLockedForUpdates"`
	AssignedTo         *MemberRef  `gorm:"serializer:json" json:"assignedTo,omitempty"`
	Feedback           *Feedback   `gorm:"serializer:json" json:"feedback,omitempty"`
	StudentID          string      `gorm:"index" json:"-"`
	Student            StudentRef  `gorm:"serializer:json" json:"student"`
	CreatedAt          time.Time   `json:"createdAt"`
	ResolvedAt         *time.Time  `json:"resolvedAt,omitempty"`
}

// complaintWire mirrors the JSON the backend sends. Both `_id` and `id` are
// accepted and timestamps are decoded leniently.
type complaintWire struct {
	UnderscoreID       string      `json:"_id"`
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Category           Category    `json:"category"`
	SubCategory        SubCategory `json:"subCategory"`
	CurrentStatus      Status      `json:"currentStatus"`
	IsReopened         bool        `json:"isReopened"`
	IsLockedForUpdates bool        `json:"isLockedForUpdates"`
	AssignedTo         *MemberRef  `json:"assignedTo"`
	Feedback           *Feedback   `json:"feedback"`
	Student            *StudentRef `json:"student"`
	CreatedAt          string      `json:"createdAt"`
	ResolvedAt         string      `json:"resolvedAt"`
}

// UnmarshalJSON resolves the canonical identifier in a fixed order:
// `_id`, then `id`, then the student's `_id`.
func (c *Complaint) UnmarshalJSON(data []byte) error {
	var w complaintWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Complaint{
		Title:              w.Title,
		Description:        w.Description,
		Category:           w.Category,
		SubCategory:        w.SubCategory,
		CurrentStatus:      w.CurrentStatus,
		IsReopened:         w.IsReopened,
		IsLockedForUpdates: w.IsLockedForUpdates,
		AssignedTo:         w.AssignedTo,
		Feedback:           w.Feedback,
	}
	if w.Student != nil {
		c.Student = *w.Student
		c.StudentID = w.Student.ID
	}

	switch {
	case w.UnderscoreID != "":
		c.ID = w.UnderscoreID
	case w.ID != "":
		c.ID = w.ID
	case w.Student != nil && w.Student.ID != "":
		c.ID = w.Student.ID
	}

	c.CreatedAt, _ = ParseTime(w.CreatedAt)
	if t, ok := ParseTime(w.ResolvedAt); ok {
		c.ResolvedAt = &t
	}
	return nil
}

// HasID reports whether an identifier could be resolved at ingestion.
func (c Complaint) HasID() bool {
	return strings.TrimSpace(c.ID) != ""
}

// Member is a staff member who can be assigned complaints.
type Member struct {
	ID       string `gorm:"primaryKey" json:"_id"`
	Name     string `json:"name"`
	Category string `gorm:"index" json:"category"`
	Phone    string `json:"phone,omitempty"`
}

// Ref returns the snapshot stored on complaints and timeline entries.
func (m Member) Ref() *MemberRef {
	return &MemberRef{ID: m.ID, Name: m.Name, Category: m.Category, Phone: m.Phone}
}

// StatusUpdate is the body of an administrative status change.
type StatusUpdate struct {
	Status   Status  `json:"status"`
	Note     string  `json:"note"`
	MemberID *string `json:"memberId"`
}

// NewComplaint is the body a student submits when raising a complaint.
type NewComplaint struct {
	Category    Category    `json:"category" validate:"required,oneof=Canteen Internet Maintenance Others"`
	SubCategory SubCategory `json:"subCategory,omitempty" validate:"omitempty,oneof=Housekeeping Plumbing Electricity"`
	Description string      `json:"description" validate:"required,min=10,max=1000"`
}
