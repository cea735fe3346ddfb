// Package storage persists the dev backend's state in PostgreSQL via gorm.
package storage

import (
	"context"
	"errors"
	"hostelcare/portal/internal/models"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdminRecipient addresses notifications to every administrator.
const AdminRecipient = "admin"

// MutateFunc changes a locked complaint in place and returns the timeline
// entry recording the change, or nil for none. An error aborts the change.
type MutateFunc func(c *models.Complaint) (*models.TimelineEntry, error)

type Storage interface {
	CreateComplaint(ctx context.Context, c *models.Complaint, first *models.TimelineEntry) error
	ModifyComplaint(ctx context.Context, id string, fn MutateFunc) (*models.Complaint, error)
	GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context) ([]models.Complaint, error)
	ListComplaintsForStudent(ctx context.Context, studentID string) ([]models.Complaint, error)
	GetTimeline(ctx context.Context, complaintID string) ([]models.TimelineEntry, error)

	GetMemberByID(ctx context.Context, id string) (*models.Member, error)
	ListMembers(ctx context.Context) ([]models.Member, error)
	GetStudentByID(ctx context.Context, id string) (*models.Student, error)
	CountStudents(ctx context.Context) (int64, error)
	GetStudentByRoll(ctx context.Context, rollNumber string) (*models.Student, error)
	ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, int64, error)
	CreateStudent(ctx context.Context, st *models.Student) error
	SaveStudent(ctx context.Context, st *models.Student) error
	DeleteStudent(ctx context.Context, id string) error
	ListTempStudents(ctx context.Context) ([]models.Student, error)

	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
	ListPolls(ctx context.Context) ([]models.Poll, error)
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	DeleteAnnouncement(ctx context.Context, id string) error

	SaveNotification(ctx context.Context, n *models.Notification) error
	ListUnreadNotifications(ctx context.Context, recipientID string) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, recipientID string) (int64, error)
	MarkNotificationRead(ctx context.Context, recipientID, id string) error
	MarkAllNotificationsRead(ctx context.Context, recipientID string) error
}

type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Migrate creates or updates every table the backend uses.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.Complaint{},
		&models.TimelineEntry{},
		&models.Member{},
		&models.Student{},
		&models.Announcement{},
		&models.Poll{},
		&models.Notification{},
	)
}

// CreateComplaint stores a new complaint together with its first timeline entry.
func (s *Service) CreateComplaint(ctx context.Context, c *models.Complaint, first *models.TimelineEntry) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(first).Error
	})
	if err != nil {
		log.Printf("ERROR: Failed to save complaint for student %s: %v", c.StudentID, err)
	}
	return err
}

// ModifyComplaint loads the complaint with SELECT ... FOR UPDATE, lets fn
// change it, then saves it and appends the entry in the same transaction.
// Concurrent writers to one complaint are serialised by the row lock.
func (s *Service) ModifyComplaint(ctx context.Context, id string, fn MutateFunc) (*models.Complaint, error) {
	var c models.Complaint
	var rejected error

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rejected = models.ErrNotFound
			return rejected
		}
		if err != nil {
			return err
		}

		entry, err := fn(&c)
		if err != nil {
			rejected = err
			return err
		}
		if err := tx.Save(&c).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		return tx.Create(entry).Error
	})
	if rejected != nil {
		return nil, rejected
	}
	if err != nil {
		log.Printf("ERROR: Failed to update complaint %s: %v", id, err)
		return nil, err
	}
	return &c, nil
}

// GetComplaintByID returns models.ErrNotFound when no row matches.
func (s *Service) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get complaint %s: %v", id, err)
		return nil, err
	}
	return &c, nil
}

func (s *Service) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	var list []models.Complaint
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&list).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return list, nil
}

func (s *Service) ListComplaintsForStudent(ctx context.Context, studentID string) ([]models.Complaint, error) {
	var list []models.Complaint
	err := s.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		log.Printf("ERROR: Failed to list complaints for student %s: %v", studentID, err)
		return nil, err
	}
	return list, nil
}

// GetTimeline returns entries oldest first. An unknown complaint yields an
// empty slice.
func (s *Service) GetTimeline(ctx context.Context, complaintID string) ([]models.TimelineEntry, error) {
	var entries []models.TimelineEntry
	err := s.DB.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("timestamp asc").
		Find(&entries).Error
	if err != nil {
		log.Printf("ERROR: Failed to get timeline for complaint %s: %v", complaintID, err)
		return nil, err
	}
	return entries, nil
}

func (s *Service) GetMemberByID(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) ListMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := s.DB.WithContext(ctx).Order("category asc, name asc").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Service) GetStudentByID(ctx context.Context, id string) (*models.Student, error) {
	var st models.Student
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Service) CountStudents(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Student{}).Count(&n).Error
	return n, err
}
