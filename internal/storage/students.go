package storage

import (
	"context"
	"errors"
	"hostelcare/portal/internal/models"
	"log"
	"strings"

	"gorm.io/gorm"
)

func (s *Service) GetStudentByRoll(ctx context.Context, rollNumber string) (*models.Student, error) {
	var st models.Student
	err := s.DB.WithContext(ctx).Where("roll_number = ?", rollNumber).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListStudents returns one page of the roster ordered by roll number, and
// the number of rows matching f across all pages.
func (s *Service) ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Student{})
	if f.Course != "" {
		q = q.Where("course = ?", f.Course)
	}
	if f.Branch != "" {
		q = q.Where("branch = ?", f.Branch)
	}
	if f.RoomNumber != "" {
		q = q.Where("room_number = ?", f.RoomNumber)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(roll_number) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("ERROR: Failed to count students: %v", err)
		return nil, 0, err
	}

	var list []models.Student
	err := q.Order("roll_number asc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&list).Error
	if err != nil {
		log.Printf("ERROR: Failed to list students: %v", err)
		return nil, 0, err
	}
	return list, total, nil
}

func (s *Service) CreateStudent(ctx context.Context, st *models.Student) error {
	if err := s.DB.WithContext(ctx).Create(st).Error; err != nil {
		log.Printf("ERROR: Failed to create student %s: %v", st.RollNumber, err)
		return err
	}
	return nil
}

// SaveStudent writes every column of an existing student.
func (s *Service) SaveStudent(ctx context.Context, st *models.Student) error {
	if err := s.DB.WithContext(ctx).Save(st).Error; err != nil {
		log.Printf("ERROR: Failed to update student %s: %v", st.ID, err)
		return err
	}
	return nil
}

// DeleteStudent returns models.ErrNotFound when no row matches.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Student{})
	if res.Error != nil {
		log.Printf("ERROR: Failed to delete student %s: %v", id, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListTempStudents returns students who have not replaced their generated
// password, newest first.
func (s *Service) ListTempStudents(ctx context.Context) ([]models.Student, error) {
	var list []models.Student
	err := s.DB.WithContext(ctx).
		Where("is_password_changed = ?", false).
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

func (s *Service) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if err := s.DB.WithContext(ctx).Create(a).Error; err != nil {
		log.Printf("ERROR: Failed to create announcement: %v", err)
		return err
	}
	return nil
}

// DeleteAnnouncement returns models.ErrNotFound when no row matches.
func (s *Service) DeleteAnnouncement(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Announcement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
