// Package roster manages the student roster and announcements on behalf of
// administrators.
package roster

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"hostelcare/portal/internal/models"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	passwordLength  = 8
	passwordChars   = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"
)

var (
	ErrDuplicateRoll        = errors.New("student with this roll number already exists")
	ErrStudentNotFound      = errors.New("student not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

// Store is the persistence the roster needs.
type Store interface {
	GetStudentByID(ctx context.Context, id string) (*models.Student, error)
	GetStudentByRoll(ctx context.Context, rollNumber string) (*models.Student, error)
	ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, int64, error)
	CreateStudent(ctx context.Context, st *models.Student) error
	SaveStudent(ctx context.Context, st *models.Student) error
	DeleteStudent(ctx context.Context, id string) error
	ListTempStudents(ctx context.Context) ([]models.Student, error)
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	DeleteAnnouncement(ctx context.Context, id string) error
}

type Service struct {
	Store       Store
	Now         func() time.Time
	NewPassword func() (string, error)
}

func NewService(s Store) *Service {
	return &Service{Store: s, Now: time.Now, NewPassword: GeneratePassword}
}

// GeneratePassword returns a random initial password without look-alike
// characters.
func GeneratePassword() (string, error) {
	alphabet := big.NewInt(int64(len(passwordChars)))
	b := make([]byte, passwordLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			return "", err
		}
		b[i] = passwordChars[n.Int64()]
	}
	return string(b), nil
}

// List clamps the page and limit and reports the page count for f.
func (s *Service) List(ctx context.Context, f models.StudentFilter) (models.StudentPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}

	list, total, err := s.Store.ListStudents(ctx, f)
	if err != nil {
		return models.StudentPage{}, fmt.Errorf("list students: %w", err)
	}
	if list == nil {
		list = []models.Student{}
	}
	pages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	return models.StudentPage{Students: list, TotalPages: pages, Total: total}, nil
}

// Add registers a student with a generated password and returns it in
// plain text once. The plain text stays readable through TempSummary until
// the student changes it.
func (s *Service) Add(ctx context.Context, in models.StudentInput) (*models.Student, string, error) {
	in, err := ValidateStudent(in)
	if err != nil {
		return nil, "", err
	}
	if err := s.ensureUniqueRoll(ctx, in.RollNumber, ""); err != nil {
		return nil, "", err
	}

	password, err := s.NewPassword()
	if err != nil {
		return nil, "", fmt.Errorf("generate password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	st := models.Student{
		ID:                uuid.New().String(),
		PasswordHash:      string(hash),
		GeneratedPassword: password,
		CreatedAt:         s.Now(),
	}
	apply(&st, in)
	if err := s.Store.CreateStudent(ctx, &st); err != nil {
		return nil, "", fmt.Errorf("create student: %w", err)
	}
	log.Printf("INFO: Student %s added to room %s", st.RollNumber, st.RoomNumber)
	return &st, password, nil
}

// Update replaces a student's profile. The password is left alone.
func (s *Service) Update(ctx context.Context, id string, in models.StudentInput) (*models.Student, error) {
	in, err := ValidateStudent(in)
	if err != nil {
		return nil, err
	}
	st, err := s.Store.GetStudentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get student %s: %w", id, err)
	}
	if st == nil {
		return nil, ErrStudentNotFound
	}
	if st.RollNumber != in.RollNumber {
		if err := s.ensureUniqueRoll(ctx, in.RollNumber, id); err != nil {
			return nil, err
		}
	}

	apply(st, in)
	if err := s.Store.SaveStudent(ctx, st); err != nil {
		return nil, fmt.Errorf("update student %s: %w", id, err)
	}
	return st, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.Store.DeleteStudent(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return ErrStudentNotFound
	}
	if err != nil {
		return fmt.Errorf("delete student %s: %w", id, err)
	}
	log.Printf("INFO: Student %s removed", id)
	return nil
}

// TempSummary lists students still holding their generated password.
func (s *Service) TempSummary(ctx context.Context) ([]models.TempStudent, error) {
	list, err := s.Store.ListTempStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list temp students: %w", err)
	}
	out := make([]models.TempStudent, 0, len(list))
	for _, st := range list {
		out = append(out, models.TempStudent{
			ID:                st.ID,
			Name:              st.Name,
			RollNumber:        st.RollNumber,
			GeneratedPassword: st.GeneratedPassword,
			StudentPhone:      st.StudentPhone,
			CreatedAt:         st.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) PostAnnouncement(ctx context.Context, in models.AnnouncementInput) (*models.Announcement, error) {
	in, err := ValidateAnnouncement(in)
	if err != nil {
		return nil, err
	}
	a := models.Announcement{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   s.Now(),
	}
	if err := s.Store.CreateAnnouncement(ctx, &a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return &a, nil
}

func (s *Service) DeleteAnnouncement(ctx context.Context, id string) error {
	err := s.Store.DeleteAnnouncement(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return ErrAnnouncementNotFound
	}
	if err != nil {
		return fmt.Errorf("delete announcement %s: %w", id, err)
	}
	return nil
}

// ensureUniqueRoll fails when another student than self holds roll.
func (s *Service) ensureUniqueRoll(ctx context.Context, roll, self string) error {
	other, err := s.Store.GetStudentByRoll(ctx, roll)
	if err != nil {
		return fmt.Errorf("look up roll number %s: %w", roll, err)
	}
	if other != nil && other.ID != self {
		return ErrDuplicateRoll
	}
	return nil
}

func apply(st *models.Student, in models.StudentInput) {
	st.Name = in.Name
	st.RollNumber = in.RollNumber
	st.Course = in.Course
	st.Year = in.Year
	st.Branch = in.Branch
	st.RoomNumber = in.RoomNumber
	st.StudentPhone = in.StudentPhone
	st.ParentPhone = in.ParentPhone
}
