package roster_test

import (
	"context"
	"hostelcare/portal/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetStudentByID(ctx context.Context, id string) (*models.Student, error) {
	args := m.Called(ctx, id)
	st, _ := args.Get(0).(*models.Student)
	return st, args.Error(1)
}

func (m *MockStore) GetStudentByRoll(ctx context.Context, rollNumber string) (*models.Student, error) {
	args := m.Called(ctx, rollNumber)
	st, _ := args.Get(0).(*models.Student)
	return st, args.Error(1)
}

func (m *MockStore) ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, int64, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]models.Student)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) CreateStudent(ctx context.Context, st *models.Student) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStore) SaveStudent(ctx context.Context, st *models.Student) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStore) DeleteStudent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) ListTempStudents(ctx context.Context) ([]models.Student, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Student)
	return list, args.Error(1)
}

func (m *MockStore) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockStore) DeleteAnnouncement(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
