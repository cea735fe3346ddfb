package complaint_test

import (
	"context"
	"hostelcare/portal/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListComplaints(ctx context.Context, role models.Role) ([]models.Complaint, error) {
	args := m.Called(ctx, role)
	list, _ := args.Get(0).([]models.Complaint)
	return list, args.Error(1)
}

func (m *MockBackend) Timeline(ctx context.Context, role models.Role, complaintID string) ([]byte, error) {
	args := m.Called(ctx, role, complaintID)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

func (m *MockBackend) UpdateStatus(ctx context.Context, complaintID string, upd models.StatusUpdate) error {
	args := m.Called(ctx, complaintID, upd)
	return args.Error(0)
}

func (m *MockBackend) SubmitFeedback(ctx context.Context, complaintID string, fb models.Feedback) error {
	args := m.Called(ctx, complaintID, fb)
	return args.Error(0)
}

func (m *MockBackend) CreateComplaint(ctx context.Context, nc models.NewComplaint) error {
	args := m.Called(ctx, nc)
	return args.Error(0)
}
