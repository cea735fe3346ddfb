package roster_test

import (
	"context"
	"errors"
	"hostelcare/portal/internal/models"
	"hostelcare/portal/internal/roster"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(st *MockStore) *roster.Service {
	svc := roster.NewService(st)
	svc.Now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	svc.NewPassword = func() (string, error) { return "Tmp2pass", nil }
	return svc
}

func validInput() models.StudentInput {
	return models.StudentInput{
		Name:         "Asha Rao",
		RollNumber:   "cs21b001",
		Course:       "B.Tech",
		Year:         "2",
		Branch:       "CSE",
		RoomNumber:   "34",
		StudentPhone: "9876543210",
		ParentPhone:  "9123456780",
	}
}

func TestValidateStudent(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *models.StudentInput)
		field  string
		msg    string
	}{
		{"valid", func(in *models.StudentInput) {}, "", ""},
		{"missing name", func(in *models.StudentInput) { in.Name = "  " }, "name", "Name is required"},
		{"bad roll", func(in *models.StudentInput) { in.RollNumber = "CS-21" }, "rollNumber", "Roll number may only contain letters and digits"},
		{"unknown course", func(in *models.StudentInput) { in.Course = "MBA" }, "course", "Please select a course"},
		{"branch outside course", func(in *models.StudentInput) { in.Course = "Degree" }, "branch", "Branch is not offered for Degree"},
		{"year beyond course", func(in *models.StudentInput) { in.Course = "Diploma"; in.Year = "4" }, "year", "Diploma runs for 3 years"},
		{"short phone", func(in *models.StudentInput) { in.StudentPhone = "98765" }, "studentPhone", "Phone number must be 10 digits"},
		{"letters in parent phone", func(in *models.StudentInput) { in.ParentPhone = "98765abcde" }, "parentPhone", "Phone number must be 10 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(&in)
			out, err := roster.ValidateStudent(in)
			if tt.field == "" {
				require.NoError(t, err)
				assert.Equal(t, "CS21B001", out.RollNumber)
				return
			}
			var ve models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.msg, ve[tt.field])
		})
	}
}

func TestService_Add(t *testing.T) {
	st := new(MockStore)
	svc := newService(st)

	st.On("GetStudentByRoll", mock.Anything, "CS21B001").Return(nil, nil)
	st.On("CreateStudent", mock.Anything, mock.AnythingOfType("*models.Student")).Return(nil)

	created, password, err := svc.Add(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "Tmp2pass", password)
	assert.Equal(t, "CS21B001", created.RollNumber)
	assert.Equal(t, "Tmp2pass", created.GeneratedPassword)
	assert.False(t, created.IsPasswordChanged)
	assert.NotEmpty(t, created.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("Tmp2pass")))
	st.AssertExpectations(t)
}

func TestService_Add_DuplicateRoll(t *testing.T) {
	st := new(MockStore)
	svc := newService(st)
	st.On("GetStudentByRoll", mock.Anything, "CS21B001").Return(&models.Student{ID: "s9"}, nil)

	_, _, err := svc.Add(context.Background(), validInput())

	assert.ErrorIs(t, err, roster.ErrDuplicateRoll)
	st.AssertNotCalled(t, "CreateStudent", mock.Anything, mock.Anything)
}

func TestService_Add_InvalidInputSkipsStore(t *testing.T) {
	st := new(MockStore)
	svc := newService(st)
	in := validInput()
	in.Course = ""

	_, _, err := svc.Add(context.Background(), in)

	var ve models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "course")
	st.AssertExpectations(t)
}

func TestGeneratePassword(t *testing.T) {
	p, err := roster.GeneratePassword()
	require.NoError(t, err)
	assert.Len(t, p, 8)
	assert.False(t, strings.ContainsAny(p, "0O1lI"))
}

func TestService_Update(t *testing.T) {
	t.Run("keeps password and checks new roll", func(t *testing.T) {
		st := new(MockStore)
		svc := newService(st)
		existing := &models.Student{ID: "s1", RollNumber: "CS21B000", PasswordHash: "hash", GeneratedPassword: "old"}
		st.On("GetStudentByID", mock.Anything, "s1").Return(existing, nil)
		st.On("GetStudentByRoll", mock.Anything, "CS21B001").Return(nil, nil)
		st.On("SaveStudent", mock.Anything, existing).Return(nil)

		got, err := svc.Update(context.Background(), "s1", validInput())

		require.NoError(t, err)
		assert.Equal(t, "CS21B001", got.RollNumber)
		assert.Equal(t, "34", got.RoomNumber)
		assert.Equal(t, "hash", got.PasswordHash)
		assert.Equal(t, "old", got.GeneratedPassword)
		st.AssertExpectations(t)
	})

	t.Run("roll taken by someone else", func(t *testing.T) {
		st := new(MockStore)
		svc := newService(st)
		st.On("GetStudentByID", mock.Anything, "s1").Return(&models.Student{ID: "s1", RollNumber: "CS21B000"}, nil)
		st.On("GetStudentByRoll", mock.Anything, "CS21B001").Return(&models.Student{ID: "s2"}, nil)

		_, err := svc.Update(context.Background(), "s1", validInput())

		assert.ErrorIs(t, err, roster.ErrDuplicateRoll)
		st.AssertNotCalled(t, "SaveStudent", mock.Anything, mock.Anything)
	})

	t.Run("unknown student", func(t *testing.T) {
		st := new(MockStore)
		svc := newService(st)
		st.On("GetStudentByID", mock.Anything, "nope").Return(nil, nil)

		_, err := svc.Update(context.Background(), "nope", validInput())

		assert.ErrorIs(t, err, roster.ErrStudentNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	st := new(MockStore)
	svc := newService(st)
	st.On("DeleteStudent", mock.Anything, "s1").Return(nil)
	st.On("DeleteStudent", mock.Anything, "gone").Return(models.ErrNotFound)
	st.On("DeleteStudent", mock.Anything, "broken").Return(errors.New("db down"))

	assert.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "gone"), roster.ErrStudentNotFound)
	err := svc.Delete(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, roster.ErrStudentNotFound)
}

func TestService_List(t *testing.T) {
	tests := []struct {
		name      string
		in        models.StudentFilter
		wantPage  int
		wantLimit int
		total     int64
		pages     int
	}{
		{"defaults", models.StudentFilter{}, 1, roster.DefaultPageSize, 21, 3},
		{"exact pages", models.StudentFilter{Page: 2, Limit: 5}, 2, 5, 10, 2},
		{"limit capped", models.StudentFilter{Page: 1, Limit: 1000}, 1, roster.MaxPageSize, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := new(MockStore)
			svc := newService(st)
			want := tt.in
			want.Page, want.Limit = tt.wantPage, tt.wantLimit
			st.On("ListStudents", mock.Anything, want).Return(nil, tt.total, nil)

			page, err := svc.List(context.Background(), tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.pages, page.TotalPages)
			assert.Equal(t, tt.total, page.Total)
			assert.NotNil(t, page.Students)
			st.AssertExpectations(t)
		})
	}
}

func TestService_TempSummary(t *testing.T) {
	st := new(MockStore)
	svc := newService(st)
	st.On("ListTempStudents", mock.Anything).Return([]models.Student{
		{ID: "s1", Name: "Asha", RollNumber: "CS21B001", GeneratedPassword: "Tmp2pass", PasswordHash: "hash", StudentPhone: "9876543210"},
	}, nil)

	list, err := svc.TempSummary(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tmp2pass", list[0].GeneratedPassword)
	assert.Equal(t, "9876543210", list[0].StudentPhone)
}

func TestService_PostAnnouncement(t *testing.T) {
	st := new(MockStore)
	svc := newService(st)
	st.On("CreateAnnouncement", mock.Anything, mock.MatchedBy(func(a *models.Announcement) bool {
		return a.Title == "Water outage" && a.Description == "Tanks are cleaned on Sunday."
	})).Return(nil)

	a, err := svc.PostAnnouncement(context.Background(), models.AnnouncementInput{
		Title: "  Water outage ", Description: "Tanks are cleaned on Sunday.",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), a.CreatedAt)
	st.AssertExpectations(t)

	_, err = svc.PostAnnouncement(context.Background(), models.AnnouncementInput{Title: "Only a title"})
	var ve models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Description is required", ve["description"])
}

func TestService_DeleteAnnouncement(t *testing.T) {
	st := new(MockStore)
	svc := newService(st)
	st.On("DeleteAnnouncement", mock.Anything, "a1").Return(nil)
	st.On("DeleteAnnouncement", mock.Anything, "gone").Return(models.ErrNotFound)

	assert.NoError(t, svc.DeleteAnnouncement(context.Background(), "a1"))
	assert.ErrorIs(t, svc.DeleteAnnouncement(context.Background(), "gone"), roster.ErrAnnouncementNotFound)
}
