package telegram_test

import (
	"context"
	"errors"
	"hostelcare/portal/internal/events"
	"hostelcare/portal/internal/localization"
	"hostelcare/portal/internal/models"
	"hostelcare/portal/internal/telegram"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

func newNotifier(t *testing.T, bot *MockSender, lookup *MockLookup) *telegram.Notifier {
	t.Helper()
	loc, err := localization.Default()
	require.NoError(t, err)
	return &telegram.Notifier{Bot: bot, ChatID: 99, Complaints: lookup, Localizer: loc, Lang: "en", Timeout: time.Second}
}

func TestNotifier_NewComplaintText(t *testing.T) {
	n := newNotifier(t, new(MockSender), new(MockLookup))

	text := n.NewComplaintText(models.Complaint{
		Category:    models.CategoryMaintenance,
		SubCategory: models.SubCategoryPlumbing,
		Description: "Leaking_tap in washroom",
		Student:     models.StudentRef{Name: "Asha", RollNumber: "CS21B001"},
	})

	assert.Contains(t, text, "*New complaint* in Plumbing")
	assert.Contains(t, text, `Leaking\_tap in washroom`)
	assert.Contains(t, text, "Student: Asha (CS21B001)")
}

func TestNotifier_UpdateText(t *testing.T) {
	n := newNotifier(t, new(MockSender), new(MockLookup))

	tests := []struct {
		name string
		c    models.Complaint
		want []string
	}{
		{
			name: "assigned",
			c:    models.Complaint{ID: "abcdef123456", CurrentStatus: models.StatusInProgress, AssignedTo: &models.MemberRef{Name: "Ravi"}},
			want: []string{"`123456` is now *In Progress*", "Assigned to: Ravi"},
		},
		{
			name: "reopened",
			c:    models.Complaint{ID: "c1", CurrentStatus: models.StatusPending, IsReopened: true},
			want: []string{"is now *Pending*", "reopened"},
		},
		{
			name: "satisfied",
			c:    models.Complaint{ID: "c1", CurrentStatus: models.StatusResolved, Feedback: &models.Feedback{IsSatisfied: true}},
			want: []string{"Feedback on `c1`", "satisfied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := n.UpdateText(tt.c)
			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
		})
	}
}

func TestNotifier_Attach(t *testing.T) {
	bot := new(MockSender)
	lookup := new(MockLookup)
	n := newNotifier(t, bot, lookup)
	bus := events.NewBus()
	defer bus.Close()

	sent := make(chan tgbotapi.MessageConfig, 2)
	lookup.On("GetComplaintByID", mock.Anything, "c1").
		Return(&models.Complaint{ID: "c1", Category: models.CategoryCanteen, Student: models.StudentRef{Name: "Asha"}}, nil)
	lookup.On("GetComplaintByID", mock.Anything, "gone").Return(nil, models.ErrNotFound)
	bot.On("Send", mock.AnythingOfType("tgbotapi.MessageConfig")).
		Run(func(args mock.Arguments) { sent <- args.Get(0).(tgbotapi.MessageConfig) }).
		Return(nil)

	detach := n.Attach(bus)
	defer detach()

	bus.Publish(events.NewEvent(models.TopicComplaintSubmitted, "gone"))
	bus.Publish(events.NewEvent(models.TopicComplaintSubmitted, ""))
	bus.Publish(events.NewEvent(models.TopicComplaintSubmitted, "c1"))

	select {
	case msg := <-sent:
		assert.Equal(t, int64(99), msg.ChatID)
		assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
		assert.Contains(t, msg.Text, "Canteen")
	case <-time.After(time.Second):
		t.Fatal("no telegram message sent")
	}
	bot.AssertNumberOfCalls(t, "Send", 1)
}

func TestNotifier_SendFailureIsLogged(t *testing.T) {
	bot := new(MockSender)
	lookup := new(MockLookup)
	n := newNotifier(t, bot, lookup)
	bus := events.NewBus()
	defer bus.Close()

	done := make(chan struct{})
	lookup.On("GetComplaintByID", mock.Anything, "c1").Return(&models.Complaint{ID: "c1"}, nil)
	bot.On("Send", mock.Anything).Run(func(mock.Arguments) { close(done) }).Return(errors.New("bot blocked"))

	detach := n.Attach(bus)
	defer detach()
	bus.Publish(events.NewEvent(models.TopicRefreshNotifications, "c1"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send was not attempted")
	}
}
