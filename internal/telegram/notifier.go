// Package telegram relays complaint activity to the administrators' Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"hostelcare/portal/internal/analysis"
	"hostelcare/portal/internal/events"
	"hostelcare/portal/internal/localization"
	"hostelcare/portal/internal/models"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ComplaintLookup resolves the complaint an event refers to.
type ComplaintLookup interface {
	GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error)
}

// Notifier posts a message to ChatID for every complaint event on the bus.
type Notifier struct {
	Bot        Sender
	ChatID     int64
	Complaints ComplaintLookup
	Localizer  *localization.Localizer
	Lang       string
	Timeout    time.Duration
}

// NewNotifier connects to the Bot API with token.
func NewNotifier(token string, chatID int64, lookup ComplaintLookup, loc *localization.Localizer) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: Authorized on Telegram account %s", bot.Self.UserName)
	return &Notifier{Bot: bot, ChatID: chatID, Complaints: lookup, Localizer: loc, Lang: "en", Timeout: 10 * time.Second}, nil
}

// Attach subscribes to complaint events. The returned function detaches.
func (n *Notifier) Attach(bus *events.Bus) func() {
	unsubSubmitted := bus.Subscribe(models.TopicComplaintSubmitted, n.handle)
	unsubRefresh := bus.Subscribe(models.TopicRefreshNotifications, n.handle)
	return func() {
		unsubSubmitted()
		unsubRefresh()
	}
}

func (n *Notifier) handle(ev models.Event) {
	if ev.ComplaintID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.Timeout)
	defer cancel()

	c, err := n.Complaints.GetComplaintByID(ctx, ev.ComplaintID)
	if err != nil {
		log.Printf("WARNING: Telegram notifier could not load complaint %s: %v", ev.ComplaintID, err)
		return
	}

	var text string
	if ev.Topic == models.TopicComplaintSubmitted {
		text = n.NewComplaintText(*c)
	} else {
		text = n.UpdateText(*c)
	}

	msg := tgbotapi.NewMessage(n.ChatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.Bot.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send Telegram message for complaint %s: %v", c.ID, err)
	}
}

// NewComplaintText describes a freshly raised complaint.
func (n *Notifier) NewComplaintText(c models.Complaint) string {
	student := c.Student.Name
	if c.Student.RollNumber != "" {
		student = fmt.Sprintf("%s (%s)", student, c.Student.RollNumber)
	}
	return n.Localizer.Format(n.Lang, "tg_new_complaint",
		escape(analysis.CategoryLabel(c)), escape(analysis.Headline(c)), escape(strings.TrimSpace(student)))
}

// UpdateText describes the complaint's current state after a change.
func (n *Notifier) UpdateText(c models.Complaint) string {
	if c.Feedback != nil {
		verdict := n.Localizer.GetString(n.Lang, "tg_satisfied")
		return n.Localizer.Format(n.Lang, "tg_feedback", shortID(c.ID), verdict)
	}

	text := n.Localizer.Format(n.Lang, "tg_status_changed", shortID(c.ID), c.CurrentStatus)
	if c.IsReopened && c.CurrentStatus != models.StatusResolved {
		text += "\n" + n.Localizer.GetString(n.Lang, "tg_reopened")
	}
	if c.AssignedTo != nil {
		text += "\n" + n.Localizer.Format(n.Lang, "tg_assigned", escape(c.AssignedTo.Name))
	}
	return text
}

// shortID is the last six characters, as shown on the dashboard.
func shortID(id string) string {
	if len(id) > 6 {
		return id[len(id)-6:]
	}
	return id
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
