package analysis

import (
	"hostelcare/portal/internal/models"
	"sort"
	"time"
)

// MemberLoad is one row of the staff assignment table.
type MemberLoad struct {
	Member   models.Member
	Assigned int
	Resolved int
	// Rate is the resolved percentage, or -1 when nothing is assigned.
	Rate int
}

// Workload reports assignments per member, in roster order.
func Workload(members []models.Member, list []models.Complaint) []MemberLoad {
	out := make([]MemberLoad, 0, len(members))
	for _, m := range members {
		row := MemberLoad{Member: m, Rate: -1}
		for _, c := range list {
			if c.AssignedTo == nil || c.AssignedTo.ID != m.ID {
				continue
			}
			row.Assigned++
			if c.CurrentStatus == models.StatusResolved {
				row.Resolved++
			}
		}
		if row.Assigned > 0 {
			row.Rate = row.Resolved * 100 / row.Assigned
		}
		out = append(out, row)
	}
	return out
}

// ActivityKind tags a feed item.
type ActivityKind string

const (
	ActivityComplaint    ActivityKind = "complaint"
	ActivityAnnouncement ActivityKind = "announcement"
	ActivityPoll         ActivityKind = "poll"
)

// Activity is one line of the recent activity feed.
type Activity struct {
	Kind   ActivityKind
	At     time.Time
	Text   string
	Status string
	By     string
}

const feedSize = 10

// Feed merges complaints, announcements and polls, newest first, capped at ten.
func Feed(list []models.Complaint, announcements []models.Announcement, polls []models.Poll) []Activity {
	feed := make([]Activity, 0, len(list)+len(announcements)+len(polls))
	for _, c := range list {
		feed = append(feed, Activity{
			Kind:   ActivityComplaint,
			At:     c.CreatedAt,
			Text:   Headline(c),
			Status: string(c.CurrentStatus),
			By:     c.Student.Name,
		})
	}
	for _, a := range announcements {
		feed = append(feed, Activity{Kind: ActivityAnnouncement, At: a.CreatedAt, Text: a.Title})
	}
	for _, p := range polls {
		feed = append(feed, Activity{Kind: ActivityPoll, At: p.CreatedAt, Text: p.Question, Status: string(p.Status)})
	}

	sort.SliceStable(feed, func(i, j int) bool { return feed[i].At.After(feed[j].At) })
	if len(feed) > feedSize {
		feed = feed[:feedSize]
	}
	return feed
}

// Headline is the title, else the first 40 characters of the description.
func Headline(c models.Complaint) string {
	if c.Title != "" {
		return c.Title
	}
	r := []rune(c.Description)
	if len(r) > 40 {
		r = r[:40]
	}
	if len(r) == 0 {
		return "Complaint"
	}
	return string(r)
}

// PollCounts tallies polls by status.
func PollCounts(polls []models.Poll) map[models.PollStatus]int {
	counts := map[models.PollStatus]int{models.PollActive: 0, models.PollScheduled: 0, models.PollEnded: 0}
	for _, p := range polls {
		counts[p.Status]++
	}
	return counts
}
