// Package analysis derives the admin dashboard figures from a complaint list.
// Everything here is a pure function of its inputs and the supplied clock.
package analysis

import (
	"hostelcare/portal/internal/config"
	"hostelcare/portal/internal/models"
	"sort"
	"strings"
	"time"
)

// Timeframe limits the dashboard to recent complaints.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeAll   Timeframe = "all"
)

// Uncategorized labels complaints with no category.
const Uncategorized = "Uncategorized"

const day = 24 * time.Hour

// Options select which complaints the dashboard covers. Zero From/To are unset.
type Options struct {
	Timeframe Timeframe
	From      time.Time
	To        time.Time
}

// HotZone lists complaints needing attention.
type HotZone struct {
	LongPending     []models.Complaint
	Reopened        []models.Complaint
	Unassigned      []models.Complaint
	FeedbackPending []models.Complaint
}

// Dashboard is the full set of KPIs.
type Dashboard struct {
	Total      int
	Resolved   int
	Pending    int
	InProgress int
	Reopened   int
	// LongPending counts unresolved complaints older than config.LongPendingAge.
	LongPending int

	AvgResolutionDays   float64
	AvgResolution7Days  *float64
	AvgResolution30Days *float64

	ByStatus   map[models.Status]int
	ByCategory map[string]int

	HotZone        HotZone
	Recent         []models.Complaint
	AwaitingTriage []models.Complaint
}

// Since returns the start of the timeframe, or the zero time for TimeframeAll.
func (tf Timeframe) Since(now time.Time) time.Time {
	switch tf {
	case TimeframeWeek:
		return now.AddDate(0, 0, -6)
	case TimeframeMonth:
		return now.AddDate(0, -1, 0)
	}
	return time.Time{}
}

// Select returns the complaints covered by opts, in input order.
func Select(list []models.Complaint, opts Options, now time.Time) []models.Complaint {
	since := opts.Timeframe.Since(now)
	out := make([]models.Complaint, 0, len(list))
	for _, c := range list {
		if !since.IsZero() && c.CreatedAt.Before(since) {
			continue
		}
		if !opts.From.IsZero() && c.CreatedAt.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && c.CreatedAt.After(opts.To) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Compute builds the dashboard for the complaints selected by opts.
func Compute(list []models.Complaint, opts Options, now time.Time) Dashboard {
	selected := Select(list, opts, now)

	d := Dashboard{
		Total:      len(selected),
		ByStatus:   make(map[models.Status]int, len(models.Statuses)),
		ByCategory: make(map[string]int),
	}
	for _, s := range models.Statuses {
		d.ByStatus[s] = 0
	}

	var resolvedDays, days7, days30 []float64
	for _, c := range selected {
		d.ByStatus[c.CurrentStatus]++
		d.ByCategory[CategoryLabel(c)]++

		if c.IsReopened {
			d.Reopened++
		}
		switch c.CurrentStatus {
		case models.StatusResolved:
			d.Resolved++
			if c.ResolvedAt != nil {
				took := c.ResolvedAt.Sub(c.CreatedAt).Hours() / 24
				resolvedDays = append(resolvedDays, took)
				age := now.Sub(*c.ResolvedAt)
				if age <= 7*day {
					days7 = append(days7, took)
				}
				if age <= 30*day {
					days30 = append(days30, took)
				}
			}
		case models.StatusInProgress:
			d.InProgress++
		}
		if c.CurrentStatus != models.StatusResolved {
			d.Pending++
			if now.Sub(c.CreatedAt) > config.LongPendingAge {
				d.LongPending++
			}
		}
	}

	d.AvgResolutionDays = mean(resolvedDays)
	if len(days7) > 0 {
		v := mean(days7)
		d.AvgResolution7Days = &v
	}
	if len(days30) > 0 {
		v := mean(days30)
		d.AvgResolution30Days = &v
	}

	newest := newestFirst(selected)
	d.HotZone = hotZone(newest, now)
	d.Recent = head(newest, config.RecentLimit)
	d.AwaitingTriage = AwaitingTriage(newest, config.AwaitingTriageSize)
	return d
}

// CategoryLabel is the dashboard bucket for c: Maintenance complaints are
// counted under their subcategory and labels are capitalised.
func CategoryLabel(c models.Complaint) string {
	label := strings.TrimSpace(string(c.Category))
	if c.Category == models.CategoryMaintenance && strings.TrimSpace(string(c.SubCategory)) != "" {
		label = strings.TrimSpace(string(c.SubCategory))
	}
	if label == "" {
		return Uncategorized
	}
	return strings.ToUpper(label[:1]) + strings.ToLower(label[1:])
}

// AwaitingTriage returns up to n complaints still Received or Pending, in list order.
func AwaitingTriage(list []models.Complaint, n int) []models.Complaint {
	out := make([]models.Complaint, 0, n)
	for _, c := range list {
		if len(out) == n {
			break
		}
		if c.CurrentStatus == models.StatusPending || c.CurrentStatus == models.StatusReceived {
			out = append(out, c)
		}
	}
	return out
}

func hotZone(list []models.Complaint, now time.Time) HotZone {
	hz := HotZone{
		LongPending:     []models.Complaint{},
		Reopened:        []models.Complaint{},
		Unassigned:      []models.Complaint{},
		FeedbackPending: []models.Complaint{},
	}
	for _, c := range list {
		if c.CurrentStatus != models.StatusResolved && now.Sub(c.CreatedAt) > config.HotZonePendingAge &&
			len(hz.LongPending) < config.HotZoneLimit {
			hz.LongPending = append(hz.LongPending, c)
		}
		if c.IsReopened {
			hz.Reopened = append(hz.Reopened, c)
		}
		if c.AssignedTo == nil {
			hz.Unassigned = append(hz.Unassigned, c)
		}
		if c.CurrentStatus == models.StatusResolved && c.Feedback == nil {
			hz.FeedbackPending = append(hz.FeedbackPending, c)
		}
	}
	return hz
}

// PendingDays is the whole number of days c has been open.
func PendingDays(c models.Complaint, now time.Time) int {
	return int(now.Sub(c.CreatedAt) / day)
}

func newestFirst(list []models.Complaint) []models.Complaint {
	out := append([]models.Complaint(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func head(list []models.Complaint, n int) []models.Complaint {
	if len(list) > n {
		list = list[:n]
	}
	return append([]models.Complaint{}, list...)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
