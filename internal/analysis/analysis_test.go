package analysis_test

import (
	"fmt"
	"hostelcare/portal/internal/analysis"
	"hostelcare/portal/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) time.Time { return now.Add(-d) }

func ptr(t time.Time) *time.Time { return &t }

const day = 24 * time.Hour

func fixture() []models.Complaint {
	return []models.Complaint{
		{ID: "r1", Category: models.CategoryCanteen, CurrentStatus: models.StatusResolved,
			CreatedAt: ago(5 * day), ResolvedAt: ptr(ago(3 * day)), AssignedTo: &models.MemberRef{ID: "m1"}},
		{ID: "r2", Category: models.CategoryInternet, CurrentStatus: models.StatusResolved,
			CreatedAt: ago(20 * day), ResolvedAt: ptr(ago(16 * day)), AssignedTo: &models.MemberRef{ID: "m1"},
			Feedback: &models.Feedback{IsSatisfied: true}},
		{ID: "p1", Category: models.CategoryMaintenance, SubCategory: models.SubCategoryPlumbing,
			CurrentStatus: models.StatusPending, CreatedAt: ago(10 * day), IsReopened: true},
		{ID: "i1", Category: models.CategoryMaintenance, CurrentStatus: models.StatusInProgress,
			CreatedAt: ago(4 * day), AssignedTo: &models.MemberRef{ID: "m2"}},
		{ID: "n1", Category: "", CurrentStatus: models.StatusReceived, CreatedAt: ago(time.Hour)},
	}
}

func TestCompute_AllTime(t *testing.T) {
	d := analysis.Compute(fixture(), analysis.Options{Timeframe: analysis.TimeframeAll}, now)

	assert.Equal(t, 5, d.Total)
	assert.Equal(t, 2, d.Resolved)
	assert.Equal(t, 3, d.Pending)
	assert.Equal(t, 1, d.InProgress)
	assert.Equal(t, 1, d.Reopened)
	assert.Equal(t, 1, d.LongPending)
	assert.InDelta(t, 3.0, d.AvgResolutionDays, 0.001)
	require.NotNil(t, d.AvgResolution7Days)
	assert.InDelta(t, 2.0, *d.AvgResolution7Days, 0.001)
	require.NotNil(t, d.AvgResolution30Days)
	assert.InDelta(t, 3.0, *d.AvgResolution30Days, 0.001)

	assert.Equal(t, map[models.Status]int{
		models.StatusReceived: 1, models.StatusPending: 1, models.StatusInProgress: 1, models.StatusResolved: 2,
	}, d.ByStatus)
	assert.Equal(t, map[string]int{
		"Canteen": 1, "Internet": 1, "Plumbing": 1, "Maintenance": 1, analysis.Uncategorized: 1,
	}, d.ByCategory)

	assert.Equal(t, []string{"n1", "i1", "r1"}, ids(d.Recent))
	assert.Equal(t, []string{"n1", "p1"}, ids(d.AwaitingTriage))
	assert.Equal(t, []string{"i1", "p1"}, ids(d.HotZone.LongPending))
	assert.Equal(t, []string{"p1"}, ids(d.HotZone.Reopened))
	assert.Equal(t, []string{"n1", "p1"}, ids(d.HotZone.Unassigned))
	assert.Equal(t, []string{"r1"}, ids(d.HotZone.FeedbackPending))
}

func TestCompute_WeekTimeframe(t *testing.T) {
	d := analysis.Compute(fixture(), analysis.Options{Timeframe: analysis.TimeframeWeek}, now)

	assert.Equal(t, 3, d.Total)
	assert.Equal(t, []string{"n1", "i1", "r1"}, ids(d.Recent))
}

func TestCompute_DateRange(t *testing.T) {
	opts := analysis.Options{Timeframe: analysis.TimeframeAll, From: ago(12 * day), To: ago(3 * day)}

	d := analysis.Compute(fixture(), opts, now)

	assert.Equal(t, 3, d.Total)
}

func TestCompute_Empty(t *testing.T) {
	d := analysis.Compute(nil, analysis.Options{Timeframe: analysis.TimeframeMonth}, now)

	assert.Zero(t, d.Total)
	assert.Zero(t, d.AvgResolutionDays)
	assert.Nil(t, d.AvgResolution7Days)
	assert.Empty(t, d.Recent)
	assert.NotNil(t, d.HotZone.Reopened)
}

func TestCompute_HotZoneLongPendingIsCapped(t *testing.T) {
	var list []models.Complaint
	for i := 0; i < 6; i++ {
		list = append(list, models.Complaint{ID: fmt.Sprint(i), CurrentStatus: models.StatusPending, CreatedAt: ago(time.Duration(4+i) * day)})
	}

	d := analysis.Compute(list, analysis.Options{}, now)

	assert.Equal(t, []string{"0", "1", "2"}, ids(d.HotZone.LongPending))
	assert.Len(t, d.AwaitingTriage, 5)
}

func TestCategoryLabel(t *testing.T) {
	tests := []struct {
		c    models.Complaint
		want string
	}{
		{models.Complaint{Category: "canteen"}, "Canteen"},
		{models.Complaint{Category: " INTERNET "}, "Internet"},
		{models.Complaint{Category: models.CategoryMaintenance, SubCategory: models.SubCategoryElectricity}, "Electricity"},
		{models.Complaint{Category: models.CategoryMaintenance}, "Maintenance"},
		{models.Complaint{Category: models.CategoryOthers, SubCategory: models.SubCategoryPlumbing}, "Others"},
		{models.Complaint{}, analysis.Uncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, analysis.CategoryLabel(tt.c))
		})
	}
}

func TestPendingDays(t *testing.T) {
	assert.Equal(t, 4, analysis.PendingDays(models.Complaint{CreatedAt: ago(4*day + 5*time.Hour)}, now))
}

func ids(list []models.Complaint) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}
