package complaint

import (
	"encoding/json"
	"hostelcare/portal/internal/api"
	"hostelcare/portal/internal/models"
	"sort"
)

// timelineShapes are the accepted timeline bodies, tried in order.
var timelineShapes = []api.Shape{
	api.BareArray,
	api.DataArray,
	api.DataField("timeline"),
}

// ProjectTimeline turns a raw timeline response into entries sorted oldest
// first. Equal timestamps keep their input order. Anything unusable (nil body,
// error envelope, unknown shape, empty list) degrades to a single
// "Complaint created" entry built from c, so the result is never empty.
func ProjectTimeline(raw []byte, c models.Complaint) []models.TimelineEntry {
	entries, _ := project(raw, c)
	return entries
}

// project also reports whether the fallback entry was synthesized.
func project(raw []byte, c models.Complaint) ([]models.TimelineEntry, bool) {
	entries, ok := api.DecodeList[models.TimelineEntry](raw, timelineShapes...)
	if !ok || len(entries) == 0 {
		return []models.TimelineEntry{CreatedEntry(c)}, true
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, false
}

// CreatedEntry is the synthesized first entry for a complaint.
func CreatedEntry(c models.Complaint) models.TimelineEntry {
	return models.TimelineEntry{
		Status:    c.CurrentStatus,
		Timestamp: c.CreatedAt,
		Note:      models.NoteComplaintCreated,
	}
}

// CurrentAssignee extracts data.currentAssignedTo from the student timeline
// envelope. It returns nil when absent.
func CurrentAssignee(raw []byte) *models.MemberRef {
	var env struct {
		Success bool `json:"success"`
		Data    struct {
			CurrentAssignedTo *models.MemberRef `json:"currentAssignedTo"`
		} `json:"data"`
	}
	if json.Unmarshal(raw, &env) != nil || !env.Success {
		return nil
	}
	if a := env.Data.CurrentAssignedTo; a != nil && a.ID != "" {
		return a
	}
	return nil
}
