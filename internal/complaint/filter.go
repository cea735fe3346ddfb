package complaint

import (
	"hostelcare/portal/internal/config"
	"hostelcare/portal/internal/models"
	"strings"
	"time"
)

// All disables the status or category criterion.
const All = "All"

// DateLayout is the format accepted for From/To dates.
const DateLayout = "2006-01-02"

// Criteria are AND-combined. Zero dates and an empty query are unset; an
// empty Status or Category behaves like All.
type Criteria struct {
	Status       string
	Category     string
	From         time.Time
	To           time.Time
	StudentQuery string
}

// Page is one page of the filtered list.
type Page struct {
	Items         []models.Complaint
	TotalFiltered int
	TotalPages    int
}

// ParseDate reads a YYYY-MM-DD date in the local time zone. An empty string is
// the zero time.
func ParseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// Match applies every criterion to c.
func (cr Criteria) Match(c models.Complaint) bool {
	if cr.Status != "" && cr.Status != All && string(c.CurrentStatus) != cr.Status {
		return false
	}
	if cr.Category != "" && cr.Category != All && string(c.Category) != cr.Category {
		return false
	}
	if !cr.From.IsZero() && c.CreatedAt.Before(startOfDay(cr.From)) {
		return false
	}
	if !cr.To.IsZero() && c.CreatedAt.After(endOfDay(cr.To)) {
		return false
	}
	if cr.StudentQuery != "" {
		q := strings.ToLower(cr.StudentQuery)
		name := strings.ToLower(c.Student.Name)
		roll := strings.ToLower(c.Student.RollNumber)
		if !strings.Contains(name, q) && !strings.Contains(roll, q) {
			return false
		}
	}
	return true
}

// Equal compares criteria, treating dates by instant.
func (cr Criteria) Equal(o Criteria) bool {
	return cr.Status == o.Status &&
		cr.Category == o.Category &&
		cr.From.Equal(o.From) &&
		cr.To.Equal(o.To) &&
		cr.StudentQuery == o.StudentQuery
}

// Filter returns page (1-indexed) of the complaints matching cr, in list
// order. A page outside [1, TotalPages] yields no items; callers clamp.
// A non-positive pageSize falls back to config.DefaultPageSize.
func Filter(list []models.Complaint, cr Criteria, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}

	matched := make([]models.Complaint, 0, len(list))
	for _, c := range list {
		if cr.Match(c) {
			matched = append(matched, c)
		}
	}

	totalPages := (len(matched) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	res := Page{Items: []models.Complaint{}, TotalFiltered: len(matched), TotalPages: totalPages}
	if page < 1 {
		return res
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return res
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	res.Items = matched[start:end]
	return res
}
