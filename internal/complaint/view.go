package complaint

import (
	"hostelcare/portal/internal/config"
	"hostelcare/portal/internal/models"
)

// ListView is the presentation-side filter and pagination state. Changing the
// criteria always returns to page 1.
type ListView struct {
	Criteria Criteria
	Page     int
	PageSize int
}

func NewListView(pageSize int) *ListView {
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	return &ListView{Criteria: Criteria{Status: All, Category: All}, Page: 1, PageSize: pageSize}
}

// SetCriteria replaces the criteria and resets to the first page when they change.
func (v *ListView) SetCriteria(cr Criteria) {
	if v.Criteria.Equal(cr) {
		return
	}
	v.Criteria = cr
	v.Page = 1
}

// SetPage moves to p, clamped to [1, totalPages].
func (v *ListView) SetPage(p, totalPages int) {
	if totalPages < 1 {
		totalPages = 1
	}
	switch {
	case p < 1:
		p = 1
	case p > totalPages:
		p = totalPages
	}
	v.Page = p
}

// Render computes the current page of list.
func (v *ListView) Render(list []models.Complaint) Page {
	return Filter(list, v.Criteria, v.Page, v.PageSize)
}
