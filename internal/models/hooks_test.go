package models_test

import (
	"hostelcare/portal/internal/models"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBeforeCreate_GeneratesUUID calls the hooks directly, as GORM would.
func TestBeforeCreate_GeneratesUUID(t *testing.T) {
	c := &models.Complaint{Category: models.CategoryInternet}
	p := &models.Poll{Question: "Mess timing?", Options: pq.StringArray{"7pm", "8pm"}}
	n := &models.Notification{Title: "Update"}

	require.NoError(t, c.BeforeCreate(nil))
	require.NoError(t, p.BeforeCreate(nil))
	require.NoError(t, n.BeforeCreate(nil))

	for _, id := range []string{c.ID, p.ID, n.ID} {
		parsed, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, parsed)
	}
	assert.NotEqual(t, c.ID, p.ID)
}

func TestBeforeCreate_PreservesExistingID(t *testing.T) {
	m := &models.Member{ID: "member-1", Name: "Ravi"}
	require.NoError(t, m.BeforeCreate(nil))
	assert.Equal(t, "member-1", m.ID)

	e := &models.TimelineEntry{ID: "entry-1"}
	require.NoError(t, e.BeforeCreate(nil))
	assert.Equal(t, "entry-1", e.ID)
}
