package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORM calls these before inserting a row. Each one assigns a new UUID when
// the caller has not set an ID already.

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (e *TimelineEntry) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	ensureID(&n.ID)
	return nil
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
