package storage

import (
	"context"
	"hostelcare/portal/internal/models"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DefaultMembers is the roster a fresh dev database starts with.
var DefaultMembers = []models.Member{
	{Name: "Ravi Kumar", Category: string(models.SubCategoryPlumbing), Phone: "9000000001"},
	{Name: "Meena Iyer", Category: string(models.SubCategoryElectricity), Phone: "9000000002"},
	{Name: "Arun Das", Category: string(models.SubCategoryHousekeeping), Phone: "9000000003"},
	{Name: "Farah Ali", Category: string(models.CategoryInternet), Phone: "9000000004"},
	{Name: "Joseph Mathew", Category: string(models.CategoryCanteen), Phone: "9000000005"},
}

// Seed fills an empty database with the default roster, a welcome
// announcement and a sample poll. It does nothing when members exist.
func (s *Service) Seed(ctx context.Context) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Member{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range DefaultMembers {
			m.ID = uuid.New().String()
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&models.Announcement{
			ID:          uuid.New().String(),
			Title:       "Welcome to the complaints portal",
			Description: "Raise hostel issues here and follow their progress.",
			CreatedAt:   now,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Poll{
			ID:        uuid.New().String(),
			Question:  "Which dinner menu should run next week?",
			Options:   pq.StringArray{"North Indian", "South Indian", "Continental"},
			Status:    models.PollActive,
			StartsAt:  now,
			EndsAt:    now.Add(7 * 24 * time.Hour),
			CreatedAt: now,
		}).Error
	})
	if err != nil {
		log.Printf("ERROR: Failed to seed database: %v", err)
		return err
	}
	log.Printf("INFO: Seeded %d members, 1 announcement and 1 poll", len(DefaultMembers))
	return nil
}
