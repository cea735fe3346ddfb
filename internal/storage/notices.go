package storage

import (
	"context"
	"hostelcare/portal/internal/models"
	"log"

	"gorm.io/gorm"
)

func (s *Service) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var list []models.Announcement
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) ListPolls(ctx context.Context) ([]models.Poll, error) {
	var list []models.Poll
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) SaveNotification(ctx context.Context, n *models.Notification) error {
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		log.Printf("ERROR: Failed to save notification for %s: %v", n.RecipientID, err)
		return err
	}
	return nil
}

func (s *Service) ListUnreadNotifications(ctx context.Context, recipientID string) ([]models.Notification, error) {
	var list []models.Notification
	err := s.DB.WithContext(ctx).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

func (s *Service) CountUnreadNotifications(ctx context.Context, recipientID string) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}

// MarkNotificationRead only touches notifications owned by recipientID.
func (s *Service) MarkNotificationRead(ctx context.Context, recipientID, id string) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context, recipientID string) error {
	return s.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}
