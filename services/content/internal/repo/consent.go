package repo

import (
	"context"
	"time"

	"github.com/gramseva/panchayat-backend/services/content/internal/models"
)

// ActiveConsent returns the user's active consent row, or
// gorm.ErrRecordNotFound when none exists.
func (r *GormRepo) ActiveConsent(ctx context.Context, userID string) (*models.UserConsent, error) {
	consent := models.UserConsent{}
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND given = ? AND revoked_at IS NULL", userID, true).
		First(&consent).Error; err != nil {
		return nil, err
	}
	return &consent, nil
}

// RecordConsent revokes any prior active consent, then inserts the new
// one. Keeps at most one active row per user.
func (r *GormRepo) RecordConsent(ctx context.Context, userID string) (*models.UserConsent, error) {
	now := time.Now().UTC()

	if err := r.DB.WithContext(ctx).Model(&models.UserConsent{}).
		Where("user_id = ? AND given = ? AND revoked_at IS NULL", userID, true).
		Update("revoked_at", now).Error; err != nil {
		return nil, err
	}

	consent := models.UserConsent{
		UserID:  userID,
		Given:   true,
		GivenAt: now,
	}
	if err := r.DB.WithContext(ctx).Create(&consent).Error; err != nil {
		return nil, err
	}
	return &consent, nil
}

func (r *GormRepo) RevokeConsent(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	return r.DB.WithContext(ctx).Model(&models.UserConsent{}).
		Where("user_id = ? AND given = ? AND revoked_at IS NULL", userID, true).
		Update("revoked_at", now).Error
}
