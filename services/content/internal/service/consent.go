package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/services/content/internal/models"
	"github.com/gramseva/panchayat-backend/services/content/internal/repo"
)

type ConsentService struct {
	Repo *repo.GormRepo
}

// Give records a fresh consent, revoking any prior active one so only
// one stays active per user.
func (s *ConsentService) Give(ctx context.Context, userID string) (*models.UserConsent, error) {
	if userID == "" {
		return nil, ErrValidation
	}
	l := logging.FromContext(ctx).With("svc", "consent.give", "user_id", userID)

	consent, err := s.Repo.RecordConsent(ctx, userID)
	if err != nil {
		l.Error("record_consent_failed", "error", err)
		return nil, err
	}
	l.Info("consent_recorded")
	return consent, nil
}

func (s *ConsentService) Revoke(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrValidation
	}
	return s.Repo.RevokeConsent(ctx, userID)
}

// HasActive reports whether the user currently holds an active consent.
func (s *ConsentService) HasActive(ctx context.Context, userID string) (bool, error) {
	_, err := s.Repo.ActiveConsent(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
