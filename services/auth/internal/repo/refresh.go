package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/gramseva/panchayat-backend/pkg/tokens"
	jwthelp "github.com/gramseva/panchayat-backend/services/auth/internal/jwt"
	"github.com/gramseva/panchayat-backend/services/auth/internal/models"
)

var ErrRefreshUnusable = errors.New("refresh token expired or revoked")

func (r *GormRepo) AddRefreshToDB(ctx context.Context, refreshToken string) error {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, r.RefreshSecret)
	if err != nil {
		return err
	}

	refreshModel := models.RefreshToken{
		TokenHash: jwthelp.Sha256Hex(refreshToken),
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time.Unix(),
		JTI:       claims.ID,
	}

	return r.DB.WithContext(ctx).Create(&refreshModel).Error
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *GormRepo) RevokeRefresh(ctx context.Context, refreshToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", jwthelp.Sha256Hex(refreshToken)).
		Update("revoked", true).Error
}

func refreshUsable(db *gorm.DB, jti string) error {
	var refresh models.RefreshToken
	if err := db.Where("jti = ?", jti).First(&refresh).Error; err != nil {
		return err
	}
	if refresh.ExpiresAt < time.Now().Unix() || refresh.Revoked {
		return ErrRefreshUnusable
	}
	return nil
}

// RotateRefreshToken revokes the old token and records the new one in a
// single transaction, so a replayed old token can never mint two successors.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, newToken models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := refreshUsable(tx, oldJTI); err != nil {
			return err
		}
		if err := tx.Model(&models.RefreshToken{}).
			Where("jti = ?", oldJTI).
			Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(&newToken).Error
	})
}
