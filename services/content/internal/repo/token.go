package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gramseva/panchayat-backend/services/content/internal/models"
)

// UpsertToken inserts or updates the single credential row for a
// tenant. Keyed on tenant_id so a tenant can never accumulate a second
// row, only overwrite the first.
func (r *GormRepo) UpsertToken(ctx context.Context, tok *models.GoogleDriveToken) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "token_type", "scope", "expires_at", "updated_at",
		}),
	}).Create(tok).Error
}

func (r *GormRepo) GetToken(ctx context.Context, tenantID uint) (*models.GoogleDriveToken, error) {
	tok := models.GoogleDriveToken{}
	if err := r.DB.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&tok).Error; err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *GormRepo) DeleteToken(ctx context.Context, tenantID uint) error {
	res := r.DB.WithContext(ctx).Where("tenant_id = ?", tenantID).Delete(&models.GoogleDriveToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
