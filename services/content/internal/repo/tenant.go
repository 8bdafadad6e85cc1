package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/gramseva/panchayat-backend/services/content/internal/models"
)

func (r *GormRepo) CreateTenant(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	if err := r.DB.WithContext(ctx).Create(tenant).Error; err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *GormRepo) GetTenant(ctx context.Context, id uint) (*models.Tenant, error) {
	tenant := models.Tenant{}
	if err := r.DB.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *GormRepo) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	tenant := models.Tenant{}
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *GormRepo) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	var items []models.Tenant
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeactivateTenant soft-deactivates; tenants are never deleted.
func (r *GormRepo) DeactivateTenant(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Tenant{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
