package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/gramseva/panchayat-backend/services/content/internal/models"
)

func (r *GormRepo) CreateDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if err := r.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *GormRepo) GetDocument(ctx context.Context, id uint) (*models.Document, error) {
	doc := models.Document{}
	if err := r.DB.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns the tenant documents the user may see, newest
// first: their own uploads plus the tenant's PUBLIC documents. The
// predicate lives in the query so total and pages never count rows the
// caller is not allowed to read.
func (r *GormRepo) ListDocuments(ctx context.Context, tenantID uint, userID string, offset, limit int) (int64, []models.Document, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Document{}).
		Where("tenant_id = ? AND (uploaded_by = ? OR visibility = ?)", tenantID, userID, models.VisibilityPublic).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Document
	if err := r.DB.WithContext(ctx).
		Where("tenant_id = ? AND (uploaded_by = ? OR visibility = ?)", tenantID, userID, models.VisibilityPublic).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// ListPublicDocuments returns the website-facing listing: PUBLIC,
// available, show-on-website documents only.
func (r *GormRepo) ListPublicDocuments(ctx context.Context, tenantID uint, offset, limit int) (int64, []models.Document, error) {
	cond := r.DB.WithContext(ctx).Model(&models.Document{}).
		Where("tenant_id = ? AND visibility = ? AND is_available = ? AND show_on_website = ?",
			tenantID, models.VisibilityPublic, true, true)

	var total int64
	if err := cond.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Document
	if err := r.DB.WithContext(ctx).
		Where("tenant_id = ? AND visibility = ? AND is_available = ? AND show_on_website = ?",
			tenantID, models.VisibilityPublic, true, true).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) SaveDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if err := r.DB.WithContext(ctx).Save(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *GormRepo) DeleteDocument(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Document{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
