package service

import (
	"context"
	"strings"

	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/services/content/internal/models"
	"github.com/gramseva/panchayat-backend/services/content/internal/repo"
)

type TenantService struct {
	Repo *repo.GormRepo
}

func (s *TenantService) Create(ctx context.Context, name, slug, officeEmail string) (*models.Tenant, error) {
	l := logging.FromContext(ctx).With("svc", "tenant.create", "slug", slug)

	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(strings.ToLower(slug))
	if name == "" || slug == "" || !strings.Contains(officeEmail, "@") {
		return nil, ErrValidation
	}

	tenant := &models.Tenant{
		Name:        name,
		Slug:        slug,
		OfficeEmail: officeEmail,
		IsActive:    true,
	}
	created, err := s.Repo.CreateTenant(ctx, tenant)
	if err != nil {
		l.Error("create_tenant_failed", "error", err)
		return nil, err
	}
	l.Info("tenant_created", "tenant_id", created.ID)
	return created, nil
}

func (s *TenantService) Get(ctx context.Context, id uint) (*models.Tenant, error) {
	return s.Repo.GetTenant(ctx, id)
}

func (s *TenantService) List(ctx context.Context) ([]models.Tenant, error) {
	return s.Repo.ListTenants(ctx)
}

// Deactivate soft-deactivates; tenants are never hard-deleted.
func (s *TenantService) Deactivate(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "tenant.deactivate", "tenant_id", id)
	if err := s.Repo.DeactivateTenant(ctx, id); err != nil {
		return err
	}
	l.Info("tenant_deactivated")
	return nil
}
