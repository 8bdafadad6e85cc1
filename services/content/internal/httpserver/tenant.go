package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/services/content/internal/service"
	"github.com/gramseva/panchayat-backend/services/content/internal/transport"
)

type TenantHTTP struct {
	Svc *service.TenantService
}

func (h *TenantHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tenant.create")

	var req transport.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	tenant, err := h.Svc.Create(ctx, req.Name, req.Slug, req.OfficeEmail)
	if err != nil {
		l.Warn("tenant_create_failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, tenant)
}

func (h *TenantHTTP) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	tenant, err := h.Svc.Get(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHTTP) List(c echo.Context) error {
	tenants, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tenants)
}

func (h *TenantHTTP) Deactivate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.Svc.Deactivate(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}
