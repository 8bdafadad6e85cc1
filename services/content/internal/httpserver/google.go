package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/gramseva/panchayat-backend/pkg/middleware/auth"
	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/services/content/internal/googleauth"
	"github.com/gramseva/panchayat-backend/services/content/internal/transport"
)

type GoogleHTTP struct {
	Auth        *googleauth.Manager
	FrontendURL string
}

func (h *GoogleHTTP) Authorize(c echo.Context) error {
	tenantID := authmw.TenantID(c)
	if tenantID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user is not bound to a panchayat")
	}

	return c.JSON(http.StatusOK, transport.AuthorizeResponse{
		AuthorizationURL: h.Auth.AuthorizeURL(tenantID),
	})
}

// Callback is hit by the user's browser after Google consent; it has
// no bearer token, the tenant rides in the state parameter. The user
// lands back on the frontend either way.
func (h *GoogleHTTP) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "google.callback")

	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if providerErr := c.QueryParam("error"); providerErr != "" || code == "" {
		l.Warn("callback_rejected", "provider_error", providerErr)
		return c.Redirect(http.StatusFound, h.FrontendURL+"?google_error=true")
	}

	tenantID, err := h.Auth.HandleCallback(ctx, code, state)
	if err != nil {
		l.Error("callback_failed", "error", err)
		return c.Redirect(http.StatusFound, h.FrontendURL+"?google_error=true")
	}

	l.Info("google_connected", "tenant_id", tenantID)
	return c.Redirect(http.StatusFound, h.FrontendURL+"?google_connected=true")
}

func (h *GoogleHTTP) Status(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID := authmw.TenantID(c)
	if tenantID == 0 {
		return c.JSON(http.StatusOK, transport.ConnectionStatusResponse{IsConnected: false})
	}

	connected, err := h.Auth.IsConnected(ctx, tenantID)
	if err != nil {
		logging.FromContext(ctx).Error("status_failed", "handler", "google.status", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.ConnectionStatusResponse{IsConnected: connected})
}

func (h *GoogleHTTP) Revoke(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "google.revoke")

	tenantID := authmw.TenantID(c)
	if tenantID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user is not bound to a panchayat")
	}

	if err := h.Auth.Revoke(ctx, tenantID); err != nil {
		l.Warn("revoke_failed", "error", err)
		return httpError(err)
	}

	l.Info("google_revoked", "tenant_id", tenantID)
	return c.NoContent(http.StatusOK)
}
