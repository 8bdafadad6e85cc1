package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/gramseva/panchayat-backend/pkg/middleware/auth"
	"github.com/gramseva/panchayat-backend/pkg/tokens"
)

type Deps struct {
	AuthURL    string
	ContentURL string
	SearchURL  string

	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authProxy, err := newProxy(d.AuthURL, "/api/v1/auth")
	if err != nil {
		return err
	}
	contentProxy, err := newProxy(d.ContentURL, "")
	if err != nil {
		return err
	}
	searchProxy, err := newProxy(d.SearchURL, "")
	if err != nil {
		return err
	}

	// The Drive connection flow lives in the content service under the
	// auth prefix; the more specific route wins over /api/v1/auth/*.
	e.Any("/api/v1/auth/google/*", contentProxy)
	e.Any("/api/v1/auth/*", authProxy)

	// public surface, queried by the panchayat websites without a token
	e.GET("/api/v1/panchayat/documents/public", contentProxy)
	e.GET("/api/v1/search/documents", searchProxy)

	api := e.Group("/api/v1")
	api.Use(authmw.RequireAuth(d.JWTSecret))

	api.Any("/panchayat/*", contentProxy)

	admin := api.Group("", authmw.RequireRole([]string{tokens.RolePlatformAdmin}))
	admin.Any("/tenants", contentProxy)
	admin.Any("/tenants/*", contentProxy)

	return nil
}
