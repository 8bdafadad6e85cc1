package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gramseva/panchayat-backend/pkg/metrics"
	authmw "github.com/gramseva/panchayat-backend/pkg/middleware/auth"
	"github.com/gramseva/panchayat-backend/pkg/tokens"
)

type Deps struct {
	GoogleHandler   *GoogleHTTP
	DocumentHandler *DocumentHTTP
	ConsentHandler  *ConsentHTTP
	TenantHandler   *TenantHTTP
	JWTSecret       []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", metrics.Handler())

	requireAuth := authmw.RequireAuth(d.JWTSecret)

	google := e.Group("/api/v1/auth/google")
	// The callback is hit by a browser redirect from Google, no token.
	google.GET("/callback", d.GoogleHandler.Callback)
	google.GET("/authorize", d.GoogleHandler.Authorize, requireAuth)
	google.GET("/status", d.GoogleHandler.Status, requireAuth)
	google.POST("/revoke", d.GoogleHandler.Revoke, requireAuth)

	docs := e.Group("/api/v1/panchayat/documents")
	docs.GET("/public", d.DocumentHandler.ListPublic)

	owned := docs.Group("", requireAuth)
	owned.POST("", d.DocumentHandler.Upload)
	owned.GET("", d.DocumentHandler.List)
	owned.GET("/:id", d.DocumentHandler.Get)
	owned.GET("/:id/view", d.DocumentHandler.GetView)
	owned.PUT("/:id", d.DocumentHandler.Update)
	owned.PATCH("/:id/visibility", d.DocumentHandler.SetVisibility)
	owned.PATCH("/:id/show-on-website", d.DocumentHandler.SetShowOnWebsite)
	owned.DELETE("/:id", d.DocumentHandler.Delete)

	consent := e.Group("/api/v1/panchayat/consent", requireAuth)
	consent.POST("", d.ConsentHandler.Give)
	consent.DELETE("", d.ConsentHandler.Revoke)
	consent.GET("/status", d.ConsentHandler.Status)

	tenants := e.Group("/api/v1/tenants", requireAuth, authmw.RequireRole([]string{tokens.RolePlatformAdmin}))
	tenants.POST("", d.TenantHandler.Create)
	tenants.GET("", d.TenantHandler.List)
	tenants.GET("/:id", d.TenantHandler.Get)
	tenants.PATCH("/:id/deactivate", d.TenantHandler.Deactivate)
}
