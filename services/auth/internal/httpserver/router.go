package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gramseva/panchayat-backend/pkg/metrics"
	authmw "github.com/gramseva/panchayat-backend/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler *AuthHTTP
	JWTSecret   []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", metrics.Handler())

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/refresh", d.AuthHandler.Refresh)

	private := e.Group("")
	private.Use(authmw.RequireAuth(d.JWTSecret))
	private.POST("/logout", d.AuthHandler.LogOut)
}
