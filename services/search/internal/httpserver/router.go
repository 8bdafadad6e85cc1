package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gramseva/panchayat-backend/pkg/metrics"
)

type Deps struct {
	SearchHandler *SearchHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", metrics.Handler())

	// public: the panchayat websites query this without auth
	e.GET("/api/v1/search/documents", d.SearchHandler.Documents)
}
