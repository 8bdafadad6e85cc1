package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/gramseva/panchayat-backend/pkg/middleware/auth"
	"github.com/gramseva/panchayat-backend/services/content/internal/service"
	"github.com/gramseva/panchayat-backend/services/content/internal/transport"
)

type ConsentHTTP struct {
	Svc *service.ConsentService
}

func (h *ConsentHTTP) Give(c echo.Context) error {
	consent, err := h.Svc.Give(c.Request().Context(), authmw.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, consent)
}

func (h *ConsentHTTP) Revoke(c echo.Context) error {
	if err := h.Svc.Revoke(c.Request().Context(), authmw.UserID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *ConsentHTTP) Status(c echo.Context) error {
	active, err := h.Svc.HasActive(c.Request().Context(), authmw.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.ConsentStatusResponse{Active: active})
}
