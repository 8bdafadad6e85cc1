package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/gramseva/panchayat-backend/services/content/internal/drive"
	"github.com/gramseva/panchayat-backend/services/content/internal/googleauth"
	"github.com/gramseva/panchayat-backend/services/content/internal/service"
)

// httpError maps service/adapter errors onto the response taxonomy:
// 400 validation/consent/ownership, 401 unusable credential, 404
// missing rows, 502 provider failures (with the actionable message for
// the API-disabled case).
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrNoConsent),
		errors.Is(err, service.ErrNoPermission),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrTenantInactive),
		errors.Is(err, googleauth.ErrBadState):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, googleauth.ErrUnauthorized),
		errors.Is(err, googleauth.ErrNotConnected),
		errors.Is(err, drive.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())

	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, drive.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "resource not found")

	case errors.Is(err, drive.ErrAPIDisabled):
		return echo.NewHTTPError(http.StatusBadGateway, drive.ErrAPIDisabled.Error())

	case errors.Is(err, drive.ErrPermission), errors.Is(err, drive.ErrRemote):
		return echo.NewHTTPError(http.StatusBadGateway, "remote storage provider error")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
