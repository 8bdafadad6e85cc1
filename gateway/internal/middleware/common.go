package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Common is the middleware every request through the gateway gets,
// regardless of which service it ends up at.
func Common() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		echomw.Recover(),
		echomw.RequestID(),
		echomw.Secure(),
		echomw.CORS(),
	}
}
