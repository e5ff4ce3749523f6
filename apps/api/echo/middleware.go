package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

var corsAllowMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")

// corsMiddleware allows any origin and answers preflight requests itself
// with an empty 200.
func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		h := ctx.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		h.Set(echo.HeaderAccessControlAllowHeaders, strings.Join([]string{echo.HeaderAuthorization, echo.HeaderContentType}, ", "))
		h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)

		if ctx.Request().Method == http.MethodOptions {
			return ctx.NoContent(http.StatusOK)
		}
		return next(ctx)
	}
}
