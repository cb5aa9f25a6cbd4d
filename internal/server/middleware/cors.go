package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
)

// CORS returns echo middleware matching the Origin header against pattern.
// A nil pattern permits any origin, which is what the public search proxy
// advertises.
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			respHeader := c.Response().Header()
			respHeader.Set("Vary", "Origin")
			origin := c.Request().Header.Get("Origin")
			if origin == "" || (pattern != nil && !pattern.MatchString(origin)) {
				return next(c)
			}
			respHeader.Set("Access-Control-Allow-Origin", origin)
			if c.Request().Method == http.MethodOptions {
				respHeader.Set("Access-Control-Allow-Headers", "Content-Type")
				respHeader.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				return c.NoContent(http.StatusOK)
			}

			return next(c)
		}
	}
}
