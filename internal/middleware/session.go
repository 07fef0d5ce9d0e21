// Package middleware provides shared request processing for handlers:
// the admin session gate, Redis-backed rate limiting, and the public
// slot-list response cache.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oreshkin/slotbook/internal/auth"
)

// AdminAuth returns an Echo middleware that admits a request only when its
// Authorization header carries a bearer token currently present in the
// session store.  The token is opaque: validity is set membership, nothing
// else, so restarting the process logs every admin out.  This middleware
// must wrap every admin-only route (full slot listing, cancel).
func AdminAuth(sessions *auth.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if !sessions.Valid(token) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}
