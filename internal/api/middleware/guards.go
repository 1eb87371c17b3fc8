package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/taskforge/internal/core/ports"
)

// RemoteToken rejects requests whose (public_user_id, token) pair does not
// pass the synchronous check against the auth service. The checker fails
// closed, so an unreachable auth service denies every guarded request.
func RemoteToken(checker ports.TokenChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			publicID := c.FormValue("public_user_id")
			token := c.FormValue("token")
			if publicID == "" || token == "" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			if !checker.CheckToken(c.Request().Context(), publicID, token) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// Privileged rejects requests whose caller is not mirrored locally with a
// role of manager or better. A mirror read failure also denies.
func Privileged(mirror ports.MirrorService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			publicID := c.FormValue("public_user_id")
			ok, err := mirror.IsPrivileged(c.Request().Context(), publicID)
			if err != nil || !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
