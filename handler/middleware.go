package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/francescomascellino/library-api/service"
)

const (
	identityUserIDKey   = "auth_user_id"
	identityUsernameKey = "auth_username"
)

// JWTAuth guards a route group: it extracts the bearer token from the
// Authorization header, verifies it, and stores the caller's identity on
// the request context.
func JWTAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			identity, err := auth.ParseToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(identityUserIDKey, identity.UserID)
			c.Set(identityUsernameKey, identity.Username)
			return next(c)
		}
	}
}

// requesterID returns the authenticated user ID stored by JWTAuth, empty on
// unguarded routes.
func requesterID(c echo.Context) string {
	id, _ := c.Get(identityUserIDKey).(string)
	return id
}
