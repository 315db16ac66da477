package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/TripWise_APP_BackEnd/internal/util"
)

const contextUserKey = "tripwise.user_id"

// OptionalAuth attaches the caller's user id when a bearer token is sent.
// Requests without a token pass through anonymously; a token that does not
// verify is rejected. With no JWT secret configured the header is ignored.
func OptionalAuth(jwtManager *util.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if authHeader == "" || !jwtManager.Enabled() {
				return next(c)
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return c.JSON(http.StatusUnauthorized, util.Error("invalid authorization header"))
			}
			claims, err := jwtManager.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, util.Error("invalid or expired token"))
			}
			userID, err := claims.User()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
			}
			c.Set(contextUserKey, userID)
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user id, if any.
func CurrentUserID(c echo.Context) (*uuid.UUID, bool) {
	id, ok := c.Get(contextUserKey).(uuid.UUID)
	if !ok {
		return nil, false
	}
	return &id, true
}
