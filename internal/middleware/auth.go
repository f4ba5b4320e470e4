package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/minhvt/restaurant-reservation/internal/models"
)

const actorKey = "actor"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWT extracts the opaque actor (subject + role) issued by the external
// auth service. When required is false, requests without a token pass
// through as an anonymous customer.
func JWT(secret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				if required {
					return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
				}
				return next(c)
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			var cl claims
			token, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			role := cl.Role
			if role == "" {
				role = models.RoleCustomer
			}
			c.Set(actorKey, models.Actor{ID: cl.Subject, Role: role})
			return next(c)
		}
	}
}

// RequireRole guards staff/admin routes. Admin implies employee access.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFrom(c)
			if actor.ID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if allowed[actor.Role] || (actor.Role == models.RoleAdmin && allowed[models.RoleEmployee]) {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

// ActorFrom returns the request actor, zero-valued for anonymous requests.
func ActorFrom(c echo.Context) models.Actor {
	if a, ok := c.Get(actorKey).(models.Actor); ok {
		return a
	}
	return models.Actor{Role: models.RoleCustomer}
}
