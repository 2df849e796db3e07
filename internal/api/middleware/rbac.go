package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mci/portal-api/internal/api/metrics"
	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/service"
)

// SessionResolver turns a raw token into a live (unexpired, unrevoked)
// session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// Authorize is the per-route role check. The session is re-read and
// re-validated on every request, then matched against allowedRoles. A deny
// answers 403 before the handler runs, so no data access happens.
func Authorize(sessions SessionResolver, allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *domain.Session
			if token := ExtractToken(c); token != "" {
				if resolved, err := sessions.Resolve(c.Request().Context(), token); err == nil {
					sess = resolved
				}
			}

			if err := service.Authorize(sess, allowedRoles...); err != nil {
				reason := "forbidden"
				if errors.Is(err, domain.ErrUnauthenticated) {
					reason = "unauthenticated"
				}
				metrics.AuthorizationDeniedTotal.WithLabelValues(c.Path(), reason).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}

			setSession(c, sess)
			return next(c)
		}
	}
}
