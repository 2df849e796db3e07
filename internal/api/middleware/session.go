package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mci/portal-api/internal/core/domain"
)

const (
	// SessionCookie carries the signed session token for browser clients.
	SessionCookie = "session_token"

	contextKeySession = "session"
)

// ExtractToken returns the session token from the cookie, falling back to an
// "Authorization: Bearer" header. It returns "" when neither is present.
func ExtractToken(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SessionFrom returns the session a previous middleware stored on c, if any.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(contextKeySession).(*domain.Session)
	return sess
}

func setSession(c echo.Context, sess *domain.Session) {
	c.Set(contextKeySession, sess)
}
