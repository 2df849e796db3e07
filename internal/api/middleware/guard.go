package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mci/portal-api/internal/api/metrics"
	"github.com/mci/portal-api/internal/core/ports"
)

// GuardConfig lists the path prefixes that require a session and where to
// send visitors that have none.
type GuardConfig struct {
	ProtectedPrefixes []string
	LoginURL          string
}

// Guard is the coarse, path-based gate. It only checks that a validly
// signed, unexpired session token is present; roles are checked later by
// Authorize. It performs no store I/O.
func Guard(issuer ports.SessionIssuer, cfg GuardConfig) echo.MiddlewareFunc {
	prefixes := make([]string, 0, len(cfg.ProtectedPrefixes))
	for _, p := range cfg.ProtectedPrefixes {
		p = strings.TrimRight(strings.TrimSpace(p), "/")
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}
	loginPath := cfg.LoginURL
	if u, err := url.Parse(cfg.LoginURL); err == nil {
		loginPath = u.Path
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := ExtractToken(c); token != "" {
				if sess, err := issuer.Validate(token); err == nil {
					setSession(c, sess)
					return next(c)
				}
			}

			path := c.Request().URL.Path
			if path == loginPath || !matchesPrefix(path, prefixes) {
				return next(c)
			}

			metrics.GuardRedirectsTotal.Inc()
			return c.Redirect(http.StatusFound, loginRedirect(cfg.LoginURL, c.Request().URL.RequestURI()))
		}
	}
}

// matchesPrefix is segment aware: "/mci" matches "/mci" and "/mci/x" but
// not "/mcix".
func matchesPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// loginRedirect appends the original location as callbackUrl so the login
// page can send the user back after signing in.
func loginRedirect(loginURL, callback string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return loginURL
	}
	q := u.Query()
	q.Set("callbackUrl", callback)
	u.RawQuery = q.Encode()
	return u.String()
}
