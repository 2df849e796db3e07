package service

import "github.com/mci/portal-api/internal/core/domain"

// Authorize is the handler-level role check. It denies with
// domain.ErrUnauthenticated when there is no session and with
// domain.ErrForbidden when the case-folded role is not allowed.
func Authorize(sess *domain.Session, allowed ...string) error {
	if sess == nil {
		return domain.ErrUnauthenticated
	}

	role := domain.NormalizeRole(sess.Role)
	if role == "" {
		return domain.ErrForbidden
	}
	for _, a := range allowed {
		if domain.NormalizeRole(a) == role {
			return nil
		}
	}
	return domain.ErrForbidden
}
