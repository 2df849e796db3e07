package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mci/portal-api/internal/api/metrics"
	"github.com/mci/portal-api/internal/api/middleware"
	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/ports"
	"github.com/mci/portal-api/internal/core/service"
)

// CookieConfig controls the session cookie set on login.
type CookieConfig struct {
	Secure bool
	Domain string
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type sessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type sessionResponse struct {
	Token   string      `json:"token,omitempty"`
	User    sessionUser `json:"user"`
	Expires string      `json:"expires"`
}

func toSessionResponse(sess *domain.Session, token string) sessionResponse {
	return sessionResponse{
		Token: token,
		User: sessionUser{
			ID:    sess.ID,
			Name:  sess.Name,
			Email: sess.Email,
			Role:  sess.Role,
		},
		Expires: sess.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// Login authenticates credentials and starts a session.
//
// @Summary      Sign in with credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/login [post]
// @Router       /api/auth/callback/{provider} [post]
func (h *AuthHandler) Login(c echo.Context) error {
	provider := c.Param("provider")
	if provider == "" {
		provider = service.CredentialsProviderID
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_payload").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_payload").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, sess, err := h.authService.Login(c.Request().Context(), provider, ports.Credentials{
		Email:    req.Email,
		Password: req.Password,
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrUnknownProvider):
			return echo.NewHTTPError(http.StatusNotFound, "unknown provider")
		default:
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	c.SetCookie(h.sessionCookie(token, sess.ExpiresAt))
	return c.JSON(http.StatusOK, toSessionResponse(sess, token))
}

// Logout ends the current session.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	// The browser copy goes first, even if revocation fails below.
	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))

	if token := middleware.ExtractToken(c); token != "" {
		if err := h.authService.Logout(c.Request().Context(), token); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "signed out"})
}

// Session returns the identity carried by the current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess, err := h.authService.Resolve(c.Request().Context(), middleware.ExtractToken(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess, ""))
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.MaxAge = -1
	}
	return ck
}
