package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Registers the generated OpenAPI document with swag.
	_ "github.com/mci/portal-api/docs"

	"github.com/mci/portal-api/internal/api/handler"
	"github.com/mci/portal-api/internal/api/middleware"
	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/ports"
)

// Dependencies is everything the router wires into handlers.
type Dependencies struct {
	Logger zerolog.Logger

	Issuer      ports.SessionIssuer
	Auth        ports.AuthService
	Users       ports.UserService
	Tasks       ports.TaskService
	Invitations ports.InvitationService
	Mail        ports.MailService

	Guard  middleware.GuardConfig
	Cookie handler.CookieConfig
	// MailAllowedRoles restricts /api/send-email; empty leaves it open.
	MailAllowedRoles []string

	HealthChecks map[string]handler.DependencyCheck

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "mci",
		Subsystem:  "http",
		Registerer: registerer,
	}))
	// Route guard: path-prefix gate, signature check only.
	e.Use(middleware.Guard(d.Issuer, d.Guard))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie)
	userHandler := handler.NewUserHandler(d.Users)
	taskHandler := handler.NewTaskHandler(d.Tasks)
	inviteHandler := handler.NewInviteHandler(d.Invitations)
	emailHandler := handler.NewEmailHandler(d.Mail)

	// --- Auth routes ---
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/callback/:provider", authHandler.Login)
	e.POST("/api/auth/logout", authHandler.Logout)
	e.GET("/api/auth/session", authHandler.Session)

	// --- MCI board (behind the route guard) ---
	e.GET("/api/mci/tasks", taskHandler.List)
	e.GET("/api/mci/users", userHandler.ListActive)

	// --- Role-checked routes ---
	e.GET("/api/users", userHandler.List, middleware.Authorize(d.Auth, domain.RoleAdmin, domain.RoleStaff))

	// --- Public routes ---
	e.POST("/api/verify-invite", inviteHandler.Verify)

	var mailMiddleware []echo.MiddlewareFunc
	if len(d.MailAllowedRoles) > 0 {
		mailMiddleware = append(mailMiddleware, middleware.Authorize(d.Auth, d.MailAllowedRoles...))
	}
	e.POST("/api/send-email", emailHandler.Send, mailMiddleware...)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.HealthChecks, d.Logger)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
