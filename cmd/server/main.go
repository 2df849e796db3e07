package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mci/portal-api/internal/api"
	"github.com/mci/portal-api/internal/api/handler"
	"github.com/mci/portal-api/internal/api/middleware"
	"github.com/mci/portal-api/internal/core/service"
	"github.com/mci/portal-api/internal/infrastructure/config"
	mongodb "github.com/mci/portal-api/internal/infrastructure/db/mongo"
	redisdb "github.com/mci/portal-api/internal/infrastructure/db/redis"
	"github.com/mci/portal-api/internal/infrastructure/mail"
	"github.com/mci/portal-api/internal/infrastructure/queue"
	"github.com/mci/portal-api/pkg/logger"
)

func main() {
	// Local runs keep secrets in .env; deployed environments set real vars.
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "mci-portal"})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "mci-portal",
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found; relying on existing environment")
	}

	// --- Content store ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "mci-portal",
		Timeout:  cfg.StoreTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("disconnect mongo")
		}
	}()

	users := mongodb.NewUserRepository(db, cfg.StoreTimeout)
	tasks := mongodb.NewTaskRepository(db, cfg.StoreTimeout)
	invitations := mongodb.NewInvitationRepository(db, cfg.StoreTimeout)
	attempts := mongodb.NewAttemptRepository(db, cfg.StoreTimeout)

	for name, ensure := range map[string]func(context.Context) error{
		"users":          users.EnsureIndexes,
		"tasks":          tasks.EnsureIndexes,
		"invitations":    invitations.EnsureIndexes,
		"login_attempts": attempts.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("ensure indexes")
		}
	}

	// --- Revocation list ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.StoreTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	// --- Login audit ---
	audit := queue.NewAuditDispatcher(cfg.Audit.Workers, attempts, logger.Component("audit"))
	audit.Start(ctx)

	// --- Services ---
	issuer := service.NewSessionIssuer(service.SessionConfig{
		Secret:          cfg.Session.Secret,
		PreviousSecrets: cfg.Session.PreviousSecrets,
		Issuer:          cfg.Session.Issuer,
		TTL:             cfg.Session.TTL,
	})
	authLog := logger.Component("auth")
	credentials := service.NewCredentialsProvider(users, audit, authLog)
	authService := service.NewAuthService(issuer, redisdb.NewRevocationList(rdb), authLog, credentials)

	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		Timeout:  cfg.SMTP.Timeout,
	})

	e := api.NewRouter(api.Dependencies{
		Logger:      log,
		Issuer:      issuer,
		Auth:        authService,
		Users:       service.NewUserService(users),
		Tasks:       service.NewTaskService(tasks),
		Invitations: service.NewInvitationService(invitations, logger.Component("invitations")),
		Mail:        service.NewMailService(mailer, cfg.SMTP.From, logger.Component("mail")),
		Guard: middleware.GuardConfig{
			ProtectedPrefixes: cfg.Guard.ProtectedPrefixes,
			LoginURL:          cfg.Guard.LoginURL,
		},
		Cookie: handler.CookieConfig{
			Secure: cfg.Cookie.Secure,
			Domain: cfg.Cookie.Domain,
		},
		MailAllowedRoles: cfg.SMTP.AllowedRoles,
		HealthChecks: map[string]handler.DependencyCheck{
			"mongo": mongodb.HealthCheck(mongoClient),
			"redis": redisdb.HealthCheck(rdb),
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("mci portal api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}
