package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT,    default=5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Session SessionConfig
	Guard   GuardConfig
	Cookie  CookieConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	SMTP    SMTPConfig
	Audit   AuditConfig
}

type SessionConfig struct {
	Secret          string        `env:"SESSION_SECRET, required"`
	PreviousSecrets []string      `env:"SESSION_PREVIOUS_SECRETS"`
	Issuer          string        `env:"SESSION_ISSUER, default=mci-portal"`
	TTL             time.Duration `env:"SESSION_TTL,    default=8h"`
}

type GuardConfig struct {
	ProtectedPrefixes []string `env:"GUARD_PROTECTED_PREFIXES, default=/mci,/api/mci"`
	LoginURL          string   `env:"LOGIN_URL,                default=/login"`
}

type CookieConfig struct {
	Secure bool   `env:"COOKIE_SECURE, default=true"`
	Domain string `env:"COOKIE_DOMAIN"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=mci"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SMTPConfig struct {
	Host     string        `env:"SMTP_HOST, default=localhost"`
	Port     string        `env:"SMTP_PORT, default=587"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	From     string        `env:"SMTP_FROM, default=noreply@localhost"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT, default=10s"`
	// AllowedRoles restricts /api/send-email; empty leaves it open.
	AllowedRoles []string `env:"MAIL_ALLOWED_ROLES"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsDevelopment reports whether ENV is development. It only switches the
// logger to console output; cookie security is governed by COOKIE_SECURE.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l, so tests can supply a map.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.Session.Secret) == "" {
		errs = append(errs, errors.New("SESSION_SECRET must not be blank"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("STORE_TIMEOUT must be positive"))
	}
	if c.Audit.Workers < 1 {
		errs = append(errs, errors.New("AUDIT_WORKERS must be at least 1"))
	}
	if !strings.HasPrefix(c.Guard.LoginURL, "/") {
		errs = append(errs, errors.New("LOGIN_URL must be an absolute path"))
	}
	return errors.Join(errs...)
}
