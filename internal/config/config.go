// Package config содержит логику чтения конфигурации сервиса квитанций.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress  = "localhost:8080"
	defaultMailBaseURL = "https://api.resend.com"
	defaultMailFrom    = "Digicom <noreply@redapuntes.com>"
	defaultLogLevel    = "info"
)

var (
	// ErrMissingSecret возвращается, если не задан секрет подписи токенов.
	ErrMissingSecret = errors.New("JWT_SECRET is required")
	// ErrMissingDatabase возвращается, если не задан адрес базы данных.
	ErrMissingDatabase = errors.New("DATABASE_URI is required")
)

// Config содержит параметры конфигурации сервиса.
type Config struct {
	RunAddress         string `env:"RUN_ADDRESS"`
	DatabaseURI        string `env:"DATABASE_URI"`
	JWTSecret          string `env:"JWT_SECRET"`
	CookieSecure       bool   `env:"COOKIE_SECURE"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`
	StaticDir          string `env:"STATIC_DIR"`
	MailAPIKey         string `env:"RESEND_API_KEY"`
	MailBaseURL        string `env:"RESEND_BASE_URL"`
	MailFrom           string `env:"MAIL_FROM"`
	LogLevel           string `env:"LOG_LEVEL"`
}

// Parse считывает конфигурацию из .env, флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	envCfg := Config{}
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := &Config{}
	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.JWTSecret, "s", "", "session token signing secret")
	flag.BoolVar(&cfg.CookieSecure, "secure", false, "mark session cookie as Secure")
	flag.StringVar(&cfg.CORSAllowedOrigins, "cors", "", "comma separated list of allowed CORS origins")
	flag.StringVar(&cfg.StaticDir, "static", "", "directory with the built frontend")
	flag.StringVar(&cfg.MailAPIKey, "mail-key", "", "Resend API key")
	flag.StringVar(&cfg.MailBaseURL, "mail-url", defaultMailBaseURL, "Resend API base URL")
	flag.StringVar(&cfg.MailFrom, "mail-from", defaultMailFrom, "sender of receipt e-mails")
	flag.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, "log level")

	flag.Parse()

	overrideString(&cfg.RunAddress, envCfg.RunAddress)
	overrideString(&cfg.DatabaseURI, envCfg.DatabaseURI)
	overrideString(&cfg.JWTSecret, envCfg.JWTSecret)
	overrideString(&cfg.CORSAllowedOrigins, envCfg.CORSAllowedOrigins)
	overrideString(&cfg.StaticDir, envCfg.StaticDir)
	overrideString(&cfg.MailAPIKey, envCfg.MailAPIKey)
	overrideString(&cfg.MailBaseURL, envCfg.MailBaseURL)
	overrideString(&cfg.MailFrom, envCfg.MailFrom)
	overrideString(&cfg.LogLevel, envCfg.LogLevel)
	if _, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		cfg.CookieSecure = envCfg.CookieSecure
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	return cfg, nil
}

func overrideString(dst *string, envValue string) {
	if envValue != "" {
		*dst = envValue
	}
}

// Validate проверяет обязательные параметры. Секрет по умолчанию не подставляется.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.DatabaseURI == "" {
		return ErrMissingDatabase
	}
	return nil
}

// AllowedOrigins возвращает список разрешённых CORS-источников.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// MailEnabled сообщает, настроена ли отправка квитанций по почте.
func (c *Config) MailEnabled() bool {
	return c.MailAPIKey != ""
}
