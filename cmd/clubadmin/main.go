// Package main запускает HTTP-сервер системы квитанций клуба.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/auth"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/config"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/handler"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/mailer"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/middleware"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/repository"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/service"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger initialization error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sugar := logger.Sugar()

	if err := cfg.Validate(); err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret), auth.DefaultTokenTTL)
	if err != nil {
		sugar.Fatalw("token service initialization error", "error", err.Error())
	}

	var receiptMailer service.Mailer
	if cfg.MailEnabled() {
		receiptMailer = mailer.NewClient(cfg.MailBaseURL, cfg.MailAPIKey, cfg.MailFrom)
	} else {
		sugar.Warn("RESEND_API_KEY is not set, receipts will not be e-mailed")
	}

	svc := service.NewService(repo, receiptMailer, logger)
	defer svc.Close()

	authMiddleware := middleware.NewAuthMiddleware(tokens, svc, cfg.CookieSecure, logger)
	h := handler.NewHandler(svc, logger, tokens, authMiddleware, handler.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		StaticDir:      cfg.StaticDir,
	})

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting club receipts server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка сервера)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
