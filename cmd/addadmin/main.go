// Package main создаёт первого администратора системы квитанций.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/auth"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/config"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/repository"
)

type adminSeed struct {
	Email    string `env:"ADMIN_EMAIL" envDefault:"admin@clubnautico.com"`
	Password string `env:"ADMIN_PASSWORD,required,notEmpty"`
	Name     string `env:"ADMIN_NAME" envDefault:"Administrador"`
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}
	if cfg.DatabaseURI == "" {
		sugar.Fatalw("configuration error", "error", config.ErrMissingDatabase.Error())
	}

	var seed adminSeed
	if err := env.Parse(&seed); err != nil {
		sugar.Fatalw("admin seed configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := repo.GetAdminByEmail(ctx, seed.Email); err == nil {
		sugar.Infow("admin already exists, skipping", "email", seed.Email)
		return
	} else if !errors.Is(err, repository.ErrAdminNotFound) {
		sugar.Fatalw("lookup admin error", "error", err.Error())
	}

	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		sugar.Fatalw("hash password error", "error", err.Error())
	}

	admin, err := repo.CreateAdmin(ctx, seed.Email, hash, seed.Name)
	if err != nil {
		sugar.Fatalw("create admin error", "error", err.Error())
	}

	sugar.Infow("admin created", "id", admin.ID, "email", admin.Email)
}
