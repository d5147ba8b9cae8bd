package service

import (
	"context"
	"strings"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/validation"
)

// CreateClient регистрирует клиента. Email необязателен, но если указан, должен быть корректным.
func (s *Service) CreateClient(ctx context.Context, c *model.Client) error {
	normalizeClient(c)
	if c.FullName == "" {
		return validation.Invalid("fullName", "El nombre completo es requerido")
	}
	if c.Email != "" && !validation.IsValidEmail(c.Email) {
		return validation.Invalid("email", "Email inválido")
	}
	return s.repo.CreateClient(ctx, c)
}

// UpdateClient обновляет клиента. При обновлении email обязателен.
func (s *Service) UpdateClient(ctx context.Context, c *model.Client) error {
	normalizeClient(c)
	if c.FullName == "" || c.Email == "" {
		return validation.Invalid("fullName", "Nombre completo y email son requeridos")
	}
	if !validation.IsValidEmail(c.Email) {
		return validation.Invalid("email", "Email inválido")
	}
	return s.repo.UpdateClient(ctx, c)
}

// GetClient возвращает клиента.
func (s *Service) GetClient(ctx context.Context, id string) (*model.Client, error) {
	return s.repo.GetClient(ctx, id)
}

// ListClients возвращает клиентов по алфавиту.
func (s *Service) ListClients(ctx context.Context) ([]model.Client, error) {
	return s.repo.ListClients(ctx)
}

func normalizeClient(c *model.Client) {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Email = strings.TrimSpace(c.Email)
	c.Street = strings.TrimSpace(c.Street)
	c.Lote = strings.TrimSpace(c.Lote)
	c.Phone = strings.TrimSpace(c.Phone)
}
