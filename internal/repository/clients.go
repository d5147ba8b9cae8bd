package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
)

// CreateClient сохраняет нового клиента и заполняет его ID и CreatedAt.
func (r *PostgresRepository) CreateClient(ctx context.Context, c *model.Client) error {
	c.ID = uuid.NewString()

	err := r.pool.QueryRow(ctx,
		`INSERT INTO clients (id, full_name, email, street, lote, phone)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		c.ID, c.FullName, nullString(c.Email), c.Street, c.Lote, c.Phone,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// GetClient возвращает клиента по идентификатору.
func (r *PostgresRepository) GetClient(ctx context.Context, id string) (*model.Client, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, full_name, email, street, lote, phone, created_at FROM clients WHERE id = $1`,
		id,
	)

	var (
		c     model.Client
		email *string
	)
	err := row.Scan(&c.ID, &c.FullName, &email, &c.Street, &c.Lote, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	c.Email = derefString(email)

	return &c, nil
}

// UpdateClient обновляет данные клиента.
func (r *PostgresRepository) UpdateClient(ctx context.Context, c *model.Client) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE clients SET full_name = $2, email = $3, street = $4, lote = $5, phone = $6
		 WHERE id = $1
		 RETURNING created_at`,
		c.ID, c.FullName, nullString(c.Email), c.Street, c.Lote, c.Phone,
	).Scan(&c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrClientNotFound
		}
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// ListClients возвращает клиентов по алфавиту вместе с датой последнего платежа.
func (r *PostgresRepository) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.full_name, c.email, c.street, c.lote, c.phone, c.created_at,
		        (SELECT MAX(p.date) FROM payments p WHERE p.client_id = c.id)
		 FROM clients c
		 ORDER BY c.full_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select clients: %w", err)
	}
	defer rows.Close()

	var res []model.Client
	for rows.Next() {
		var (
			c        model.Client
			email    *string
			lastPaid *time.Time
		)
		if err := rows.Scan(&c.ID, &c.FullName, &email, &c.Street, &c.Lote, &c.Phone, &c.CreatedAt, &lastPaid); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.Email = derefString(email)
		c.LastPaymentDate = lastPaid
		res = append(res, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
