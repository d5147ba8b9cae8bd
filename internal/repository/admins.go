package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
)

// CreateAdmin создаёт администратора.
func (r *PostgresRepository) CreateAdmin(ctx context.Context, email, passwordHash, name string) (*model.Admin, error) {
	a := model.Admin{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (id, email, password_hash, name) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		a.ID, a.Email, a.PasswordHash, a.Name,
	).Scan(&a.CreatedAt)
	if err != nil {
		if isPgError(err, pgerrcode.UniqueViolation) {
			return nil, fmt.Errorf("%w: %s", ErrAdminExists, email)
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	return &a, nil
}

// GetAdminByEmail возвращает администратора по email.
func (r *PostgresRepository) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.getAdmin(ctx, `SELECT id, email, password_hash, name, created_at FROM admins WHERE email = $1`, email)
}

// GetAdminByID возвращает администратора по идентификатору.
func (r *PostgresRepository) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	return r.getAdmin(ctx, `SELECT id, email, password_hash, name, created_at FROM admins WHERE id = $1`, id)
}

func (r *PostgresRepository) getAdmin(ctx context.Context, query, arg string) (*model.Admin, error) {
	var a model.Admin
	err := r.pool.QueryRow(ctx, query, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}

// ListAdmins возвращает администраторов, новые первыми.
func (r *PostgresRepository) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, name, created_at FROM admins ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select admins: %w", err)
	}
	defer rows.Close()

	var res []model.Admin
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.Name, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		res = append(res, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateAdminPassword заменяет хеш пароля администратора.
func (r *PostgresRepository) UpdateAdminPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE admins SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}
