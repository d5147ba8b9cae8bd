package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
)

const expenseColumns = `id, description, amount, category, date, receipt_url, notes, created_at, updated_at`

// CreateExpense сохраняет расход и заполняет его ID и временные метки.
func (r *PostgresRepository) CreateExpense(ctx context.Context, e *model.Expense) error {
	e.ID = uuid.NewString()

	err := r.pool.QueryRow(ctx,
		`INSERT INTO expenses (id, description, amount, category, date, receipt_url, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		e.ID, e.Description, e.AmountCents, e.Category, e.Date, e.ReceiptURL, e.Notes,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// GetExpense возвращает расход и его порядковый номер (1 у последнего созданного).
func (r *PostgresRepository) GetExpense(ctx context.Context, id string) (*model.Expense, int64, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+`, number
		 FROM (
		     SELECT `+expenseColumns+`, ROW_NUMBER() OVER (ORDER BY created_at DESC) AS number
		     FROM expenses
		 ) numbered
		 WHERE id = $1`,
		id,
	)

	var number int64
	e, err := scanExpense(row, &number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrExpenseNotFound
		}
		return nil, 0, fmt.Errorf("get expense: %w", err)
	}
	return e, number, nil
}

// UpdateExpense обновляет расход.
func (r *PostgresRepository) UpdateExpense(ctx context.Context, e *model.Expense) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE expenses
		 SET description = $2, amount = $3, category = $4, date = $5, receipt_url = $6, notes = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		e.ID, e.Description, e.AmountCents, e.Category, e.Date, e.ReceiptURL, e.Notes,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// DeleteExpense удаляет расход.
func (r *PostgresRepository) DeleteExpense(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

// ListExpenses возвращает расходы по фильтру, последние по дате первыми.
func (r *PostgresRepository) ListExpenses(ctx context.Context, f model.ExpenseFilter) ([]model.Expense, error) {
	where, args := expenseWhere(f)

	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses`+where+` ORDER BY date DESC, created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("select expenses: %w", err)
	}
	defer rows.Close()

	var res []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		res = append(res, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ExpenseStats считает итоги расходов за период [from, to].
func (r *PostgresRepository) ExpenseStats(ctx context.Context, from, to time.Time) (*model.ExpenseStats, error) {
	where, args := expenseWhere(model.ExpenseFilter{From: &from, To: &to})

	stats := &model.ExpenseStats{
		ByCategory: []model.CategoryTotal{},
		ByDay:      []model.DayTotal{},
		Categories: []string{},
	}

	var totalCents int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM expenses`+where,
		args...,
	).Scan(&totalCents, &stats.Count)
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	stats.Total = centsToPesos(totalCents)

	rows, err := r.pool.Query(ctx,
		`SELECT category, SUM(amount), COUNT(*) FROM expenses`+where+`
		 GROUP BY category
		 ORDER BY SUM(amount) DESC, category`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("group expenses by category: %w", err)
	}
	for rows.Next() {
		var (
			ct    model.CategoryTotal
			cents int64
		)
		if err := rows.Scan(&ct.Category, &cents, &ct.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		ct.Total = centsToPesos(cents)
		stats.ByCategory = append(stats.ByCategory, ct)
		stats.Categories = append(stats.Categories, ct.Category)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT to_char(date AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, SUM(amount) FROM expenses`+where+`
		 GROUP BY day
		 ORDER BY day`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("group expenses by day: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			dt    model.DayTotal
			cents int64
		)
		if err := rows.Scan(&dt.Date, &cents); err != nil {
			return nil, fmt.Errorf("scan day total: %w", err)
		}
		dt.Total = centsToPesos(cents)
		stats.ByDay = append(stats.ByDay, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return stats, nil
}

func expenseWhere(f model.ExpenseFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanExpense(row pgx.Row, extra ...any) (*model.Expense, error) {
	var e model.Expense
	dest := []any{&e.ID, &e.Description, &e.AmountCents, &e.Category, &e.Date, &e.ReceiptURL, &e.Notes, &e.CreatedAt, &e.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &e, nil
}

func centsToPesos(cents int64) float64 {
	return float64(cents) / 100
}
