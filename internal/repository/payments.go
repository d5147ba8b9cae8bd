package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/receipt"
)

// receiptLockKey задаёт ключ advisory-блокировки, сериализующей нумерацию квитанций.
const receiptLockKey int64 = 0x52454349

const paymentColumns = `p.id, p.number, p.client_id, p.date, p.amount, p.amount_text, p.payment_type, p.created_at,
	c.id, c.full_name, c.email, c.street, c.lote, c.phone, c.created_at`

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type lockingQuerier interface {
	querier
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// rowCounter считает платежи в рамках переданного соединения или транзакции.
type rowCounter struct {
	q querier
}

func (c rowCounter) CountPayments(ctx context.Context) (int64, error) {
	var n int64
	if err := c.q.QueryRow(ctx, `SELECT COUNT(*) FROM payments`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountPayments возвращает количество платежей.
func (r *PostgresRepository) CountPayments(ctx context.Context) (int64, error) {
	n, err := rowCounter{q: r.pool}.CountPayments(ctx)
	if err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return n, nil
}

// CreatePayment сохраняет платёж с позициями и присваивает ему номер квитанции.
// Подсчёт и вставка выполняются под advisory-блокировкой транзакции.
func (r *PostgresRepository) CreatePayment(ctx context.Context, p *model.Payment) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		number, err := lockedNextNumber(ctx, tx)
		if err != nil {
			return err
		}

		id := uuid.NewString()
		err = tx.QueryRow(ctx,
			`INSERT INTO payments (id, number, client_id, date, amount, amount_text, payment_type)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING created_at`,
			id, number, p.ClientID, p.Date, p.Amount, p.AmountText, string(p.PaymentType),
		).Scan(&p.CreatedAt)
		if err != nil {
			if isPgError(err, pgerrcode.ForeignKeyViolation) {
				return ErrClientNotFound
			}
			return fmt.Errorf("insert payment: %w", err)
		}

		if err := insertConcepts(ctx, tx, id, p.Concepts); err != nil {
			return err
		}

		if err := commitTx(ctx, tx); err != nil {
			return err
		}

		p.ID = id
		p.Number = number
		return nil
	})
}

// UpdatePayment обновляет платёж и полностью заменяет его позиции. Номер не меняется.
func (r *PostgresRepository) UpdatePayment(ctx context.Context, p *model.Payment) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		err = tx.QueryRow(ctx,
			`UPDATE payments
			 SET client_id = $2, date = $3, amount = $4, amount_text = $5, payment_type = $6
			 WHERE id = $1
			 RETURNING number, created_at`,
			p.ID, p.ClientID, p.Date, p.Amount, p.AmountText, string(p.PaymentType),
		).Scan(&p.Number, &p.CreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPaymentNotFound
			}
			if isPgError(err, pgerrcode.ForeignKeyViolation) {
				return ErrClientNotFound
			}
			return fmt.Errorf("update payment: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM payment_concepts WHERE payment_id = $1`, p.ID); err != nil {
			return fmt.Errorf("delete concepts: %w", err)
		}

		if err := insertConcepts(ctx, tx, p.ID, p.Concepts); err != nil {
			return err
		}

		return commitTx(ctx, tx)
	})
}

// lockedNextNumber берёт advisory-блокировку транзакции и только затем считает платежи.
func lockedNextNumber(ctx context.Context, q lockingQuerier) (int64, error) {
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, receiptLockKey); err != nil {
		return 0, fmt.Errorf("lock receipt numbering: %w", err)
	}
	return receipt.NextNumber(ctx, rowCounter{q: q})
}

func insertConcepts(ctx context.Context, tx pgx.Tx, paymentID string, concepts []model.Concept) error {
	batch := &pgx.Batch{}
	for i := range concepts {
		concepts[i].ID = uuid.NewString()
		batch.Queue(
			`INSERT INTO payment_concepts (id, payment_id, position, concept_type, amount, detail)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			concepts[i].ID, paymentID, i, string(concepts[i].ConceptType), concepts[i].Amount, concepts[i].Detail,
		)
	}

	if batch.Len() == 0 {
		return nil
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert concepts: %w", err)
	}
	return nil
}

// GetPayment возвращает платёж вместе с клиентом и позициями.
func (r *PostgresRepository) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	payments, err := r.selectPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments p JOIN clients c ON c.id = p.client_id WHERE p.id = $1`,
		id,
	)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, ErrPaymentNotFound
	}
	return &payments[0], nil
}

// ListPayments возвращает все платежи, последние по дате первыми.
func (r *PostgresRepository) ListPayments(ctx context.Context) ([]model.Payment, error) {
	return r.selectPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments p JOIN clients c ON c.id = p.client_id
		 ORDER BY p.date DESC, p.number DESC`,
	)
}

// ListPaymentsByClient возвращает платежи клиента, последние по дате первыми.
func (r *PostgresRepository) ListPaymentsByClient(ctx context.Context, clientID string) ([]model.Payment, error) {
	return r.selectPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments p JOIN clients c ON c.id = p.client_id
		 WHERE p.client_id = $1
		 ORDER BY p.date DESC, p.number DESC`,
		clientID,
	)
}

func (r *PostgresRepository) selectPayments(ctx context.Context, query string, args ...any) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select payments: %w", err)
	}
	defer rows.Close()

	var (
		res   []model.Payment
		ids   []string
		index = map[string]int{}
	)
	for rows.Next() {
		var (
			p           model.Payment
			c           model.Client
			paymentType string
			email       *string
		)
		err := rows.Scan(
			&p.ID, &p.Number, &p.ClientID, &p.Date, &p.Amount, &p.AmountText, &paymentType, &p.CreatedAt,
			&c.ID, &c.FullName, &email, &c.Street, &c.Lote, &c.Phone, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.PaymentType = model.PaymentType(paymentType)
		c.Email = derefString(email)
		p.Client = &c

		index[p.ID] = len(res)
		ids = append(ids, p.ID)
		res = append(res, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(ids) == 0 {
		return res, nil
	}

	if err := r.attachConcepts(ctx, res, ids, index); err != nil {
		return nil, err
	}

	return res, nil
}

func (r *PostgresRepository) attachConcepts(ctx context.Context, payments []model.Payment, ids []string, index map[string]int) error {
	rows, err := r.pool.Query(ctx,
		`SELECT payment_id, id, concept_type, amount, detail
		 FROM payment_concepts
		 WHERE payment_id = ANY($1)
		 ORDER BY payment_id, position`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("select concepts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			paymentID   string
			c           model.Concept
			conceptType string
		)
		if err := rows.Scan(&paymentID, &c.ID, &conceptType, &c.Amount, &c.Detail); err != nil {
			return fmt.Errorf("scan concept: %w", err)
		}
		c.ConceptType = model.ConceptType(conceptType)

		if i, ok := index[paymentID]; ok {
			payments[i].Concepts = append(payments[i].Concepts, c)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}
	return nil
}
