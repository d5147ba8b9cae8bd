// Package receipt нумерует квитанции об оплате и форматирует их номера.
package receipt

import (
	"context"
	"fmt"
)

// Prefix задаёт фиксированный идентификатор точки выдачи квитанций.
const Prefix = "0001-"

// Counter возвращает текущее количество платежей.
type Counter interface {
	CountPayments(ctx context.Context) (int64, error)
}

// NextNumber возвращает номер для новой квитанции: количество платежей + 1.
// Блокировок нет: два параллельных вызова могут получить один и тот же номер,
// поэтому вызывающий код должен сериализовать подсчёт и вставку сам.
func NextNumber(ctx context.Context, c Counter) (int64, error) {
	count, err := c.CountPayments(ctx)
	if err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return count + 1, nil
}

// Format возвращает номер в печатном виде, например 0001-000042.
func Format(n int64) string {
	return fmt.Sprintf("%s%06d", Prefix, n)
}
