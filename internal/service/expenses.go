package service

import (
	"context"
	"strings"
	"time"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/validation"
)

// Периоды статистики расходов.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// StatsQuery задаёт окно статистики: явные даты или именованный период.
type StatsQuery struct {
	From   *time.Time
	To     *time.Time
	Period string
}

// CreateExpense сохраняет расход.
func (s *Service) CreateExpense(ctx context.Context, e *model.Expense) error {
	if err := validateExpense(e); err != nil {
		return err
	}
	return s.repo.CreateExpense(ctx, e)
}

// UpdateExpense обновляет расход.
func (s *Service) UpdateExpense(ctx context.Context, e *model.Expense) error {
	if err := validateExpense(e); err != nil {
		return err
	}
	return s.repo.UpdateExpense(ctx, e)
}

// DeleteExpense удаляет расход.
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	return s.repo.DeleteExpense(ctx, id)
}

// GetExpense возвращает расход и его порядковый номер.
func (s *Service) GetExpense(ctx context.Context, id string) (*model.Expense, int64, error) {
	return s.repo.GetExpense(ctx, id)
}

// ListExpenses возвращает расходы по фильтру. Конечная дата без времени включает весь день.
func (s *Service) ListExpenses(ctx context.Context, f model.ExpenseFilter) ([]model.Expense, error) {
	if f.To != nil {
		to := endOfDay(*f.To)
		f.To = &to
	}
	f.Category = strings.TrimSpace(f.Category)
	return s.repo.ListExpenses(ctx, f)
}

// ExpenseStats возвращает сводку расходов за окно запроса.
func (s *Service) ExpenseStats(ctx context.Context, q StatsQuery) (*model.ExpenseStats, error) {
	from, to, err := statsWindow(s.now(), q)
	if err != nil {
		return nil, err
	}
	return s.repo.ExpenseStats(ctx, from, to)
}

// statsWindow вычисляет границы периода. Явные даты имеют приоритет над периодом.
func statsWindow(now time.Time, q StatsQuery) (time.Time, time.Time, error) {
	if q.From != nil && q.To != nil {
		if q.To.Before(*q.From) {
			return time.Time{}, time.Time{}, validation.Invalid("endDate", "La fecha final debe ser posterior a la inicial")
		}
		return *q.From, endOfDay(*q.To), nil
	}

	switch q.Period {
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), now, nil
	case PeriodMonthly, "":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	case PeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now, nil
	default:
		return time.Time{}, time.Time{}, validation.Invalid("period", "Período inválido")
	}
}

func endOfDay(t time.Time) time.Time {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}

func validateExpense(e *model.Expense) error {
	e.Description = strings.TrimSpace(e.Description)
	e.Category = strings.TrimSpace(e.Category)

	if e.Description == "" || e.Category == "" || e.Date.IsZero() {
		return validation.Invalid("expense", "Descripción, monto, categoría y fecha son requeridos")
	}
	if e.AmountCents <= 0 {
		return validation.Invalid("amount", "El monto debe ser mayor a cero")
	}
	return nil
}
