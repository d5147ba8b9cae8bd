package handler

import (
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/service"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/validation"
)

// maxExpenseAmount ограничивает сумму расхода в песо, чтобы перевод в сентаво не переполнял int64.
const maxExpenseAmount = 1_000_000_000_000

type expenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	ReceiptURL  string  `json:"receiptUrl"`
	Notes       string  `json:"notes"`
}

func (req expenseRequest) toModel() (*model.Expense, error) {
	if math.Abs(req.Amount) > maxExpenseAmount {
		return nil, validation.Invalid("amount", "Monto fuera de rango")
	}

	e := &model.Expense{
		Description: req.Description,
		AmountCents: int64(math.Round(req.Amount * 100)),
		Category:    req.Category,
		ReceiptURL:  req.ReceiptURL,
		Notes:       req.Notes,
	}
	if req.Date != "" {
		date, ok := validation.ParseDate(req.Date)
		if !ok {
			return nil, validation.Invalid("date", "Fecha inválida")
		}
		e.Date = date
	}
	return e, nil
}

type expenseResponse struct {
	ID          string  `json:"id"`
	Number      int64   `json:"number,omitempty"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	ReceiptURL  *string `json:"receiptUrl"`
	Notes       *string `json:"notes"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toExpenseResponse(e *model.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      float64(e.AmountCents) / 100,
		Category:    e.Category,
		Date:        e.Date.Format(time.RFC3339),
		ReceiptURL:  optional(e.ReceiptURL),
		Notes:       optional(e.Notes),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseDateParam читает необязательную дату из query-параметра.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, ok := validation.ParseDate(v)
	if !ok {
		return nil, validation.Invalid(name, "Fecha inválida: "+name)
	}
	return &t, nil
}

// ListExpenses возвращает расходы с фильтрами startDate, endDate и category.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "startDate")
	if err != nil {
		h.handleError(w, err, "list expenses")
		return
	}
	to, err := parseDateParam(r, "endDate")
	if err != nil {
		h.handleError(w, err, "list expenses")
		return
	}

	expenses, err := h.service.ListExpenses(r.Context(), model.ExpenseFilter{
		From:     from,
		To:       to,
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		h.handleError(w, err, "list expenses")
		return
	}

	resp := make([]expenseResponse, 0, len(expenses))
	for i := range expenses {
		resp = append(resp, toExpenseResponse(&expenses[i]))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// CreateExpense сохраняет расход.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !h.decode(w, r, &req) {
		return
	}

	e, err := req.toModel()
	if err != nil {
		h.handleError(w, err, "create expense")
		return
	}

	if err := h.service.CreateExpense(r.Context(), e); err != nil {
		h.handleError(w, err, "create expense")
		return
	}

	h.writeJSON(w, http.StatusCreated, toExpenseResponse(e))
}

// GetExpense возвращает расход с его порядковым номером.
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e, number, err := h.service.GetExpense(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "get expense", zap.String("id", id))
		return
	}

	resp := toExpenseResponse(e)
	resp.Number = number
	h.writeJSON(w, http.StatusOK, resp)
}

// UpdateExpense обновляет расход.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !h.decode(w, r, &req) {
		return
	}

	e, err := req.toModel()
	if err != nil {
		h.handleError(w, err, "update expense")
		return
	}
	e.ID = chi.URLParam(r, "id")

	if err := h.service.UpdateExpense(r.Context(), e); err != nil {
		h.handleError(w, err, "update expense", zap.String("id", e.ID))
		return
	}

	h.writeJSON(w, http.StatusOK, toExpenseResponse(e))
}

// DeleteExpense удаляет расход.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteExpense(r.Context(), id); err != nil {
		h.handleError(w, err, "delete expense", zap.String("id", id))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Gasto eliminado correctamente"})
}

// ExpenseStats возвращает сводку расходов за период.
func (h *Handler) ExpenseStats(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "startDate")
	if err != nil {
		h.handleError(w, err, "expense stats")
		return
	}
	to, err := parseDateParam(r, "endDate")
	if err != nil {
		h.handleError(w, err, "expense stats")
		return
	}

	stats, err := h.service.ExpenseStats(r.Context(), service.StatsQuery{
		From:   from,
		To:     to,
		Period: r.URL.Query().Get("period"),
	})
	if err != nil {
		h.handleError(w, err, "expense stats")
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}
