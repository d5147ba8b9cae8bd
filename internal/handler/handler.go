// Package handler содержит HTTP-обработчики API системы квитанций.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/auth"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/middleware"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/numtext"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/repository"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/service"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/validation"
)

const internalErrorMessage = "Error interno del servidor"

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Ping(ctx context.Context) error

	Login(ctx context.Context, email, password string) (*model.Admin, error)
	LookupAdmin(ctx context.Context, id string) (*model.Admin, error)
	CreateAdmin(ctx context.Context, email, password, name string) (*model.Admin, error)
	ListAdmins(ctx context.Context) ([]model.Admin, error)

	CreateClient(ctx context.Context, c *model.Client) error
	UpdateClient(ctx context.Context, c *model.Client) error
	GetClient(ctx context.Context, id string) (*model.Client, error)
	ListClients(ctx context.Context) ([]model.Client, error)

	CreatePayment(ctx context.Context, p *model.Payment) error
	UpdatePayment(ctx context.Context, p *model.Payment) error
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	ListPayments(ctx context.Context) ([]model.Payment, error)
	ListPaymentsByClient(ctx context.Context, clientID string) ([]model.Payment, error)
	AmountInWords(amount float64) (string, error)

	CreateExpense(ctx context.Context, e *model.Expense) error
	UpdateExpense(ctx context.Context, e *model.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	GetExpense(ctx context.Context, id string) (*model.Expense, int64, error)
	ListExpenses(ctx context.Context, f model.ExpenseFilter) ([]model.Expense, error)
	ExpenseStats(ctx context.Context, q service.StatsQuery) (*model.ExpenseStats, error)
}

// Options задаёт необязательные части HTTP-слоя.
type Options struct {
	AllowedOrigins []string
	StaticDir      string
}

// Handler реализует HTTP-обработчики API системы квитанций.
type Handler struct {
	service        Service
	logger         *zap.Logger
	tokens         *auth.TokenService
	authMiddleware *middleware.AuthMiddleware
	opts           Options
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, tokens *auth.TokenService, authMiddleware *middleware.AuthMiddleware, opts Options) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		tokens:         tokens,
		authMiddleware: authMiddleware,
		opts:           opts,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "JSON inválido")
		return false
	}
	return true
}

// handleError переводит ошибку сервиса в HTTP-ответ. Внутренние ошибки не раскрываются.
func (h *Handler) handleError(w http.ResponseWriter, err error, op string, fields ...zap.Field) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		h.writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, repository.ErrClientNotFound):
		h.writeError(w, http.StatusNotFound, "Cliente no encontrado")
	case errors.Is(err, repository.ErrPaymentNotFound):
		h.writeError(w, http.StatusNotFound, "Pago no encontrado")
	case errors.Is(err, repository.ErrExpenseNotFound):
		h.writeError(w, http.StatusNotFound, "Gasto no encontrado")
	case errors.Is(err, repository.ErrAdminNotFound):
		h.writeError(w, http.StatusNotFound, "Admin not found")
	case errors.Is(err, repository.ErrAdminExists):
		h.writeError(w, http.StatusBadRequest, "Ya existe un administrador con este email")
	case errors.Is(err, numtext.ErrInvalidAmount):
		h.writeError(w, http.StatusUnprocessableEntity, numtext.InvalidAmountMessage)
	default:
		h.logger.Error(op+" error", append(fields, zap.Error(err))...)
		h.writeError(w, http.StatusInternalServerError, internalErrorMessage)
	}
}

// Health сообщает о доступности сервиса и базы данных.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Error("health check error", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
