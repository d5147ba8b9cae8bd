package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/numtext"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/receipt"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/validation"
)

type conceptRequest struct {
	ConceptType string  `json:"conceptType"`
	Amount      float64 `json:"amount"`
	Detail      string  `json:"detail"`
}

type paymentRequest struct {
	ClientID    string           `json:"clientId"`
	Date        string           `json:"date"`
	PaymentType string           `json:"paymentType"`
	Concepts    []conceptRequest `json:"concepts"`
}

func (req paymentRequest) toModel() (*model.Payment, error) {
	p := &model.Payment{
		ClientID:    strings.TrimSpace(req.ClientID),
		PaymentType: model.PaymentType(req.PaymentType),
	}

	if req.Date != "" {
		date, ok := validation.ParseDate(req.Date)
		if !ok {
			return nil, validation.Invalid("date", "Fecha inválida")
		}
		p.Date = date
	}

	for _, c := range req.Concepts {
		if c.Amount < 0 || c.Amount > numtext.MaxAmount {
			return nil, numtext.ErrInvalidAmount
		}
		if c.Amount != math.Trunc(c.Amount) {
			return nil, validation.Invalid("amount", "El monto de cada concepto debe ser un número entero")
		}
		p.Concepts = append(p.Concepts, model.Concept{
			ConceptType: model.ConceptType(c.ConceptType),
			Amount:      int64(c.Amount),
			Detail:      strings.TrimSpace(c.Detail),
		})
	}

	return p, nil
}

type conceptResponse struct {
	ID          string `json:"id"`
	ConceptType string `json:"conceptType"`
	Amount      int64  `json:"amount"`
	Detail      string `json:"detail"`
}

type paymentResponse struct {
	ID            string            `json:"id"`
	Number        int64             `json:"number"`
	ReceiptNumber string            `json:"receiptNumber"`
	ClientID      string            `json:"clientId"`
	Client        *clientResponse   `json:"client,omitempty"`
	Date          string            `json:"date"`
	Amount        int64             `json:"amount"`
	AmountText    string            `json:"amountText"`
	PaymentType   string            `json:"paymentType"`
	Concepts      []conceptResponse `json:"concepts"`
	CreatedAt     string            `json:"createdAt"`
}

func toPaymentResponse(p *model.Payment) paymentResponse {
	resp := paymentResponse{
		ID:            p.ID,
		Number:        p.Number,
		ReceiptNumber: receipt.Format(p.Number),
		ClientID:      p.ClientID,
		Date:          p.Date.Format(time.RFC3339),
		Amount:        p.Amount,
		AmountText:    p.AmountText,
		PaymentType:   string(p.PaymentType),
		Concepts:      make([]conceptResponse, 0, len(p.Concepts)),
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	if p.Client != nil {
		c := toClientResponse(p.Client)
		resp.Client = &c
	}
	for _, c := range p.Concepts {
		resp.Concepts = append(resp.Concepts, conceptResponse{
			ID:          c.ID,
			ConceptType: string(c.ConceptType),
			Amount:      c.Amount,
			Detail:      c.Detail,
		})
	}
	return resp
}

func (h *Handler) writePayments(w http.ResponseWriter, payments []model.Payment) {
	resp := make([]paymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, toPaymentResponse(&payments[i]))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// CreatePayment регистрирует платёж и выдаёт квитанцию.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := req.toModel()
	if err != nil {
		h.handleError(w, err, "create payment")
		return
	}

	if err := h.service.CreatePayment(r.Context(), p); err != nil {
		h.handleError(w, err, "create payment", zap.String("client_id", p.ClientID))
		return
	}

	h.writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

// ListPayments возвращает все платежи.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context())
	if err != nil {
		h.handleError(w, err, "list payments")
		return
	}
	h.writePayments(w, payments)
}

// ListClientPayments возвращает платежи клиента.
func (h *Handler) ListClientPayments(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")

	payments, err := h.service.ListPaymentsByClient(r.Context(), clientID)
	if err != nil {
		h.handleError(w, err, "list client payments", zap.String("client_id", clientID))
		return
	}
	h.writePayments(w, payments)
}

// GetPayment возвращает платёж по идентификатору.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "get payment", zap.String("id", id))
		return
	}

	h.writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

// UpdatePayment заменяет данные платежа.
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := req.toModel()
	if err != nil {
		h.handleError(w, err, "update payment")
		return
	}
	p.ID = chi.URLParam(r, "id")

	if err := h.service.UpdatePayment(r.Context(), p); err != nil {
		h.handleError(w, err, "update payment", zap.String("id", p.ID))
		return
	}

	h.writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

type amountInWordsResponse struct {
	Amount float64 `json:"amount"`
	Text   string  `json:"text"`
}

// AmountInWords записывает сумму из параметра amount словами.
func (h *Handler) AmountInWords(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, numtext.InvalidAmountMessage)
		return
	}

	text, err := h.service.AmountInWords(amount)
	if err != nil {
		h.handleError(w, err, "amount in words")
		return
	}

	h.writeJSON(w, http.StatusOK, amountInWordsResponse{Amount: amount, Text: text})
}
