package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
)

type clientRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Street   string `json:"street"`
	Lote     string `json:"lote"`
	Phone    string `json:"phone"`
}

func (req clientRequest) toModel() *model.Client {
	return &model.Client{
		FullName: req.FullName,
		Email:    req.Email,
		Street:   req.Street,
		Lote:     req.Lote,
		Phone:    req.Phone,
	}
}

type clientResponse struct {
	ID              string  `json:"id"`
	FullName        string  `json:"fullName"`
	Email           string  `json:"email"`
	Street          string  `json:"street"`
	Lote            string  `json:"lote"`
	Phone           string  `json:"phone"`
	CreatedAt       string  `json:"createdAt"`
	LastPaymentDate *string `json:"lastPaymentDate,omitempty"`
}

func toClientResponse(c *model.Client) clientResponse {
	resp := clientResponse{
		ID:        c.ID,
		FullName:  c.FullName,
		Email:     c.Email,
		Street:    c.Street,
		Lote:      c.Lote,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.LastPaymentDate != nil {
		last := c.LastPaymentDate.Format(time.RFC3339)
		resp.LastPaymentDate = &last
	}
	return resp
}

// CreateClient регистрирует клиента.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !h.decode(w, r, &req) {
		return
	}

	c := req.toModel()
	if err := h.service.CreateClient(r.Context(), c); err != nil {
		h.handleError(w, err, "create client")
		return
	}

	h.writeJSON(w, http.StatusCreated, toClientResponse(c))
}

// ListClients возвращает клиентов с датой последнего платежа.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.ListClients(r.Context())
	if err != nil {
		h.handleError(w, err, "list clients")
		return
	}

	resp := make([]clientResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, toClientResponse(&clients[i]))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetClient возвращает клиента по идентификатору.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.service.GetClient(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "get client", zap.String("id", id))
		return
	}

	h.writeJSON(w, http.StatusOK, toClientResponse(c))
}

// UpdateClient обновляет данные клиента.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !h.decode(w, r, &req) {
		return
	}

	c := req.toModel()
	c.ID = chi.URLParam(r, "id")

	if err := h.service.UpdateClient(r.Context(), c); err != nil {
		h.handleError(w, err, "update client", zap.String("id", c.ID))
		return
	}

	h.writeJSON(w, http.StatusOK, toClientResponse(c))
}
