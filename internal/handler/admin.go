package handler

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/auth"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/middleware"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/repository"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Success bool                     `json:"success"`
	Admin   *middleware.SessionAdmin `json:"admin,omitempty"`
}

// Login проверяет учётные данные, выдаёт токен и устанавливает cookie сессии.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Email y contraseña son requeridos")
		return
	}

	admin, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAdminNotFound):
			h.writeError(w, http.StatusUnauthorized, "Admin not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			h.writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.handleError(w, err, "login", zap.String("email", req.Email))
		}
		return
	}

	token, err := h.tokens.Issue(auth.Payload{AdminID: admin.ID, Email: admin.Email, Name: admin.Name})
	if err != nil {
		h.handleError(w, err, "issue token", zap.String("admin_id", admin.ID))
		return
	}

	h.authMiddleware.SetSessionCookie(w, token)
	h.writeJSON(w, http.StatusOK, sessionResponse{
		Success: true,
		Admin:   &middleware.SessionAdmin{ID: admin.ID, Email: admin.Email, Name: admin.Name},
	})
}

// Logout удаляет cookie сессии.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authMiddleware.ClearSessionCookie(w)
	h.writeJSON(w, http.StatusOK, sessionResponse{Success: true})
}

// Me возвращает администратора текущей сессии.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || !session.IsLoggedIn {
		h.writeError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	admin := session.Admin
	h.writeJSON(w, http.StatusOK, sessionResponse{Success: true, Admin: &admin})
}

type adminResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

func toAdminResponse(a model.Admin) adminResponse {
	return adminResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// ListAdmins возвращает список администраторов.
func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.service.ListAdmins(r.Context())
	if err != nil {
		h.handleError(w, err, "list admins")
		return
	}

	resp := make([]adminResponse, 0, len(admins))
	for _, a := range admins {
		resp = append(resp, toAdminResponse(a))
	}

	h.writeJSON(w, http.StatusOK, map[string][]adminResponse{"admins": resp})
}

type createAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// CreateAdmin создаёт нового администратора.
func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Email y contraseña son requeridos")
		return
	}

	admin, err := h.service.CreateAdmin(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.handleError(w, err, "create admin", zap.String("email", req.Email))
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{"success": true, "admin": toAdminResponse(*admin)})
}
