package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	custommiddleware "github.com/LautaroRomano/generador-recibos-pagos/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware системы квитанций.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(chimw.Recoverer)
	r.Use(custommiddleware.GzipMiddleware)

	if len(h.opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Encoding", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware)

				r.Get("/me", h.Me)
				r.Get("/users", h.ListAdmins)
				r.Post("/users", h.CreateAdmin)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", h.ListClients)
				r.Post("/", h.CreateClient)
				r.Get("/{id}", h.GetClient)
				r.Put("/{id}", h.UpdateClient)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", h.ListPayments)
				r.Post("/", h.CreatePayment)
				r.Get("/client/{clientId}", h.ListClientPayments)
				r.Get("/{id}", h.GetPayment)
				r.Put("/{id}", h.UpdatePayment)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", h.ListExpenses)
				r.Post("/", h.CreateExpense)
				r.Get("/stats", h.ExpenseStats)
				r.Get("/{id}", h.GetExpense)
				r.Put("/{id}", h.UpdateExpense)
				r.Delete("/{id}", h.DeleteExpense)
			})

			r.Get("/amount-in-words", h.AmountInWords)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			h.writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			h.writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		})
	})

	if h.opts.StaticDir != "" {
		files := http.FileServer(http.Dir(h.opts.StaticDir))
		r.With(h.authMiddleware.PageGate).Handle("/*", files)
	} else {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			h.writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		})
	}

	return r
}
