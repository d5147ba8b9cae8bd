package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/auth"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/middleware"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/numtext"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/repository"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/service"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/validation"
)

type stubService struct {
	pingErr error

	loginAdmin *model.Admin
	loginErr   error

	admin     *model.Admin
	adminErr  error
	adminGone bool

	createdAdmin   *model.Admin
	createAdminErr error
	admins         []model.Admin

	clientErr error
	client    *model.Client
	clients   []model.Client

	paymentErr     error
	payment        *model.Payment
	payments       []model.Payment
	gotPayment     *model.Payment
	amountInWords  string
	amountWordsErr error

	expenseErr    error
	expense       *model.Expense
	expenseNumber int64
	expenses      []model.Expense
	gotFilter     model.ExpenseFilter
	gotStats      service.StatsQuery
	stats         *model.ExpenseStats
}

func (s *stubService) Ping(ctx context.Context) error { return s.pingErr }

func (s *stubService) Login(ctx context.Context, email, password string) (*model.Admin, error) {
	return s.loginAdmin, s.loginErr
}

func (s *stubService) LookupAdmin(ctx context.Context, id string) (*model.Admin, error) {
	if s.adminGone {
		return nil, nil
	}
	return s.admin, s.adminErr
}

func (s *stubService) CreateAdmin(ctx context.Context, email, password, name string) (*model.Admin, error) {
	return s.createdAdmin, s.createAdminErr
}

func (s *stubService) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	return s.admins, nil
}

func (s *stubService) CreateClient(ctx context.Context, c *model.Client) error {
	if s.clientErr != nil {
		return s.clientErr
	}
	c.ID = "c-1"
	return nil
}

func (s *stubService) UpdateClient(ctx context.Context, c *model.Client) error { return s.clientErr }

func (s *stubService) GetClient(ctx context.Context, id string) (*model.Client, error) {
	return s.client, s.clientErr
}

func (s *stubService) ListClients(ctx context.Context) ([]model.Client, error) {
	return s.clients, s.clientErr
}

func (s *stubService) CreatePayment(ctx context.Context, p *model.Payment) error {
	s.gotPayment = p
	if s.paymentErr != nil {
		return s.paymentErr
	}
	p.ID = "p-1"
	p.Number = 7
	p.Amount = 1500
	p.AmountText = "Mil quinientos"
	return nil
}

func (s *stubService) UpdatePayment(ctx context.Context, p *model.Payment) error {
	s.gotPayment = p
	return s.paymentErr
}

func (s *stubService) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	return s.payment, s.paymentErr
}

func (s *stubService) ListPayments(ctx context.Context) ([]model.Payment, error) {
	return s.payments, s.paymentErr
}

func (s *stubService) ListPaymentsByClient(ctx context.Context, clientID string) ([]model.Payment, error) {
	return s.payments, s.paymentErr
}

func (s *stubService) AmountInWords(amount float64) (string, error) {
	return s.amountInWords, s.amountWordsErr
}

func (s *stubService) CreateExpense(ctx context.Context, e *model.Expense) error {
	if s.expenseErr != nil {
		return s.expenseErr
	}
	e.ID = "e-1"
	return nil
}

func (s *stubService) UpdateExpense(ctx context.Context, e *model.Expense) error { return s.expenseErr }

func (s *stubService) DeleteExpense(ctx context.Context, id string) error { return s.expenseErr }

func (s *stubService) GetExpense(ctx context.Context, id string) (*model.Expense, int64, error) {
	return s.expense, s.expenseNumber, s.expenseErr
}

func (s *stubService) ListExpenses(ctx context.Context, f model.ExpenseFilter) ([]model.Expense, error) {
	s.gotFilter = f
	return s.expenses, s.expenseErr
}

func (s *stubService) ExpenseStats(ctx context.Context, q service.StatsQuery) (*model.ExpenseStats, error) {
	s.gotStats = q
	return s.stats, s.expenseErr
}

type testEnv struct {
	router http.Handler
	tokens *auth.TokenService
	svc    *stubService
}

func newTestEnv(t *testing.T, svc *stubService, opts Options) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenService([]byte("test-secret"), 0)
	require.NoError(t, err)

	if svc.admin == nil && svc.adminErr == nil {
		svc.admin = &model.Admin{ID: "a-1", Email: "admin@club.com", Name: "Admin"}
	}

	logger := zap.NewNop()
	authMiddleware := middleware.NewAuthMiddleware(tokens, svc, false, logger)
	h := NewHandler(svc, logger, tokens, authMiddleware, opts)

	return &testEnv{router: h.SetupRouter(), tokens: tokens, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		token, err := e.tokens.Issue(auth.Payload{AdminID: "a-1", Email: "admin@club.com", Name: "Admin"})
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &stubService{}, Options{})
	w := env.do(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	env = newTestEnv(t, &stubService{pingErr: errors.New("db down")}, Options{})
	w = env.do(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		svc        *stubService
		body       any
		wantStatus int
		wantError  string
		wantCookie bool
	}{
		{
			name:       "success",
			svc:        &stubService{loginAdmin: &model.Admin{ID: "a-1", Email: "admin@club.com", Name: "Admin"}},
			body:       credentialsRequest{Email: "admin@club.com", Password: "pw"},
			wantStatus: http.StatusOK,
			wantCookie: true,
		},
		{
			name:       "empty password",
			svc:        &stubService{},
			body:       credentialsRequest{Email: "admin@club.com"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Email y contraseña son requeridos",
		},
		{
			name:       "bad json",
			svc:        &stubService{},
			body:       "{",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown admin",
			svc:        &stubService{loginErr: repository.ErrAdminNotFound},
			body:       credentialsRequest{Email: "x@club.com", Password: "pw"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Admin not found",
		},
		{
			name:       "wrong password",
			svc:        &stubService{loginErr: service.ErrInvalidCredentials},
			body:       credentialsRequest{Email: "admin@club.com", Password: "bad"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid credentials",
		},
		{
			name:       "store failure",
			svc:        &stubService{loginErr: errors.New("connection reset")},
			body:       credentialsRequest{Email: "admin@club.com", Password: "pw"},
			wantStatus: http.StatusInternalServerError,
			wantError:  internalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.svc, Options{})
			w := env.do(t, http.MethodPost, "/api/admin/login", tt.body, false)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				var resp errorResponse
				decodeBody(t, w, &resp)
				assert.Equal(t, tt.wantError, resp.Error)
			}

			var session *http.Cookie
			for _, c := range w.Result().Cookies() {
				if c.Name == middleware.SessionCookieName {
					session = c
				}
			}
			if !tt.wantCookie {
				assert.Nil(t, session)
				return
			}

			require.NotNil(t, session)
			claims, ok := env.tokens.Verify(session.Value)
			require.True(t, ok)
			assert.Equal(t, "a-1", claims.AdminID)
			assert.JSONEq(t, `{"success":true,"admin":{"id":"a-1","email":"admin@club.com","name":"Admin"}}`, w.Body.String())
		})
	}
}

func TestLogoutAndMe(t *testing.T) {
	env := newTestEnv(t, &stubService{}, Options{})

	w := env.do(t, http.MethodPost, "/api/admin/logout", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	require.Len(t, w.Result().Cookies(), 1)
	assert.Less(t, w.Result().Cookies()[0].MaxAge, 0)

	w = env.do(t, http.MethodGet, "/api/admin/me", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"No autorizado"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/admin/me", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"admin":{"id":"a-1","email":"admin@club.com","name":"Admin"}}`, w.Body.String())
}

func TestDeletedAdminLosesAccess(t *testing.T) {
	env := newTestEnv(t, &stubService{adminGone: true}, Options{})

	w := env.do(t, http.MethodGet, "/api/clients", nil, true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmins(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := &stubService{
		admins:       []model.Admin{{ID: "a-2", Email: "b@club.com", Name: "B", CreatedAt: created}},
		createdAdmin: &model.Admin{ID: "a-3", Email: "c@club.com", CreatedAt: created},
	}
	env := newTestEnv(t, svc, Options{})

	w := env.do(t, http.MethodGet, "/api/admin/users", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admins":[{"id":"a-2","email":"b@club.com","name":"B","createdAt":"2025-01-02T03:04:05Z"}]}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/admin/users", createAdminRequest{Email: "c@club.com", Password: "pw"}, true)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/users", createAdminRequest{Email: "c@club.com"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.createAdminErr = repository.ErrAdminExists
	w = env.do(t, http.MethodPost, "/api/admin/users", createAdminRequest{Email: "c@club.com", Password: "pw"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Ya existe un administrador con este email"}`, w.Body.String())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t, &stubService{}, Options{})

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/clients"},
		{http.MethodPost, "/api/payments"},
		{http.MethodGet, "/api/payments/client/c-1"},
		{http.MethodGet, "/api/expenses/stats"},
		{http.MethodDelete, "/api/expenses/e-1"},
		{http.MethodGet, "/api/amount-in-words?amount=1"},
		{http.MethodGet, "/api/admin/users"},
	} {
		w := env.do(t, route.method, route.path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestClients(t *testing.T) {
	last := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc := &stubService{
		clients: []model.Client{{ID: "c-1", FullName: "Ana", LastPaymentDate: &last}, {ID: "c-2", FullName: "Bruno"}},
	}
	env := newTestEnv(t, svc, Options{})

	w := env.do(t, http.MethodPost, "/api/clients", clientRequest{FullName: "Ana", Email: "ana@club.com"}, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	var created clientResponse
	decodeBody(t, w, &created)
	assert.Equal(t, "c-1", created.ID)
	assert.Equal(t, "Ana", created.FullName)

	w = env.do(t, http.MethodGet, "/api/clients", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var list []clientResponse
	decodeBody(t, w, &list)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].LastPaymentDate)
	assert.Equal(t, "2025-03-01T00:00:00Z", *list[0].LastPaymentDate)
	assert.Nil(t, list[1].LastPaymentDate)

	svc.clientErr = repository.ErrClientNotFound
	w = env.do(t, http.MethodGet, "/api/clients/missing", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Cliente no encontrado"}`, w.Body.String())

	svc.clientErr = validation.Invalid("fullName", "Nombre completo y email son requeridos")
	w = env.do(t, http.MethodPut, "/api/clients/c-1", clientRequest{FullName: "Ana"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Nombre completo y email son requeridos"}`, w.Body.String())
}

func TestCreatePayment(t *testing.T) {
	svc := &stubService{}
	env := newTestEnv(t, svc, Options{})

	body := `{"clientId":"c-1","date":"2025-03-05","paymentType":"Efectivo",
		"concepts":[{"conceptType":"Mantenimiento","amount":1000},{"conceptType":"Otros","amount":500,"detail":" luz "}]}`

	w := env.do(t, http.MethodPost, "/api/payments", body, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp paymentResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "p-1", resp.ID)
	assert.Equal(t, int64(7), resp.Number)
	assert.Equal(t, "0001-000007", resp.ReceiptNumber)
	assert.Equal(t, int64(1500), resp.Amount)
	assert.Equal(t, "Mil quinientos", resp.AmountText)
	assert.Len(t, resp.Concepts, 2)

	require.NotNil(t, svc.gotPayment)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), svc.gotPayment.Date)
	assert.Equal(t, model.PaymentTypeCash, svc.gotPayment.PaymentType)
	assert.Equal(t, "luz", svc.gotPayment.Concepts[1].Detail)
}

func TestCreatePayment_Errors(t *testing.T) {
	valid := `{"clientId":"c-1","date":"2025-03-05","paymentType":"Efectivo","concepts":[{"conceptType":"Otros","amount":10}]}`

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "bad date", body: `{"clientId":"c-1","date":"05/03/2025"}`, wantStatus: http.StatusBadRequest, wantError: "Fecha inválida"},
		{name: "huge concept amount", body: `{"clientId":"c-1","concepts":[{"conceptType":"Otros","amount":1e19}]}`, wantStatus: http.StatusUnprocessableEntity, wantError: numtext.InvalidAmountMessage},
		{name: "negative concept amount", body: `{"clientId":"c-1","concepts":[{"conceptType":"Otros","amount":-5}]}`, wantStatus: http.StatusUnprocessableEntity, wantError: numtext.InvalidAmountMessage},
		{name: "fractional amount", body: `{"clientId":"c-1","concepts":[{"conceptType":"Otros","amount":10.5}]}`, wantStatus: http.StatusBadRequest},
		{name: "validation", body: valid, err: validation.Invalid("paymentType", "Forma de pago inválida"), wantStatus: http.StatusBadRequest, wantError: "Forma de pago inválida"},
		{name: "client missing", body: valid, err: repository.ErrClientNotFound, wantStatus: http.StatusNotFound, wantError: "Cliente no encontrado"},
		{name: "amount out of range", body: valid, err: numtext.ErrInvalidAmount, wantStatus: http.StatusUnprocessableEntity, wantError: numtext.InvalidAmountMessage},
		{name: "internal", body: valid, err: errors.New("tx aborted"), wantStatus: http.StatusInternalServerError, wantError: internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &stubService{paymentErr: tt.err}, Options{})
			w := env.do(t, http.MethodPost, "/api/payments", tt.body, true)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				var resp errorResponse
				decodeBody(t, w, &resp)
				assert.Equal(t, tt.wantError, resp.Error)
			}
		})
	}
}

func TestPaymentsReadAndUpdate(t *testing.T) {
	p := model.Payment{
		ID:          "p-1",
		Number:      3,
		ClientID:    "c-1",
		Client:      &model.Client{ID: "c-1", FullName: "Ana"},
		Amount:      100,
		AmountText:  "Cien",
		PaymentType: model.PaymentTypeDebit,
		Concepts:    []model.Concept{{ID: "k-1", ConceptType: model.ConceptTypeOther, Amount: 100}},
	}
	svc := &stubService{payment: &p, payments: []model.Payment{p}}
	env := newTestEnv(t, svc, Options{})

	w := env.do(t, http.MethodGet, "/api/payments", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var list []paymentResponse
	decodeBody(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "0001-000003", list[0].ReceiptNumber)
	require.NotNil(t, list[0].Client)
	assert.Equal(t, "Ana", list[0].Client.FullName)

	w = env.do(t, http.MethodGet, "/api/payments/client/c-1", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/payments/p-1", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	body := `{"clientId":"c-1","date":"2025-03-05T10:00:00Z","paymentType":"Débito","concepts":[{"conceptType":"Otros","amount":100}]}`
	w = env.do(t, http.MethodPut, "/api/payments/p-1", body, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p-1", svc.gotPayment.ID)

	svc.paymentErr = repository.ErrPaymentNotFound
	w = env.do(t, http.MethodGet, "/api/payments/missing", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Pago no encontrado"}`, w.Body.String())
}

func TestAmountInWords(t *testing.T) {
	env := newTestEnv(t, &stubService{amountInWords: "Veinte y uno"}, Options{})

	w := env.do(t, http.MethodGet, "/api/amount-in-words?amount=21", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"amount":21,"text":"Veinte y uno"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/amount-in-words?amount=abc", nil, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	env = newTestEnv(t, &stubService{amountWordsErr: numtext.ErrInvalidAmount}, Options{})
	w = env.do(t, http.MethodGet, "/api/amount-in-words?amount=2000000", nil, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"`+numtext.InvalidAmountMessage+`"}`, w.Body.String())
}

func TestExpenses(t *testing.T) {
	e := model.Expense{
		ID:          "e-1",
		Description: "Luz",
		AmountCents: 123456,
		Category:    "Servicios",
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	svc := &stubService{expense: &e, expenseNumber: 4, expenses: []model.Expense{e}}
	env := newTestEnv(t, svc, Options{})

	w := env.do(t, http.MethodGet, "/api/expenses?startDate=2025-06-01&endDate=2025-06-30&category=Servicios", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var list []expenseResponse
	decodeBody(t, w, &list)
	require.Len(t, list, 1)
	assert.InDelta(t, 1234.56, list[0].Amount, 1e-9)
	assert.Nil(t, list[0].Notes)
	require.NotNil(t, svc.gotFilter.From)
	require.NotNil(t, svc.gotFilter.To)
	assert.Equal(t, "Servicios", svc.gotFilter.Category)

	w = env.do(t, http.MethodGet, "/api/expenses?startDate=junio", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, amount := range []float64{1e19, -1e19} {
		w = env.do(t, http.MethodPost, "/api/expenses", expenseRequest{Description: "Gas", Amount: amount, Category: "Servicios", Date: "2025-06-02"}, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp errorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "Monto fuera de rango", resp.Error)
	}

	w = env.do(t, http.MethodPost, "/api/expenses", expenseRequest{Description: "Gas", Amount: 10.1, Category: "Servicios", Date: "2025-06-02"}, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	var created expenseResponse
	decodeBody(t, w, &created)
	assert.Equal(t, "e-1", created.ID)
	assert.InDelta(t, 10.1, created.Amount, 1e-9)

	w = env.do(t, http.MethodGet, "/api/expenses/e-1", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var single expenseResponse
	decodeBody(t, w, &single)
	assert.Equal(t, int64(4), single.Number)

	w = env.do(t, http.MethodPut, "/api/expenses/e-1", expenseRequest{Description: "Gas", Amount: 5, Category: "Servicios", Date: "2025-06-02"}, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/expenses/e-1", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Gasto eliminado correctamente"}`, w.Body.String())

	svc.expenseErr = repository.ErrExpenseNotFound
	w = env.do(t, http.MethodDelete, "/api/expenses/missing", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Gasto no encontrado"}`, w.Body.String())
}

func TestExpenseStats(t *testing.T) {
	svc := &stubService{stats: &model.ExpenseStats{
		Total:      300,
		Count:      2,
		ByCategory: []model.CategoryTotal{{Category: "Servicios", Total: 300, Count: 2}},
		ByDay:      []model.DayTotal{{Date: "2025-06-01", Total: 300}},
		Categories: []string{"Servicios"},
	}}
	env := newTestEnv(t, svc, Options{})

	w := env.do(t, http.MethodGet, "/api/expenses/stats?period=weekly", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":300,"count":2,
		"byCategory":[{"category":"Servicios","total":300,"count":2}],
		"byDay":[{"date":"2025-06-01","total":300}],
		"categories":["Servicios"]}`, w.Body.String())
	assert.Equal(t, "weekly", svc.gotStats.Period)
	assert.Nil(t, svc.gotStats.From)
}

func TestUnknownAPIRoute(t *testing.T) {
	env := newTestEnv(t, &stubService{}, Options{})

	w := env.do(t, http.MethodGet, "/api/unknown", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestStaticFrontendBehindPageGate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir, "index.html", "<h1>panel</h1>"))
	require.NoError(t, writeFile(dir, "logo.jpg", "jpg"))

	env := newTestEnv(t, &stubService{}, Options{StaticDir: dir})

	w := env.do(t, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?callbackUrl=%2F", w.Header().Get("Location"))

	w = env.do(t, http.MethodGet, "/logo.jpg", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "panel")
}
