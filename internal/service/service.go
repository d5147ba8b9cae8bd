// Package service реализует бизнес-логику системы квитанций клуба.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/auth"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/repository"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/validation"
)

// ErrInvalidCredentials возвращается при неверном пароле.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Ping(ctx context.Context) error
	Close() error

	CreateAdmin(ctx context.Context, email, passwordHash, name string) (*model.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*model.Admin, error)
	ListAdmins(ctx context.Context) ([]model.Admin, error)
	UpdateAdminPassword(ctx context.Context, id, passwordHash string) error

	CreateClient(ctx context.Context, c *model.Client) error
	GetClient(ctx context.Context, id string) (*model.Client, error)
	UpdateClient(ctx context.Context, c *model.Client) error
	ListClients(ctx context.Context) ([]model.Client, error)

	CreatePayment(ctx context.Context, p *model.Payment) error
	UpdatePayment(ctx context.Context, p *model.Payment) error
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	ListPayments(ctx context.Context) ([]model.Payment, error)
	ListPaymentsByClient(ctx context.Context, clientID string) ([]model.Payment, error)

	CreateExpense(ctx context.Context, e *model.Expense) error
	GetExpense(ctx context.Context, id string) (*model.Expense, int64, error)
	UpdateExpense(ctx context.Context, e *model.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, f model.ExpenseFilter) ([]model.Expense, error)
	ExpenseStats(ctx context.Context, from, to time.Time) (*model.ExpenseStats, error)
}

// Mailer отправляет квитанцию клиенту.
type Mailer interface {
	SendReceipt(ctx context.Context, p *model.Payment) error
}

// Service содержит бизнес-логику системы квитанций.
type Service struct {
	repo   Repository
	mailer Mailer
	logger *zap.Logger
	now    func() time.Time
}

// NewService создаёт сервис. mailer может быть nil, тогда квитанции не отправляются.
func NewService(repo Repository, mailer Mailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Ping проверяет доступность хранилища.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Login проверяет email и пароль администратора.
// Если вместо хеша хранится маркер сброса, переданный пароль становится новым.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Admin, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validation.Invalid("credentials", "Email y contraseña son requeridos")
	}

	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if admin.PasswordHash == auth.ResetMarker {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdateAdminPassword(ctx, admin.ID, hash); err != nil {
			return nil, fmt.Errorf("set password: %w", err)
		}
		s.logger.Info("admin password set after reset", zap.String("admin_id", admin.ID))
		admin.PasswordHash = hash
		return admin, nil
	}

	if !auth.VerifyPassword(password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

// LookupAdmin возвращает администратора по идентификатору или nil, если его удалили.
func (s *Service) LookupAdmin(ctx context.Context, id string) (*model.Admin, error) {
	admin, err := s.repo.GetAdminByID(ctx, id)
	if errors.Is(err, repository.ErrAdminNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// CreateAdmin создаёт администратора с указанным паролем.
func (s *Service) CreateAdmin(ctx context.Context, email, password, name string) (*model.Admin, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validation.Invalid("credentials", "Email y contraseña son requeridos")
	}
	if !validation.IsValidEmail(email) {
		return nil, validation.Invalid("email", "Email inválido")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateAdmin(ctx, email, hash, strings.TrimSpace(name))
}

// ListAdmins возвращает администраторов, новые первыми.
func (s *Service) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	return s.repo.ListAdmins(ctx)
}

// IsNotFound сообщает, что запрошенная сущность отсутствует.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrAdminNotFound) ||
		errors.Is(err, repository.ErrClientNotFound) ||
		errors.Is(err, repository.ErrPaymentNotFound) ||
		errors.Is(err, repository.ErrExpenseNotFound)
}
