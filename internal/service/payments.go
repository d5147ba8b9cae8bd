package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/numtext"
	"github.com/LautaroRomano/generador-recibos-pagos/internal/validation"
)

// CreatePayment проверяет и сохраняет платёж, присваивает номер квитанции
// и отправляет квитанцию клиенту, если настроена почта.
// Ошибка отправки письма только логируется.
func (s *Service) CreatePayment(ctx context.Context, p *model.Payment) error {
	if err := s.preparePayment(ctx, p); err != nil {
		return err
	}

	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return err
	}

	s.sendReceipt(ctx, p)
	return nil
}

// UpdatePayment заменяет данные и позиции платежа. Номер квитанции сохраняется.
func (s *Service) UpdatePayment(ctx context.Context, p *model.Payment) error {
	if err := s.preparePayment(ctx, p); err != nil {
		return err
	}
	return s.repo.UpdatePayment(ctx, p)
}

// GetPayment возвращает платёж с клиентом и позициями.
func (s *Service) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

// ListPayments возвращает все платежи.
func (s *Service) ListPayments(ctx context.Context) ([]model.Payment, error) {
	return s.repo.ListPayments(ctx)
}

// ListPaymentsByClient возвращает платежи клиента. Для неизвестного клиента возвращается ошибка.
func (s *Service) ListPaymentsByClient(ctx context.Context, clientID string) ([]model.Payment, error) {
	if _, err := s.repo.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentsByClient(ctx, clientID)
}

// AmountInWords записывает сумму словами.
func (s *Service) AmountInWords(amount float64) (string, error) {
	return numtext.FloatToWords(amount)
}

func (s *Service) preparePayment(ctx context.Context, p *model.Payment) error {
	if err := validatePayment(p); err != nil {
		return err
	}

	total, err := sumConcepts(p.Concepts)
	if err != nil {
		return err
	}

	text, err := numtext.ToWords(total)
	if err != nil {
		return err
	}

	client, err := s.repo.GetClient(ctx, p.ClientID)
	if err != nil {
		return err
	}

	p.Client = client
	p.Amount = total
	p.AmountText = text
	return nil
}

// receiptSendTimeout ограничивает отправку квитанции после сохранения платежа.
const receiptSendTimeout = 15 * time.Second

// sendReceipt не зависит от отмены запроса: платёж уже сохранён.
func (s *Service) sendReceipt(ctx context.Context, p *model.Payment) {
	if s.mailer == nil || p.Client == nil || p.Client.Email == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), receiptSendTimeout)
	defer cancel()

	if err := s.mailer.SendReceipt(ctx, p); err != nil {
		s.logger.Error("send receipt error",
			zap.String("payment_id", p.ID),
			zap.Int64("number", p.Number),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("receipt sent", zap.String("payment_id", p.ID), zap.Int64("number", p.Number))
}

func validatePayment(p *model.Payment) error {
	switch {
	case p.ClientID == "":
		return validation.Invalid("clientId", "El cliente es requerido")
	case p.Date.IsZero():
		return validation.Invalid("date", "La fecha es requerida")
	case !validation.IsValidPaymentType(p.PaymentType):
		return validation.Invalid("paymentType", "Forma de pago inválida")
	case len(p.Concepts) == 0:
		return validation.Invalid("concepts", "Debe incluir al menos un concepto")
	}

	for _, c := range p.Concepts {
		if !validation.IsValidConceptType(c.ConceptType) {
			return validation.Invalid("conceptType", "Tipo de concepto inválido")
		}
		if c.Amount <= 0 {
			return validation.Invalid("amount", "El monto de cada concepto debe ser mayor a cero")
		}
	}
	return nil
}

// sumConcepts складывает позиции, не выходя за пределы диапазона конвертера.
func sumConcepts(concepts []model.Concept) (int64, error) {
	var total int64
	for _, c := range concepts {
		if c.Amount > numtext.MaxAmount-total {
			return 0, numtext.ErrInvalidAmount
		}
		total += c.Amount
	}
	return total, nil
}

// IsInvalidAmount сообщает, что сумма вне диапазона записи словами.
func IsInvalidAmount(err error) bool {
	return errors.Is(err, numtext.ErrInvalidAmount)
}
