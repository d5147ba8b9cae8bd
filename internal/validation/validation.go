// Package validation содержит проверки входных данных API.
package validation

import (
	"net/mail"
	"strings"
	"time"

	"github.com/LautaroRomano/generador-recibos-pagos/internal/model"
)

// Error описывает ошибку входных данных с сообщением для клиента.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Invalid создаёт ошибку валидации поля.
func Invalid(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// IsValidPaymentType проверяет, что способ оплаты из допустимого списка.
func IsValidPaymentType(t model.PaymentType) bool {
	switch t {
	case model.PaymentTypeCash, model.PaymentTypeTransfer, model.PaymentTypeDebit, model.PaymentTypeCredit:
		return true
	}
	return false
}

// IsValidConceptType проверяет вид позиции платежа.
func IsValidConceptType(t model.ConceptType) bool {
	switch t {
	case model.ConceptTypeMaintenance, model.ConceptTypeMembership, model.ConceptTypeExtraFee, model.ConceptTypeOther:
		return true
	}
	return false
}

// IsValidEmail проверяет адрес без отображаемого имени.
func IsValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// ParseDate принимает дату в формате YYYY-MM-DD или RFC3339.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
