// Package model содержит доменные сущности системы квитанций клуба.
package model

import "time"

// Admin представляет оператора системы. Ролей нет: любой администратор имеет полный доступ.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// Client описывает члена клуба, от которого принимаются платежи.
type Client struct {
	ID              string
	FullName        string
	Email           string
	Street          string
	Lote            string
	Phone           string
	CreatedAt       time.Time
	LastPaymentDate *time.Time
}

// PaymentType определяет способ оплаты.
type PaymentType string

const (
	PaymentTypeCash     PaymentType = "Efectivo"
	PaymentTypeTransfer PaymentType = "Transferencia"
	PaymentTypeDebit    PaymentType = "Débito"
	PaymentTypeCredit   PaymentType = "Crédito"
)

// ConceptType определяет вид строки в квитанции.
type ConceptType string

const (
	ConceptTypeMaintenance ConceptType = "Mantenimiento"
	ConceptTypeMembership  ConceptType = "Sociedad"
	ConceptTypeExtraFee    ConceptType = "Expensa extraordinaria"
	ConceptTypeOther       ConceptType = "Otros"
)

// Concept описывает позицию платежа. Сумма в целых песо.
type Concept struct {
	ID          string
	ConceptType ConceptType
	Amount      int64
	Detail      string
}

// Payment описывает принятый платёж и данные его квитанции.
type Payment struct {
	ID          string
	Number      int64
	ClientID    string
	Client      *Client
	Date        time.Time
	Amount      int64
	AmountText  string
	PaymentType PaymentType
	Concepts    []Concept
	CreatedAt   time.Time
}

// Expense описывает расход клуба. Сумма хранится в сентаво.
type Expense struct {
	ID          string
	Description string
	AmountCents int64
	Category    string
	Date        time.Time
	ReceiptURL  string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExpenseFilter задаёт выборку расходов. Нулевые поля не ограничивают выборку.
type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Category string
}

// CategoryTotal содержит сумму расходов по категории.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

// DayTotal содержит сумму расходов за день.
type DayTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// ExpenseStats содержит сводку расходов за период.
type ExpenseStats struct {
	Total      float64         `json:"total"`
	Count      int64           `json:"count"`
	ByCategory []CategoryTotal `json:"byCategory"`
	ByDay      []DayTotal      `json:"byDay"`
	Categories []string        `json:"categories"`
}
