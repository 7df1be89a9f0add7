package domain

import "time"

// TransactionType clasifica el movimiento registrado.
type TransactionType string

const (
	TransactionExpense    TransactionType = "Expense"
	TransactionIncome     TransactionType = "Income"
	TransactionSavings    TransactionType = "Savings"
	TransactionLiability  TransactionType = "Liability"
	TransactionInvestment TransactionType = "Investment"
)

// ValidTransactionType valida el tipo recibido desde la API.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionExpense, TransactionIncome, TransactionSavings,
		TransactionLiability, TransactionInvestment:
		return true
	}
	return false
}

// TransactionStatus refleja el estado del movimiento.
type TransactionStatus string

const (
	TransactionInProcess TransactionStatus = "In Process"
	TransactionDone      TransactionStatus = "Done"
	TransactionPending   TransactionStatus = "Pending"
	TransactionCancelled TransactionStatus = "Cancelled"
)

// ValidTransactionStatus valida el estado recibido desde la API.
func ValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case TransactionInProcess, TransactionDone, TransactionPending, TransactionCancelled:
		return true
	}
	return false
}

// Wallet es una billetera o cuenta de fondos del usuario.
type Wallet struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Transaction es un movimiento financiero del usuario.
type Transaction struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"userId"`
	Merchant    string            `json:"merchant"`
	Category    string            `json:"category"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	Amount      float64           `json:"amount"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Budget es un tope de gasto por categoria.
type Budget struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Label       string    `json:"label"`
	Category    string    `json:"category"`
	Limit       float64   `json:"limit"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PaymentReminder es un recordatorio de pago con vencimiento.
type PaymentReminder struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	DueDate   time.Time `json:"dueDate"`
	AutoPay   bool      `json:"autoPay"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
