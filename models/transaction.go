package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction неизменяема после создания: путей обновления и удаления нет,
// все балансы выводятся заново из журнала.
type Transaction struct {
	ID          int             `json:"transaction_id" db:"transaction_id"`
	BudgetID    int             `json:"budget_id" db:"budget_id"`
	AccountID   int             `json:"account_id" db:"account_id"`
	Payee       string          `json:"payee" db:"payee"`
	Memo        string          `json:"memo" db:"memo"`
	Debit       decimal.Decimal `json:"debit" db:"debit"`
	Credit      decimal.Decimal `json:"credit" db:"credit"`
	BudgetMonth string          `json:"budget_month" db:"budget_month"`
	Date        time.Time       `json:"transaction_date" db:"transaction_date"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type AllocationRequest struct {
	BudgetID        int             `json:"budget_id"`
	AccountID       int             `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	BudgetMonth     string          `json:"budget_month"`
	TransactionType string          `json:"transaction_type"`
	Payee           string          `json:"payee"`
	Memo            string          `json:"memo"`
	Date            time.Time       `json:"transaction_date"`
}
