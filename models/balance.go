package models

import "github.com/shopspring/decimal"

type BudgetBalance struct {
	BudgetID    int             `json:"budget_id"`
	BudgetMonth string          `json:"budget_month"`
	Assigned    decimal.Decimal `json:"assigned"`
	Available   decimal.Decimal `json:"available"`
}

type AccountBalance struct {
	AccountID int             `json:"account_id"`
	Title     string          `json:"title"`
	Balance   decimal.Decimal `json:"balance"`
}
