package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot — производный кеш: всегда воспроизводим повторным проходом по журналу.
type Snapshot struct {
	ID          int             `json:"snapshot_id" db:"snapshot_id"`
	BudgetID    int             `json:"budget_id" db:"budget_id"`
	BudgetMonth string          `json:"budget_month" db:"budget_month"`
	Assigned    decimal.Decimal `json:"assigned" db:"assigned"`
	Available   decimal.Decimal `json:"available" db:"available"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	ModifiedAt  time.Time       `json:"modified_at" db:"modified_at"`
}

type SnapshotSummary struct {
	Budgets   int `json:"budgets"`
	Months    int `json:"months"`
	Snapshots int `json:"snapshots"`
}
