package ledger

import (
	"context"
	"fmt"

	"github.com/valeriaulyamaeva/budget-ledger-api/models"
)

// SnapshotsFromLedger — функция перестроения для хранилища: полный набор
// снапшотов из полного журнала. Политика глобальная: пересчитываются все
// бюджеты и все месяцы, частичный пересчёт "от месяца M" нигде не применяется.
// Для журнала с низкой частотой записи усиление записи несущественно, зато
// поздно пришедшая транзакция не оставляет устаревших снапшотов.
func SnapshotsFromLedger(transactions []models.Transaction) []models.Snapshot {
	balances := BudgetBalances(transactions)
	snapshots := make([]models.Snapshot, 0, len(balances))
	for _, b := range balances {
		snapshots = append(snapshots, models.Snapshot{
			BudgetID:    b.BudgetID,
			BudgetMonth: b.BudgetMonth,
			Assigned:    b.Assigned,
			Available:   b.Available,
		})
	}
	return snapshots
}

// Materializer материализует вывод агрегатора в хранилище снапшотов.
type Materializer struct {
	snapshots SnapshotRepository
}

func NewMaterializer(snapshots SnapshotRepository) *Materializer {
	return &Materializer{snapshots: snapshots}
}

// Rebuild — пересчёт по требованию. Повторный запуск без новых транзакций
// даёт те же значения assigned/available.
func (m *Materializer) Rebuild(ctx context.Context) (*models.SnapshotSummary, error) {
	written, err := m.snapshots.ReplaceFromLedger(ctx, SnapshotsFromLedger)
	if err != nil {
		return nil, fmt.Errorf("не удалось перестроить снапшоты: %w", err)
	}

	budgets := make(map[int]struct{})
	months := make(map[string]struct{})
	for _, s := range written {
		budgets[s.BudgetID] = struct{}{}
		months[s.BudgetMonth] = struct{}{}
	}
	return &models.SnapshotSummary{
		Budgets:   len(budgets),
		Months:    len(months),
		Snapshots: len(written),
	}, nil
}
