package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/budget-ledger-api/internal/ledger"
	"github.com/valeriaulyamaeva/budget-ledger-api/models"
)

func allocate(t *testing.T, store *memLedger, budgetID int, amount, month, txType string) {
	t.Helper()
	service := ledger.NewAllocationService(store)
	_, err := service.Allocate(context.Background(), &models.AllocationRequest{
		BudgetID:        budgetID,
		AccountID:       1,
		Amount:          decimal.RequireFromString(amount),
		BudgetMonth:     month,
		TransactionType: txType,
	})
	if err != nil {
		t.Fatalf("ошибка распределения: %v", err)
	}
}

func TestRebuildSummary(t *testing.T) {
	store := newMemLedger()
	allocate(t, store, 1, "100", "1-2024", "")
	allocate(t, store, 1, "50", "2-2024", "")
	allocate(t, store, 2, "70", "2-2024", "")

	summary, err := ledger.NewMaterializer(store).Rebuild(context.Background())
	if err != nil {
		t.Fatalf("ошибка пересчёта: %v", err)
	}
	if summary.Budgets != 2 || summary.Months != 2 || summary.Snapshots != 3 {
		t.Errorf("неверная сводка пересчёта: %+v", summary)
	}
}

// Повторный пересчёт без новых транзакций даёт те же значения.
func TestRebuildIdempotent(t *testing.T) {
	store := newMemLedger()
	allocate(t, store, 1, "200", "1-2024", "")
	allocate(t, store, 1, "30", "1-2024", "Outflow")

	materializer := ledger.NewMaterializer(store)
	if _, err := materializer.Rebuild(context.Background()); err != nil {
		t.Fatalf("ошибка первого пересчёта: %v", err)
	}
	first, _ := store.ForBudget(context.Background(), 1)

	if _, err := materializer.Rebuild(context.Background()); err != nil {
		t.Fatalf("ошибка повторного пересчёта: %v", err)
	}
	second, _ := store.ForBudget(context.Background(), 1)

	if len(first) != len(second) {
		t.Fatalf("число снапшотов изменилось: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Assigned.Equal(second[i].Assigned) || !first[i].Available.Equal(second[i].Available) {
			t.Errorf("значения снапшота изменились без новых транзакций: %+v -> %+v", first[i], second[i])
		}
	}
}

// Поздняя транзакция за ранний месяц сдвигает running во всех последующих
// месяцах — глобальный пересчёт обязан их обновить.
func TestRebuildRefreshesDownstreamMonths(t *testing.T) {
	store := newMemLedger()
	allocate(t, store, 1, "100", "1-2024", "")
	allocate(t, store, 1, "50", "3-2024", "")

	march, err := store.ByMonth(context.Background(), "3-2024")
	if err != nil || len(march) != 1 {
		t.Fatalf("нет снапшота за 3-2024: %v %+v", err, march)
	}
	assertMoney(t, march[0].Available, "150", "available за 3-2024 до поздней транзакции")

	// задним числом уменьшаем январь
	allocate(t, store, 1, "40", "1-2024", "Outflow")

	march, _ = store.ByMonth(context.Background(), "3-2024")
	assertMoney(t, march[0].Available, "110", "available за 3-2024 после поздней транзакции")

	january, _ := store.ByMonth(context.Background(), "1-2024")
	assertMoney(t, january[0].Available, "60", "available за 1-2024 после поздней транзакции")
}

func TestRebuildKeepsSingleRowPerKey(t *testing.T) {
	store := newMemLedger()
	allocate(t, store, 1, "10", "1-2024", "")
	allocate(t, store, 1, "20", "1-2024", "")
	if _, err := ledger.NewMaterializer(store).Rebuild(context.Background()); err != nil {
		t.Fatalf("ошибка пересчёта: %v", err)
	}

	rows, _ := store.ForBudget(context.Background(), 1)
	if len(rows) != 1 {
		t.Fatalf("на пару (бюджет, месяц) должен приходиться один снапшот, получили %d", len(rows))
	}
	assertMoney(t, rows[0].Assigned, "30", "assigned после двух распределений")
}

func TestRebuildPropagatesStorageError(t *testing.T) {
	store := newMemLedger()
	store.fail = true
	if _, err := ledger.NewMaterializer(store).Rebuild(context.Background()); err == nil {
		t.Fatalf("отказ хранилища при пересчёте должен возвращать ошибку")
	}
}
