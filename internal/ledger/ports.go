package ledger

import (
	"context"

	"github.com/valeriaulyamaeva/budget-ledger-api/models"
)

// Интерфейсы хранилища разделены по сущностям: каждый описывает только те
// операции, которые сущность поддерживает. Реализации живут в internal/database,
// сервисы получают их через конструкторы.

type BudgetRepository interface {
	Create(ctx context.Context, budget *models.Budget) error
	ByID(ctx context.Context, id int) (*models.Budget, error)
	Active(ctx context.Context) ([]models.Budget, error)
	Rename(ctx context.Context, id int, title string) (*models.Budget, error)
	Archive(ctx context.Context, id int) error
}

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	ByID(ctx context.Context, id int) (*models.Account, error)
	Active(ctx context.Context) ([]models.Account, error)
	Rename(ctx context.Context, id int, title string) (*models.Account, error)
	Archive(ctx context.Context, id int) error
}

// SnapshotRebuild выводит полный набор снапшотов из журнала транзакций.
// Хранилище вызывает её внутри своей транзакции, чтобы запись строки журнала
// и пакет снапшотов ложились атомарно.
type SnapshotRebuild func(transactions []models.Transaction) []models.Snapshot

type TransactionRepository interface {
	// AppendWithSnapshots добавляет строку журнала и в той же транзакции БД
	// перезаписывает снапшоты по rebuild: либо ложится всё, либо ничего.
	AppendWithSnapshots(ctx context.Context, t *models.Transaction, rebuild SnapshotRebuild) error
	All(ctx context.Context) ([]models.Transaction, error)
	ByID(ctx context.Context, id int) ([]models.Transaction, error)
	ByBudget(ctx context.Context, budgetID int) ([]models.Transaction, error)
	ByAccount(ctx context.Context, accountID int) ([]models.Transaction, error)
}

type SnapshotRepository interface {
	// ReplaceFromLedger перечитывает журнал и атомарно перезаписывает все
	// снапшоты одним пакетом. Возвращает записанные строки.
	ReplaceFromLedger(ctx context.Context, rebuild SnapshotRebuild) ([]models.Snapshot, error)
	ByMonth(ctx context.Context, budgetMonth string) ([]models.Snapshot, error)
	ForBudget(ctx context.Context, budgetID int) ([]models.Snapshot, error)
}
