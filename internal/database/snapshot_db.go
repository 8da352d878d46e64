package database

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/budget-ledger-api/internal/ledger"
	"github.com/valeriaulyamaeva/budget-ledger-api/models"
	"golang.org/x/net/context"
)

// SnapshotStore реализует ledger.SnapshotRepository. Снапшоты — кеш,
// выводимый из журнала; уникальный ключ (budget_id, budget_month) держит не
// больше одной актуальной строки на пару, запись идёт upsert-ом.
type SnapshotStore struct {
	Pool *pgxpool.Pool
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{Pool: pool}
}

// ReplaceFromLedger перечитывает журнал и перезаписывает снапшоты одним
// пакетом внутри транзакции БД: либо ложится весь прогон, либо ничего.
func (s *SnapshotStore) ReplaceFromLedger(ctx context.Context, rebuild ledger.SnapshotRebuild) ([]models.Snapshot, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия транзакции БД: %v", err)
	}
	defer tx.Rollback(ctx)

	all, err := loadTransactions(ctx, tx, `SELECT `+transactionColumns+` FROM transactions ORDER BY transaction_id`)
	if err != nil {
		return nil, err
	}

	snapshots := rebuild(all)
	if err := upsertSnapshots(ctx, tx, snapshots); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции БД: %v", err)
	}
	return snapshots, nil
}

func (s *SnapshotStore) ByMonth(ctx context.Context, budgetMonth string) ([]models.Snapshot, error) {
	return s.loadSnapshots(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE budget_month = $1 ORDER BY budget_id`, budgetMonth)
}

func (s *SnapshotStore) ForBudget(ctx context.Context, budgetID int) ([]models.Snapshot, error) {
	return s.loadSnapshots(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE budget_id = $1 ORDER BY snapshot_id`, budgetID)
}

const snapshotColumns = `snapshot_id, budget_id, budget_month, assigned, available, created_at, modified_at`

func (s *SnapshotStore) loadSnapshots(ctx context.Context, query string, args ...any) ([]models.Snapshot, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении снапшотов: %v", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var snapshot models.Snapshot
		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.BudgetID,
			&snapshot.BudgetMonth,
			&snapshot.Assigned,
			&snapshot.Available,
			&snapshot.CreatedAt,
			&snapshot.ModifiedAt,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

// upsertSnapshots пишет пакет снапшотов одним pgx.Batch внутри переданной
// транзакции БД.
func upsertSnapshots(ctx context.Context, tx pgx.Tx, snapshots []models.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	query := `
		INSERT INTO snapshots (budget_id, budget_month, assigned, available, created_at, modified_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (budget_id, budget_month)
		DO UPDATE SET assigned = EXCLUDED.assigned, available = EXCLUDED.available, modified_at = now()`

	batch := &pgx.Batch{}
	for _, snapshot := range snapshots {
		batch.Queue(query, snapshot.BudgetID, snapshot.BudgetMonth, snapshot.Assigned, snapshot.Available)
	}

	results := tx.SendBatch(ctx, batch)
	for range snapshots {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("ошибка записи пакета снапшотов: %v", err)
		}
	}
	return results.Close()
}
