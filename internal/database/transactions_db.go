package database

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/budget-ledger-api/internal/ledger"
	"github.com/valeriaulyamaeva/budget-ledger-api/models"
)

// TransactionStore реализует ledger.TransactionRepository. Таблица только
// пополняется: UPDATE и DELETE по transactions в коде отсутствуют.
type TransactionStore struct {
	Pool *pgxpool.Pool
}

func NewTransactionStore(pool *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{Pool: pool}
}

// AppendWithSnapshots добавляет строку журнала и перезаписывает снапшоты в
// одной транзакции БД: у вызывающего не бывает строки журнала без
// согласованных снапшотов.
func (s *TransactionStore) AppendWithSnapshots(ctx context.Context, transaction *models.Transaction, rebuild ledger.SnapshotRebuild) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции БД: %v", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO transactions (budget_id, account_id, payee, memo, debit, credit, budget_month, transaction_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING transaction_id, created_at`

	err = tx.QueryRow(ctx, query,
		transaction.BudgetID,
		transaction.AccountID,
		transaction.Payee,
		transaction.Memo,
		transaction.Debit,
		transaction.Credit,
		transaction.BudgetMonth,
		transaction.Date).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении транзакции: %v", err)
	}

	// внутри той же транзакции БД журнал уже содержит новую строку
	all, err := loadTransactions(ctx, tx, `SELECT `+transactionColumns+` FROM transactions ORDER BY transaction_id`)
	if err != nil {
		return err
	}
	if err := upsertSnapshots(ctx, tx, rebuild(all)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции БД: %v", err)
	}
	return nil
}

func (s *TransactionStore) All(ctx context.Context) ([]models.Transaction, error) {
	return loadTransactions(ctx, s.Pool, `SELECT `+transactionColumns+` FROM transactions ORDER BY transaction_id`)
}

func (s *TransactionStore) ByID(ctx context.Context, transactionID int) ([]models.Transaction, error) {
	return loadTransactions(ctx, s.Pool,
		`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1`, transactionID)
}

func (s *TransactionStore) ByBudget(ctx context.Context, budgetID int) ([]models.Transaction, error) {
	return loadTransactions(ctx, s.Pool,
		`SELECT `+transactionColumns+` FROM transactions WHERE budget_id = $1 ORDER BY transaction_id`, budgetID)
}

func (s *TransactionStore) ByAccount(ctx context.Context, accountID int) ([]models.Transaction, error) {
	return loadTransactions(ctx, s.Pool,
		`SELECT `+transactionColumns+` FROM transactions WHERE account_id = $1 ORDER BY transaction_id`, accountID)
}

const transactionColumns = `transaction_id, budget_id, account_id, payee, memo, debit, credit, budget_month, transaction_date, created_at`

// querier покрывает и пул, и открытую транзакцию БД.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadTransactions(ctx context.Context, q querier, query string, args ...any) ([]models.Transaction, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций: %v", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.BudgetID,
			&t.AccountID,
			&t.Payee,
			&t.Memo,
			&t.Debit,
			&t.Credit,
			&t.BudgetMonth,
			&t.Date,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
