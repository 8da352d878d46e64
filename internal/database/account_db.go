package database

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/budget-ledger-api/internal/ledger"
	"github.com/valeriaulyamaeva/budget-ledger-api/models"
)

// AccountStore реализует ledger.AccountRepository. Жизненный цикл тот же,
// что у бюджетов: архивация вместо удаления.
type AccountStore struct {
	Pool *pgxpool.Pool
}

func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return &AccountStore{Pool: pool}
}

func (s *AccountStore) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (title, created_at, modified_at)
		VALUES ($1, now(), now())
		RETURNING account_id, created_at, modified_at`

	err := s.Pool.QueryRow(ctx, query, account.Title).Scan(
		&account.ID,
		&account.CreatedAt,
		&account.ModifiedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении счёта: %v", err)
	}
	return nil
}

func (s *AccountStore) ByID(ctx context.Context, accountID int) (*models.Account, error) {
	query := `
		SELECT account_id, title, archived, created_at, modified_at, archived_at
		FROM accounts
		WHERE account_id = $1`

	account := &models.Account{}
	err := s.Pool.QueryRow(ctx, query, accountID).Scan(
		&account.ID,
		&account.Title,
		&account.Archived,
		&account.CreatedAt,
		&account.ModifiedAt,
		&account.ArchivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("счёт с ID %d: %w", accountID, ledger.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении счёта: %v", err)
	}

	return account, nil
}

func (s *AccountStore) Active(ctx context.Context) ([]models.Account, error) {
	query := `
		SELECT account_id, title, archived, created_at, modified_at, archived_at
		FROM accounts
		WHERE archived = FALSE
		ORDER BY account_id`

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка счетов: %v", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID,
			&account.Title,
			&account.Archived,
			&account.CreatedAt,
			&account.ModifiedAt,
			&account.ArchivedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (s *AccountStore) Rename(ctx context.Context, accountID int, title string) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET title = $1, modified_at = now()
		WHERE account_id = $2
		RETURNING account_id, title, archived, created_at, modified_at, archived_at`

	account := &models.Account{}
	err := s.Pool.QueryRow(ctx, query, title, accountID).Scan(
		&account.ID,
		&account.Title,
		&account.Archived,
		&account.CreatedAt,
		&account.ModifiedAt,
		&account.ArchivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("счёт с ID %d: %w", accountID, ledger.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка обновления счёта: %v", err)
	}
	return account, nil
}

func (s *AccountStore) Archive(ctx context.Context, accountID int) error {
	query := `
		UPDATE accounts
		SET archived = TRUE, archived_at = now(), modified_at = now()
		WHERE account_id = $1 AND archived = FALSE`

	result, err := s.Pool.Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("ошибка архивации счёта: %v", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("счёт с ID %d: %w", accountID, ledger.ErrNotFound)
	}
	return nil
}
