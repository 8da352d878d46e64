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

// BudgetStore реализует ledger.BudgetRepository поверх Postgres.
// Удаления нет: бюджет архивируется, чтобы история транзакций оставалась целой.
type BudgetStore struct {
	Pool *pgxpool.Pool
}

func NewBudgetStore(pool *pgxpool.Pool) *BudgetStore {
	return &BudgetStore{Pool: pool}
}

func (s *BudgetStore) Create(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO budgets (title, created_at, modified_at)
		VALUES ($1, now(), now())
		RETURNING budget_id, created_at, modified_at`

	err := s.Pool.QueryRow(ctx, query, budget.Title).Scan(
		&budget.ID,
		&budget.CreatedAt,
		&budget.ModifiedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении бюджета: %v", err)
	}
	return nil
}

func (s *BudgetStore) ByID(ctx context.Context, budgetID int) (*models.Budget, error) {
	query := `
		SELECT budget_id, title, archived, created_at, modified_at, archived_at
		FROM budgets
		WHERE budget_id = $1`

	budget := &models.Budget{}
	err := s.Pool.QueryRow(ctx, query, budgetID).Scan(
		&budget.ID,
		&budget.Title,
		&budget.Archived,
		&budget.CreatedAt,
		&budget.ModifiedAt,
		&budget.ArchivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("бюджет с ID %d: %w", budgetID, ledger.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении бюджета: %v", err)
	}

	return budget, nil
}

// Active возвращает только неархивные бюджеты.
func (s *BudgetStore) Active(ctx context.Context) ([]models.Budget, error) {
	query := `
		SELECT budget_id, title, archived, created_at, modified_at, archived_at
		FROM budgets
		WHERE archived = FALSE
		ORDER BY budget_id`

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка бюджетов: %v", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var budget models.Budget
		if err := rows.Scan(
			&budget.ID,
			&budget.Title,
			&budget.Archived,
			&budget.CreatedAt,
			&budget.ModifiedAt,
			&budget.ArchivedAt,
		); err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

func (s *BudgetStore) Rename(ctx context.Context, budgetID int, title string) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET title = $1, modified_at = now()
		WHERE budget_id = $2
		RETURNING budget_id, title, archived, created_at, modified_at, archived_at`

	budget := &models.Budget{}
	err := s.Pool.QueryRow(ctx, query, title, budgetID).Scan(
		&budget.ID,
		&budget.Title,
		&budget.Archived,
		&budget.CreatedAt,
		&budget.ModifiedAt,
		&budget.ArchivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("бюджет с ID %d: %w", budgetID, ledger.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка обновления бюджета: %v", err)
	}
	return budget, nil
}

func (s *BudgetStore) Archive(ctx context.Context, budgetID int) error {
	query := `
		UPDATE budgets
		SET archived = TRUE, archived_at = now(), modified_at = now()
		WHERE budget_id = $1 AND archived = FALSE`

	result, err := s.Pool.Exec(ctx, query, budgetID)
	if err != nil {
		return fmt.Errorf("ошибка архивации бюджета: %v", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %d: %w", budgetID, ledger.ErrNotFound)
	}
	return nil
}
