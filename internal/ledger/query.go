package ledger

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/budget-ledger-api/models"
)

// TransactionFilter — фильтр по одному критерию. Если заданы несколько полей,
// действует приоритет: счёт, затем бюджет, затем идентификатор транзакции.
type TransactionFilter struct {
	TransactionID int
	BudgetID      int
	AccountID     int
}

// QueryService — пути чтения. Списочные операции при отказе хранилища
// деградируют до пустого списка (с записью в журнал), точечные чтения
// возвращают типизированную ошибку.
type QueryService struct {
	transactions TransactionRepository
	snapshots    SnapshotRepository
	accounts     AccountRepository
}

func NewQueryService(transactions TransactionRepository, snapshots SnapshotRepository, accounts AccountRepository) *QueryService {
	return &QueryService{
		transactions: transactions,
		snapshots:    snapshots,
		accounts:     accounts,
	}
}

// BudgetBalances — "живые" балансы: агрегатор поверх текущего журнала.
// Всегда согласованы, но стоят O(числа транзакций).
func (s *QueryService) BudgetBalances(ctx context.Context) []models.BudgetBalance {
	rows, err := s.transactions.All(ctx)
	if err != nil {
		log.Printf("ошибка чтения журнала транзакций: %v", err)
		return []models.BudgetBalance{}
	}
	return BudgetBalances(rows)
}

func (s *QueryService) AccountBalances(ctx context.Context) []models.AccountBalance {
	rows, err := s.transactions.All(ctx)
	if err != nil {
		log.Printf("ошибка чтения журнала транзакций: %v", err)
		return []models.AccountBalance{}
	}
	balances := AccountBalances(rows)

	accounts, err := s.accounts.Active(ctx)
	if err != nil {
		log.Printf("ошибка чтения списка счетов: %v", err)
		return balances
	}
	titles := make(map[int]string, len(accounts))
	for _, a := range accounts {
		titles[a.ID] = a.Title
	}
	for i := range balances {
		balances[i].Title = titles[balances[i].AccountID]
	}
	return balances
}

func (s *QueryService) Transactions(ctx context.Context, filter TransactionFilter) []models.Transaction {
	var (
		rows []models.Transaction
		err  error
	)
	switch {
	case filter.AccountID != 0:
		rows, err = s.transactions.ByAccount(ctx, filter.AccountID)
	case filter.BudgetID != 0:
		rows, err = s.transactions.ByBudget(ctx, filter.BudgetID)
	case filter.TransactionID != 0:
		rows, err = s.transactions.ByID(ctx, filter.TransactionID)
	default:
		rows, err = s.transactions.All(ctx)
	}
	if err != nil {
		log.Printf("ошибка чтения транзакций: %v", err)
		return []models.Transaction{}
	}
	return rows
}

func (s *QueryService) SnapshotsByMonth(ctx context.Context, budgetMonth string) []models.Snapshot {
	rows, err := s.snapshots.ByMonth(ctx, budgetMonth)
	if err != nil {
		log.Printf("ошибка чтения снапшотов за месяц %s: %v", budgetMonth, err)
		return []models.Snapshot{}
	}
	return rows
}

// BalanceAt — "исторический" баланс бюджета за месяц по снапшотам, O(1) от
// размера журнала. Для месяца без снапшота действует перенос остатка: берётся
// available ближайшего предыдущего месяца, assigned = 0. Бюджет без единого
// снапшота баланса не имеет — ErrNotFound, а не нулевой остаток.
func (s *QueryService) BalanceAt(ctx context.Context, budgetID int, budgetMonth string) (*models.BudgetBalance, error) {
	key, err := ParseMonthKey(budgetMonth)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	snapshots, err := s.snapshots.ForBudget(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить снапшоты бюджета %d: %w", budgetID, err)
	}

	var carry *models.Snapshot
	var carryKey MonthKey
	for i := range snapshots {
		snapKey, err := ParseMonthKey(snapshots[i].BudgetMonth)
		if err != nil {
			continue
		}
		if snapKey == key {
			return &models.BudgetBalance{
				BudgetID:    budgetID,
				BudgetMonth: budgetMonth,
				Assigned:    snapshots[i].Assigned,
				Available:   snapshots[i].Available,
			}, nil
		}
		if snapKey.Before(key) && (carry == nil || carryKey.Before(snapKey)) {
			carry = &snapshots[i]
			carryKey = snapKey
		}
	}

	if carry != nil {
		return &models.BudgetBalance{
			BudgetID:    budgetID,
			BudgetMonth: budgetMonth,
			Assigned:    decimal.Zero,
			Available:   carry.Available,
		}, nil
	}
	return nil, fmt.Errorf("нет снапшотов для бюджета %d: %w", budgetID, ErrNotFound)
}
