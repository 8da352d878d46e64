package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/budget-ledger-api/models"
)

// TransactionTypeOutflow записывается в credit, все остальные типы — в debit.
const TransactionTypeOutflow = "Outflow"

// AllocationService — путь записи: проверка запроса, классификация
// debit/credit, добавление строки журнала и синхронное перестроение снапшотов.
// Успех виден вызывающему только после того, как снапшоты учитывают новую
// транзакцию. Ошибки хранилища на пути записи всегда поднимаются наверх.
type AllocationService struct {
	transactions TransactionRepository
}

func NewAllocationService(transactions TransactionRepository) *AllocationService {
	return &AllocationService{transactions: transactions}
}

func (s *AllocationService) Allocate(ctx context.Context, req *models.AllocationRequest) (*models.Transaction, error) {
	if req.Amount.IsZero() {
		return nil, &ValidationError{Msg: "не указана сумма распределения"}
	}
	if req.Amount.IsNegative() {
		return nil, &ValidationError{Msg: "сумма распределения должна быть положительной"}
	}
	if req.BudgetID == 0 {
		return nil, &ValidationError{Msg: "не указан бюджет"}
	}
	if req.AccountID == 0 {
		return nil, &ValidationError{Msg: "не указан счёт"}
	}
	if _, err := ParseMonthKey(req.BudgetMonth); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	debit, credit := req.Amount, decimal.Zero
	if req.TransactionType == TransactionTypeOutflow {
		debit, credit = decimal.Zero, req.Amount
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		BudgetID:    req.BudgetID,
		AccountID:   req.AccountID,
		Payee:       req.Payee,
		Memo:        req.Memo,
		Debit:       debit,
		Credit:      credit,
		BudgetMonth: req.BudgetMonth,
		Date:        date,
	}

	if err := s.transactions.AppendWithSnapshots(ctx, transaction, SnapshotsFromLedger); err != nil {
		return nil, fmt.Errorf("не удалось сохранить транзакцию: %w", err)
	}
	return transaction, nil
}
