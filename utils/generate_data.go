package utils

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/budget-ledger-api/internal/ledger"
	"github.com/valeriaulyamaeva/budget-ledger-api/models"
)

// GenerateDemoData наполняет пустую базу демо-данными: бюджеты, счета и
// распределения за 2024 год. Каждое распределение идёт через обычный путь
// записи, так что снапшоты строятся по ходу.
func GenerateDemoData(budgets ledger.BudgetRepository, accounts ledger.AccountRepository, allocations *ledger.AllocationService, numBudgets, numAccounts, numAllocations int) {
	budgetIDs := make([]int, 0, numBudgets)
	for i := 0; i < numBudgets; i++ {
		budget := &models.Budget{Title: gofakeit.ProductCategory()}
		if err := budgets.Create(context.Background(), budget); err != nil {
			log.Fatalf("ошибка при добавлении бюджета: %v", err)
		}
		budgetIDs = append(budgetIDs, budget.ID)
	}

	accountIDs := make([]int, 0, numAccounts)
	for i := 0; i < numAccounts; i++ {
		account := &models.Account{Title: gofakeit.Company()}
		if err := accounts.Create(context.Background(), account); err != nil {
			log.Fatalf("ошибка при добавлении счёта: %v", err)
		}
		accountIDs = append(accountIDs, account.ID)
	}

	for i := 0; i < numAllocations; i++ {
		transactionType := ""
		if rand.Intn(3) == 0 {
			transactionType = ledger.TransactionTypeOutflow // примерно треть — расходы
		}
		request := &models.AllocationRequest{
			BudgetID:        budgetIDs[rand.Intn(len(budgetIDs))],
			AccountID:       accountIDs[rand.Intn(len(accountIDs))],
			Amount:          decimal.NewFromFloat(gofakeit.Price(1, 500)),
			BudgetMonth:     fmt.Sprintf("%d-2024", rand.Intn(12)+1),
			TransactionType: transactionType,
			Payee:           gofakeit.Company(),
			Memo:            gofakeit.Sentence(4),
		}
		if _, err := allocations.Allocate(context.Background(), request); err != nil {
			log.Fatalf("ошибка при добавлении распределения: %v", err)
		}
	}

	log.Printf("Сгенерированы демо-данные: %d бюджетов, %d счетов, %d распределений", numBudgets, numAccounts, numAllocations)
}
