package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/budget-ledger-api/models"
)

// BudgetBalances считает по журналу для каждой пары (бюджет, месяц):
//
//	assigned  = SUM(debit) за месяц,
//	available = SUM(debit - credit) нарастающим итогом по месяцам бюджета.
//
// Это перенос оконного SQL
//
//	SUM(SUM(debit - credit)) OVER (PARTITION BY budget_id ORDER BY budget_month)
//
// в один отсортированный проход. Порядок транзакций внутри месяца не влияет на
// результат: в накопитель попадает только суммарная дельта месяца. Месяцы без
// транзакций строк не дают — правило переноса остатка применяет читающая
// сторона.
func BudgetBalances(transactions []models.Transaction) []models.BudgetBalance {
	type monthTotals struct {
		assigned decimal.Decimal
		delta    decimal.Decimal
	}

	perBudget := make(map[int]map[MonthKey]*monthTotals)
	for _, t := range transactions {
		key, err := ParseMonthKey(t.BudgetMonth)
		if err != nil {
			// путь записи такие строки не пропускает
			continue
		}
		months, ok := perBudget[t.BudgetID]
		if !ok {
			months = make(map[MonthKey]*monthTotals)
			perBudget[t.BudgetID] = months
		}
		totals, ok := months[key]
		if !ok {
			totals = &monthTotals{assigned: decimal.Zero, delta: decimal.Zero}
			months[key] = totals
		}
		totals.assigned = totals.assigned.Add(t.Debit)
		totals.delta = totals.delta.Add(t.Debit).Sub(t.Credit)
	}

	budgetIDs := make([]int, 0, len(perBudget))
	for id := range perBudget {
		budgetIDs = append(budgetIDs, id)
	}
	sort.Ints(budgetIDs)

	var result []models.BudgetBalance
	for _, budgetID := range budgetIDs {
		months := perBudget[budgetID]
		keys := make([]MonthKey, 0, len(months))
		for key := range months {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

		running := decimal.Zero
		for _, key := range keys {
			totals := months[key]
			running = running.Add(totals.delta)
			result = append(result, models.BudgetBalance{
				BudgetID:    budgetID,
				BudgetMonth: key.String(),
				Assigned:    totals.assigned,
				Available:   running,
			})
		}
	}
	return result
}

// AccountBalances считает итоговый остаток SUM(debit - credit) по каждому счёту.
func AccountBalances(transactions []models.Transaction) []models.AccountBalance {
	totals := make(map[int]decimal.Decimal)
	for _, t := range transactions {
		totals[t.AccountID] = totals[t.AccountID].Add(t.Debit).Sub(t.Credit)
	}

	accountIDs := make([]int, 0, len(totals))
	for id := range totals {
		accountIDs = append(accountIDs, id)
	}
	sort.Ints(accountIDs)

	result := make([]models.AccountBalance, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		result = append(result, models.AccountBalance{
			AccountID: accountID,
			Balance:   totals[accountID],
		})
	}
	return result
}
