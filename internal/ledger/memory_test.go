package ledger_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/valeriaulyamaeva/budget-ledger-api/internal/ledger"
	"github.com/valeriaulyamaeva/budget-ledger-api/models"
)

var errStorageDown = errors.New("хранилище недоступно")

// memLedger — хранилище в памяти для тестов движка: срезы под мьютексом,
// журнал и снапшоты вместе, чтобы AppendWithSnapshots был атомарным, как в БД.
// Флаг fail имитирует отказ хранилища. Репозитории бюджетов и счетов выданы
// обёртками budgetRepo()/accountRepo(), т.к. сигнатуры ByID различаются.
type memLedger struct {
	mu           sync.Mutex
	budgets      []models.Budget
	accounts     []models.Account
	transactions []models.Transaction
	snapshots    []models.Snapshot
	nextBudget   int
	nextAccount  int
	nextTx       int
	nextSnapshot int
	fail         bool
}

func newMemLedger() *memLedger {
	return &memLedger{nextBudget: 1, nextAccount: 1, nextTx: 1, nextSnapshot: 1}
}

func (m *memLedger) budgetRepo() ledger.BudgetRepository   { return &memBudgets{parent: m} }
func (m *memLedger) accountRepo() ledger.AccountRepository { return &memAccounts{parent: m} }

func (m *memLedger) AppendWithSnapshots(_ context.Context, t *models.Transaction, rebuild ledger.SnapshotRebuild) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStorageDown
	}
	t.ID = m.nextTx
	m.nextTx++
	t.CreatedAt = time.Now()
	m.transactions = append(m.transactions, *t)
	m.applySnapshots(rebuild(append([]models.Transaction(nil), m.transactions...)))
	return nil
}

func (m *memLedger) All(_ context.Context) ([]models.Transaction, error) {
	return m.filterTransactions(func(models.Transaction) bool { return true })
}

func (m *memLedger) ByID(_ context.Context, id int) ([]models.Transaction, error) {
	return m.filterTransactions(func(t models.Transaction) bool { return t.ID == id })
}

func (m *memLedger) ByBudget(_ context.Context, budgetID int) ([]models.Transaction, error) {
	return m.filterTransactions(func(t models.Transaction) bool { return t.BudgetID == budgetID })
}

func (m *memLedger) ByAccount(_ context.Context, accountID int) ([]models.Transaction, error) {
	return m.filterTransactions(func(t models.Transaction) bool { return t.AccountID == accountID })
}

func (m *memLedger) filterTransactions(keep func(models.Transaction) bool) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStorageDown
	}
	var out []models.Transaction
	for _, t := range m.transactions {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memLedger) ReplaceFromLedger(_ context.Context, rebuild ledger.SnapshotRebuild) ([]models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStorageDown
	}
	m.applySnapshots(rebuild(append([]models.Transaction(nil), m.transactions...)))
	return append([]models.Snapshot(nil), m.snapshots...), nil
}

func (m *memLedger) ByMonth(_ context.Context, budgetMonth string) ([]models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStorageDown
	}
	var out []models.Snapshot
	for _, s := range m.snapshots {
		if s.BudgetMonth == budgetMonth {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memLedger) ForBudget(_ context.Context, budgetID int) ([]models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStorageDown
	}
	var out []models.Snapshot
	for _, s := range m.snapshots {
		if s.BudgetID == budgetID {
			out = append(out, s)
		}
	}
	return out, nil
}

// applySnapshots повторяет upsert по ключу (budget_id, budget_month):
// существующие строки обновляются на месте с сохранением идентификатора.
func (m *memLedger) applySnapshots(fresh []models.Snapshot) {
	for _, s := range fresh {
		updated := false
		for i := range m.snapshots {
			if m.snapshots[i].BudgetID == s.BudgetID && m.snapshots[i].BudgetMonth == s.BudgetMonth {
				m.snapshots[i].Assigned = s.Assigned
				m.snapshots[i].Available = s.Available
				m.snapshots[i].ModifiedAt = time.Now()
				updated = true
				break
			}
		}
		if !updated {
			s.ID = m.nextSnapshot
			m.nextSnapshot++
			s.CreatedAt = time.Now()
			s.ModifiedAt = s.CreatedAt
			m.snapshots = append(m.snapshots, s)
		}
	}
}

type memBudgets struct {
	parent *memLedger
}

func (m *memBudgets) Create(_ context.Context, budget *models.Budget) error {
	p := m.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errStorageDown
	}
	budget.ID = p.nextBudget
	p.nextBudget++
	budget.CreatedAt = time.Now()
	budget.ModifiedAt = budget.CreatedAt
	p.budgets = append(p.budgets, *budget)
	return nil
}

func (m *memBudgets) ByID(_ context.Context, id int) (*models.Budget, error) {
	p := m.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return nil, errStorageDown
	}
	for i := range p.budgets {
		if p.budgets[i].ID == id {
			b := p.budgets[i]
			return &b, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (m *memBudgets) Active(_ context.Context) ([]models.Budget, error) {
	p := m.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return nil, errStorageDown
	}
	var out []models.Budget
	for _, b := range p.budgets {
		if !b.Archived {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBudgets) Rename(_ context.Context, id int, title string) (*models.Budget, error) {
	p := m.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.budgets {
		if p.budgets[i].ID == id {
			p.budgets[i].Title = title
			p.budgets[i].ModifiedAt = time.Now()
			b := p.budgets[i]
			return &b, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (m *memBudgets) Archive(_ context.Context, id int) error {
	p := m.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.budgets {
		if p.budgets[i].ID == id && !p.budgets[i].Archived {
			now := time.Now()
			p.budgets[i].Archived = true
			p.budgets[i].ArchivedAt = &now
			return nil
		}
	}
	return ledger.ErrNotFound
}

type memAccounts struct {
	parent *memLedger
}

func (m *memAccounts) Create(_ context.Context, account *models.Account) error {
	p := m.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errStorageDown
	}
	account.ID = p.nextAccount
	p.nextAccount++
	account.CreatedAt = time.Now()
	account.ModifiedAt = account.CreatedAt
	p.accounts = append(p.accounts, *account)
	return nil
}

func (m *memAccounts) ByID(_ context.Context, id int) (*models.Account, error) {
	p := m.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.accounts {
		if p.accounts[i].ID == id {
			a := p.accounts[i]
			return &a, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (m *memAccounts) Active(_ context.Context) ([]models.Account, error) {
	p := m.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return nil, errStorageDown
	}
	var out []models.Account
	for _, a := range p.accounts {
		if !a.Archived {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAccounts) Rename(_ context.Context, id int, title string) (*models.Account, error) {
	p := m.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.accounts {
		if p.accounts[i].ID == id {
			p.accounts[i].Title = title
			p.accounts[i].ModifiedAt = time.Now()
			a := p.accounts[i]
			return &a, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (m *memAccounts) Archive(_ context.Context, id int) error {
	p := m.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.accounts {
		if p.accounts[i].ID == id && !p.accounts[i].Archived {
			now := time.Now()
			p.accounts[i].Archived = true
			p.accounts[i].ArchivedAt = &now
			return nil
		}
	}
	return ledger.ErrNotFound
}
