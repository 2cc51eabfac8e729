// Package ledger owns the balance invariants of the budget tracker: every
// income, expense and transfer written through it keeps account balances and
// budget rollups consistent, and removing or amending an entry exactly
// reverses or re-applies its effect.
package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

// Config carries the engine's behavior switches.
type Config struct {
	// SyncBudgetsOnUpdate makes UpdateExpense adjust matching budget
	// rollups by the amount delta. Off by default: historically only
	// create and delete touch budgets, and some deployments depend on
	// that asymmetry.
	SyncBudgetsOnUpdate bool
}

// Service is the ledger engine. Every mutating operation runs as one atomic
// unit of work against the record store.
type Service struct {
	store store.Store
	cfg   Config
}

func NewService(st store.Store, cfg Config) *Service {
	return &Service{store: st, cfg: cfg}
}

// findAccount translates the store's not-found into a business error.
func findAccount(ctx context.Context, tx store.Store, id int64, role string) (*domain.Account, error) {
	account, err := tx.Accounts().FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFoundf("%s not found with id %d", role, id)
	}
	return account, err
}

// CreateAccount opens an account. The current balance starts at the initial
// balance and is owned by the engine from then on.
func (s *Service) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	rec := *account
	rec.CurrentBalance = rec.InitialBalance
	rec.IsActive = true
	return s.store.Accounts().Save(ctx, &rec)
}

func (s *Service) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.store.Accounts().FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFoundf("account not found with id %d", id)
	}
	return account, err
}

func (s *Service) ListAccounts(ctx context.Context, userID int64) ([]*domain.Account, error) {
	return s.store.Accounts().FindWhere(ctx, func(a *domain.Account) bool {
		return a.UserID == userID
	})
}

// CreateBudget registers a monthly category limit. The spent rollup starts
// at zero and is maintained by the expense operations.
func (s *Service) CreateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	rec := *budget
	rec.AmountSpent = decimal.Zero
	return s.store.Budgets().Save(ctx, &rec)
}

func (s *Service) ListBudgets(ctx context.Context, userID int64, monthYear string) ([]*domain.Budget, error) {
	return s.store.Budgets().FindWhere(ctx, func(b *domain.Budget) bool {
		return b.UserID == userID && (monthYear == "" || b.MonthYear == monthYear)
	})
}

// adjustBudgets applies delta to the spent rollup of every budget matching
// the expense's user, month and category. Duplicate budget rows for the same
// category all receive the delta; the result never goes below zero.
func adjustBudgets(ctx context.Context, tx store.Store, expense *domain.Expense, delta decimal.Decimal) error {
	monthYear := expense.MonthYear()
	budgets, err := tx.Budgets().FindWhere(ctx, func(b *domain.Budget) bool {
		return b.UserID == expense.UserID && b.MonthYear == monthYear
	})
	if err != nil {
		return err
	}

	for _, budget := range budgets {
		if budget.CategoryID != expense.CategoryID {
			continue
		}
		spent := budget.AmountSpent.Add(delta)
		if spent.IsNegative() {
			spent = decimal.Zero
		}
		budget.AmountSpent = spent
		if _, err := tx.Budgets().Save(ctx, budget); err != nil {
			return err
		}
	}
	return nil
}
