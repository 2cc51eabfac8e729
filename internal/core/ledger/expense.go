package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

// CreateExpense records an expense, debits its account and rolls the amount
// into every matching budget, all in one unit of work. The account must
// cover the amount.
func (s *Service) CreateExpense(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if expense.Amount.Sign() <= 0 {
		return nil, domain.Errorf(domain.KindInvalidAmount, "expense amount must be positive")
	}

	var created *domain.Expense
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		if expense.AccountID != 0 {
			account, err := findAccount(ctx, tx, expense.AccountID, "account")
			if err != nil {
				return err
			}
			if account.CurrentBalance.LessThan(expense.Amount) {
				return domain.Errorf(domain.KindInsufficientBalance,
					"insufficient balance, available: %s", account.CurrentBalance)
			}
			account.CurrentBalance = account.CurrentBalance.Sub(expense.Amount)
			if _, err := tx.Accounts().Save(ctx, account); err != nil {
				return err
			}
		}

		if expense.UserID != 0 && expense.CategoryID != 0 && !expense.DateSpent.IsZero() {
			if err := adjustBudgets(ctx, tx, expense, expense.Amount); err != nil {
				return err
			}
		}

		rec := *expense
		saved, err := tx.Expenses().Save(ctx, &rec)
		if err != nil {
			return err
		}
		created = saved
		return nil
	})
	return created, err
}

// UpdateExpense replaces the entry's details. A changed amount adjusts the
// account balance by adding the old amount back and deducting the new one.
// Budget rollups are left alone unless SyncBudgetsOnUpdate is set.
func (s *Service) UpdateExpense(ctx context.Context, id int64, details *domain.Expense) (*domain.Expense, error) {
	var updated *domain.Expense
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		existing, err := tx.Expenses().FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFoundf("expense not found with id %d", id)
		}
		if err != nil {
			return err
		}

		oldAmount := existing.Amount
		newAmount := details.Amount
		if newAmount.IsZero() {
			newAmount = oldAmount
		}

		if !oldAmount.Equal(newAmount) {
			if existing.AccountID != 0 {
				account, err := findAccount(ctx, tx, existing.AccountID, "account")
				if err != nil {
					return err
				}
				account.CurrentBalance = account.CurrentBalance.Add(oldAmount).Sub(newAmount)
				if _, err := tx.Accounts().Save(ctx, account); err != nil {
					return err
				}
			}

			// Opt-in only; matches the budgets against the entry's
			// pre-update category and month.
			if s.cfg.SyncBudgetsOnUpdate && existing.UserID != 0 && existing.CategoryID != 0 && !existing.DateSpent.IsZero() {
				if err := adjustBudgets(ctx, tx, existing, newAmount.Sub(oldAmount)); err != nil {
					return err
				}
			}
		}

		existing.Amount = newAmount
		existing.Description = details.Description
		existing.DateSpent = details.DateSpent
		existing.PaymentMethod = details.PaymentMethod

		saved, err := tx.Expenses().Save(ctx, existing)
		if err != nil {
			return err
		}
		updated = saved
		return nil
	})
	return updated, err
}

// DeleteExpense removes the entry, credits the amount back to the account
// and backs it out of every matching budget rollup (never below zero).
func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	return s.store.Atomically(ctx, func(tx store.Store) error {
		expense, err := tx.Expenses().FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFoundf("expense not found with id %d", id)
		}
		if err != nil {
			return err
		}

		if expense.AccountID != 0 {
			account, err := findAccount(ctx, tx, expense.AccountID, "account")
			if err != nil {
				return err
			}
			account.CurrentBalance = account.CurrentBalance.Add(expense.Amount)
			if _, err := tx.Accounts().Save(ctx, account); err != nil {
				return err
			}
		}

		if expense.UserID != 0 && expense.CategoryID != 0 && !expense.DateSpent.IsZero() {
			if err := adjustBudgets(ctx, tx, expense, expense.Amount.Neg()); err != nil {
				return err
			}
		}

		return tx.Expenses().DeleteByID(ctx, id)
	})
}

func (s *Service) ListExpenses(ctx context.Context, userID int64) ([]*domain.Expense, error) {
	return s.store.Expenses().FindWhere(ctx, func(e *domain.Expense) bool {
		return e.UserID == userID
	})
}

// TotalExpense sums every expense recorded for the user.
func (s *Service) TotalExpense(ctx context.Context, userID int64) (decimal.Decimal, error) {
	expenses, err := s.ListExpenses(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, expense := range expenses {
		total = total.Add(expense.Amount)
	}
	return total, nil
}
