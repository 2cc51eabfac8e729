package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

// CreateIncome records an income and credits its account in the same unit
// of work.
func (s *Service) CreateIncome(ctx context.Context, income *domain.Income) (*domain.Income, error) {
	if income.Amount.Sign() <= 0 {
		return nil, domain.Errorf(domain.KindInvalidAmount, "income amount must be positive")
	}

	var created *domain.Income
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		if income.AccountID != 0 {
			account, err := findAccount(ctx, tx, income.AccountID, "account")
			if err != nil {
				return err
			}
			account.CurrentBalance = account.CurrentBalance.Add(income.Amount)
			if _, err := tx.Accounts().Save(ctx, account); err != nil {
				return err
			}
		}

		rec := *income
		saved, err := tx.Incomes().Save(ctx, &rec)
		if err != nil {
			return err
		}
		created = saved
		return nil
	})
	return created, err
}

// UpdateIncome replaces the entry's details. When the amount changes the
// account balance is adjusted by removing the old amount and applying the
// new one, so the net effect reads as if the entry had always carried the
// new amount.
func (s *Service) UpdateIncome(ctx context.Context, id int64, details *domain.Income) (*domain.Income, error) {
	var updated *domain.Income
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		existing, err := tx.Incomes().FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFoundf("income not found with id %d", id)
		}
		if err != nil {
			return err
		}

		oldAmount := existing.Amount
		newAmount := details.Amount
		if newAmount.IsZero() {
			newAmount = oldAmount
		}

		if !oldAmount.Equal(newAmount) && existing.AccountID != 0 {
			account, err := findAccount(ctx, tx, existing.AccountID, "account")
			if err != nil {
				return err
			}
			account.CurrentBalance = account.CurrentBalance.Sub(oldAmount).Add(newAmount)
			if _, err := tx.Accounts().Save(ctx, account); err != nil {
				return err
			}
		}

		existing.Amount = newAmount
		existing.IncomeType = details.IncomeType
		existing.Description = details.Description
		existing.DateReceived = details.DateReceived
		existing.IsRecurring = details.IsRecurring

		saved, err := tx.Incomes().Save(ctx, existing)
		if err != nil {
			return err
		}
		updated = saved
		return nil
	})
	return updated, err
}

// DeleteIncome removes the entry and debits its account by the recorded
// amount, reversing the original credit.
func (s *Service) DeleteIncome(ctx context.Context, id int64) error {
	return s.store.Atomically(ctx, func(tx store.Store) error {
		income, err := tx.Incomes().FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFoundf("income not found with id %d", id)
		}
		if err != nil {
			return err
		}

		if income.AccountID != 0 {
			account, err := findAccount(ctx, tx, income.AccountID, "account")
			if err != nil {
				return err
			}
			account.CurrentBalance = account.CurrentBalance.Sub(income.Amount)
			if _, err := tx.Accounts().Save(ctx, account); err != nil {
				return err
			}
		}

		return tx.Incomes().DeleteByID(ctx, id)
	})
}

func (s *Service) ListIncomes(ctx context.Context, userID int64) ([]*domain.Income, error) {
	return s.store.Incomes().FindWhere(ctx, func(i *domain.Income) bool {
		return i.UserID == userID
	})
}

// TotalIncome sums every income recorded for the user.
func (s *Service) TotalIncome(ctx context.Context, userID int64) (decimal.Decimal, error) {
	incomes, err := s.ListIncomes(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, income := range incomes {
		total = total.Add(income.Amount)
	}
	return total, nil
}
