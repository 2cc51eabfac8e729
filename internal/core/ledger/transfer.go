package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

// CreateTransfer debits the source account and credits the destination in
// one unit of work. The accounts must differ and the source must cover the
// amount.
func (s *Service) CreateTransfer(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	if transfer.Amount.Sign() <= 0 {
		return nil, domain.Errorf(domain.KindInvalidAmount, "transfer amount must be positive")
	}
	if transfer.FromAccountID == transfer.ToAccountID {
		return nil, domain.Errorf(domain.KindSameAccount, "cannot transfer to the same account")
	}

	var created *domain.Transfer
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		from, err := findAccount(ctx, tx, transfer.FromAccountID, "source account")
		if err != nil {
			return err
		}
		to, err := findAccount(ctx, tx, transfer.ToAccountID, "destination account")
		if err != nil {
			return err
		}

		if from.CurrentBalance.LessThan(transfer.Amount) {
			return domain.Errorf(domain.KindInsufficientBalance,
				"insufficient balance in source account, available: %s", from.CurrentBalance)
		}

		from.CurrentBalance = from.CurrentBalance.Sub(transfer.Amount)
		to.CurrentBalance = to.CurrentBalance.Add(transfer.Amount)

		if _, err := tx.Accounts().Save(ctx, from); err != nil {
			return err
		}
		if _, err := tx.Accounts().Save(ctx, to); err != nil {
			return err
		}

		rec := *transfer
		if rec.TransferDate.IsZero() {
			rec.TransferDate = time.Now()
		}
		saved, err := tx.Transfers().Save(ctx, &rec)
		if err != nil {
			return err
		}
		created = saved
		return nil
	})
	return created, err
}

// DeleteTransfer reverses the movement: the source gets the amount back and
// the destination gives it up, floored at zero there, then the record goes
// away.
func (s *Service) DeleteTransfer(ctx context.Context, id int64) error {
	return s.store.Atomically(ctx, func(tx store.Store) error {
		transfer, err := tx.Transfers().FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFoundf("transfer not found with id %d", id)
		}
		if err != nil {
			return err
		}

		from, err := findAccount(ctx, tx, transfer.FromAccountID, "source account")
		if err != nil {
			return err
		}
		to, err := findAccount(ctx, tx, transfer.ToAccountID, "destination account")
		if err != nil {
			return err
		}

		from.CurrentBalance = from.CurrentBalance.Add(transfer.Amount)
		toBalance := to.CurrentBalance.Sub(transfer.Amount)
		if toBalance.IsNegative() {
			toBalance = decimal.Zero
		}
		to.CurrentBalance = toBalance

		if _, err := tx.Accounts().Save(ctx, from); err != nil {
			return err
		}
		if _, err := tx.Accounts().Save(ctx, to); err != nil {
			return err
		}

		return tx.Transfers().DeleteByID(ctx, id)
	})
}

func (s *Service) ListTransfers(ctx context.Context, userID int64) ([]*domain.Transfer, error) {
	return s.store.Transfers().FindWhere(ctx, func(t *domain.Transfer) bool {
		return t.UserID == userID
	})
}
