package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

func findCancellation(ctx context.Context, tx store.Store, id int64) (*domain.Cancellation, error) {
	cancellation, err := tx.Cancellations().FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFoundf("cancellation not found with id %d", id)
	}
	return cancellation, err
}

// CreateCancellation cancels the order and opens a refund in PENDING.
// Delivered orders cannot be cancelled and cancelling twice is rejected.
func (s *Service) CreateCancellation(ctx context.Context, cancellation *domain.Cancellation) (*domain.Cancellation, error) {
	if cancellation.OrderID == 0 {
		return nil, domain.Errorf(domain.KindInvalidInput, "cancellation requires an order")
	}

	var created *domain.Cancellation
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		order, err := findOrder(ctx, tx, cancellation.OrderID)
		if err != nil {
			return err
		}
		if order.Status == domain.OrderDelivered {
			return domain.Errorf(domain.KindAlreadyDelivered, "cannot cancel a delivered order")
		}
		if order.Status == domain.OrderCancelled {
			return domain.Errorf(domain.KindAlreadyCancelled, "order %d is already cancelled", order.ID)
		}

		order.Status = domain.OrderCancelled
		if _, err := tx.Orders().Save(ctx, order); err != nil {
			return err
		}

		rec := *cancellation
		if rec.CancelledAt.IsZero() {
			rec.CancelledAt = time.Now()
		}
		if rec.RefundStatus == "" {
			rec.RefundStatus = domain.RefundPending
		}

		saved, err := tx.Cancellations().Save(ctx, &rec)
		if err != nil {
			return err
		}
		created = saved
		return nil
	})
	return created, err
}

// ProcessRefund moves the refund to PROCESSED and flips every completed
// payment on the cancelled order to REFUNDED.
func (s *Service) ProcessRefund(ctx context.Context, cancellationID int64) (*domain.Cancellation, error) {
	var processed *domain.Cancellation
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		cancellation, err := findCancellation(ctx, tx, cancellationID)
		if err != nil {
			return err
		}
		if cancellation.RefundStatus == domain.RefundCompleted {
			return domain.Errorf(domain.KindAlreadyRefunded, "refund already completed")
		}

		cancellation.RefundStatus = domain.RefundProcessed

		if cancellation.OrderID != 0 {
			payments, err := tx.Payments().FindWhere(ctx, func(p *domain.Payment) bool {
				return p.OrderID == cancellation.OrderID
			})
			if err != nil {
				return err
			}
			for _, payment := range payments {
				if payment.Status != domain.PaymentCompleted {
					continue
				}
				payment.Status = domain.PaymentRefunded
				if _, err := tx.Payments().Save(ctx, payment); err != nil {
					return err
				}
			}
		}

		saved, err := tx.Cancellations().Save(ctx, cancellation)
		if err != nil {
			return err
		}
		processed = saved
		return nil
	})
	return processed, err
}

// CompleteRefund advances the refund to its terminal COMPLETED state.
func (s *Service) CompleteRefund(ctx context.Context, cancellationID int64) (*domain.Cancellation, error) {
	var completed *domain.Cancellation
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		cancellation, err := findCancellation(ctx, tx, cancellationID)
		if err != nil {
			return err
		}
		cancellation.RefundStatus = domain.RefundCompleted
		saved, err := tx.Cancellations().Save(ctx, cancellation)
		if err != nil {
			return err
		}
		completed = saved
		return nil
	})
	return completed, err
}
