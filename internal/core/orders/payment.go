package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

func findPayment(ctx context.Context, tx store.Store, id int64) (*domain.Payment, error) {
	payment, err := tx.Payments().FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFoundf("payment not found with id %d", id)
	}
	return payment, err
}

// transactionID builds an external reference like TXN_CC_1A2B3C4D.
func transactionID(method string) string {
	prefix := "TXN_OTH"
	switch strings.ToUpper(method) {
	case "UPI":
		prefix = "TXN_UPI"
	case "CREDIT CARD":
		prefix = "TXN_CC"
	case "DEBIT CARD":
		prefix = "TXN_DC"
	case "CASH ON DELIVERY":
		prefix = "TXN_COD"
	}
	return prefix + "_" + strings.ToUpper(uuid.NewString()[:8])
}

// CreatePayment registers a payment against an existing order. A missing
// transaction id is generated from the payment method.
func (s *Service) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment.Amount.Sign() <= 0 {
		return nil, domain.Errorf(domain.KindInvalidAmount, "payment amount must be positive")
	}

	var created *domain.Payment
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		if payment.OrderID != 0 {
			if _, err := findOrder(ctx, tx, payment.OrderID); err != nil {
				return err
			}
		}

		rec := *payment
		if rec.TransactionID == "" {
			rec.TransactionID = transactionID(rec.PaymentMethod)
		}
		if rec.PaymentDate.IsZero() {
			rec.PaymentDate = time.Now()
		}
		if rec.Status == "" {
			rec.Status = domain.PaymentPending
		}

		saved, err := tx.Payments().Save(ctx, &rec)
		if err != nil {
			return err
		}
		created = saved
		return nil
	})
	return created, err
}

// ProcessPayment marks the payment COMPLETED and confirms the order if it is
// still PENDING. Any other order status is left as is.
func (s *Service) ProcessPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	var processed *domain.Payment
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		payment, err := findPayment(ctx, tx, id)
		if err != nil {
			return err
		}
		if payment.Status == domain.PaymentCompleted {
			return domain.Errorf(domain.KindAlreadyCompleted, "payment %d is already completed", id)
		}

		payment.Status = domain.PaymentCompleted
		payment.PaymentDate = time.Now()

		if payment.OrderID != 0 {
			order, err := findOrder(ctx, tx, payment.OrderID)
			if err != nil {
				return err
			}
			if order.Status == domain.OrderPending {
				order.Status = domain.OrderConfirmed
				if _, err := tx.Orders().Save(ctx, order); err != nil {
					return err
				}
			}
		}

		saved, err := tx.Payments().Save(ctx, payment)
		if err != nil {
			return err
		}
		processed = saved
		return nil
	})
	return processed, err
}

// RefundPayment flips a completed payment to REFUNDED.
func (s *Service) RefundPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	var refunded *domain.Payment
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		payment, err := findPayment(ctx, tx, id)
		if err != nil {
			return err
		}
		if payment.Status != domain.PaymentCompleted {
			return domain.Errorf(domain.KindNotCompleted, "only completed payments can be refunded")
		}
		payment.Status = domain.PaymentRefunded
		saved, err := tx.Payments().Save(ctx, payment)
		if err != nil {
			return err
		}
		refunded = saved
		return nil
	})
	return refunded, err
}

// FailPayment marks the payment FAILED.
func (s *Service) FailPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	var failed *domain.Payment
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		payment, err := findPayment(ctx, tx, id)
		if err != nil {
			return err
		}
		payment.Status = domain.PaymentFailed
		saved, err := tx.Payments().Save(ctx, payment)
		if err != nil {
			return err
		}
		failed = saved
		return nil
	})
	return failed, err
}

func (s *Service) ListPaymentsByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	return s.store.Payments().FindWhere(ctx, func(p *domain.Payment) bool {
		return p.OrderID == orderID
	})
}

// TotalRevenue sums every completed payment.
func (s *Service) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	payments, err := s.store.Payments().FindWhere(ctx, func(p *domain.Payment) bool {
		return p.Status == domain.PaymentCompleted
	})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, payment := range payments {
		total = total.Add(payment.Amount)
	}
	return total, nil
}
