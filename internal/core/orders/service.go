// Package orders owns the order lifecycle and the resources it touches:
// payments, deliveries and delivery-person availability, cancellations and
// refunds, inventory stock, and discount selection. Cross-entity side
// effects are explicit steps inside one unit of work per operation.
package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

// Service is the order workflow engine.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func findOrder(ctx context.Context, tx store.Store, id int64) (*domain.Order, error) {
	order, err := tx.Orders().FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFoundf("order not found with id %d", id)
	}
	return order, err
}

// CreateOrder registers a new order in PENDING.
func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	rec := *order
	if rec.OrderDate.IsZero() {
		rec.OrderDate = time.Now()
	}
	if rec.Status == "" {
		rec.Status = domain.OrderPending
	}
	return s.store.Orders().Save(ctx, &rec)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return findOrder(ctx, s.store, id)
}

// UpdateOrderStatus moves the order along its lifecycle. Only forward moves
// are allowed; CANCELLED is terminal and reachable from any state except
// DELIVERED, which is itself terminal.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	var updated *domain.Order
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		order, err := findOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if !order.Status.CanAdvanceTo(status) {
			return domain.Errorf(domain.KindInvalidTransition,
				"cannot move order %d from %s to %s", id, order.Status, status)
		}
		order.Status = status
		saved, err := tx.Orders().Save(ctx, order)
		if err != nil {
			return err
		}
		updated = saved
		return nil
	})
	return updated, err
}

func (s *Service) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	return s.store.Orders().FindWhere(ctx, func(o *domain.Order) bool {
		return o.CustomerID == customerID
	})
}

func (s *Service) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return s.store.Orders().FindWhere(ctx, func(o *domain.Order) bool {
		return o.Status == status
	})
}
