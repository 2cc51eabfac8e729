package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

func findDelivery(ctx context.Context, tx store.Store, id int64) (*domain.Delivery, error) {
	delivery, err := tx.Deliveries().FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFoundf("delivery not found with id %d", id)
	}
	return delivery, err
}

func findPerson(ctx context.Context, tx store.Store, id int64) (*domain.DeliveryPerson, error) {
	person, err := tx.DeliveryPersons().FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFoundf("delivery person not found with id %d", id)
	}
	return person, err
}

// freePerson flips the person back to available.
func freePerson(ctx context.Context, tx store.Store, personID int64) error {
	person, err := findPerson(ctx, tx, personID)
	if err != nil {
		return err
	}
	person.Available = true
	_, err = tx.DeliveryPersons().Save(ctx, person)
	return err
}

// CreateDelivery opens the one delivery allowed per order. Assigning a
// person here claims them: they stay unavailable until the delivery ends.
func (s *Service) CreateDelivery(ctx context.Context, delivery *domain.Delivery) (*domain.Delivery, error) {
	var created *domain.Delivery
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		if delivery.OrderID != 0 {
			if _, err := findOrder(ctx, tx, delivery.OrderID); err != nil {
				return err
			}
			existing, err := tx.Deliveries().FindWhere(ctx, func(d *domain.Delivery) bool {
				return d.OrderID == delivery.OrderID
			})
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return domain.Errorf(domain.KindDuplicateDelivery,
					"delivery already exists for order %d", delivery.OrderID)
			}
		}

		if delivery.DeliveryPersonID != 0 {
			person, err := findPerson(ctx, tx, delivery.DeliveryPersonID)
			if err != nil {
				return err
			}
			if !person.Available {
				return domain.Errorf(domain.KindPersonUnavailable,
					"delivery person %s is not available", person.Name)
			}
			person.Available = false
			if _, err := tx.DeliveryPersons().Save(ctx, person); err != nil {
				return err
			}
		}

		rec := *delivery
		if rec.Status == "" {
			rec.Status = domain.DeliveryPending
		}
		saved, err := tx.Deliveries().Save(ctx, &rec)
		if err != nil {
			return err
		}
		created = saved
		return nil
	})
	return created, err
}

// UpdateDeliveryStatus writes the new status. Reaching DELIVERED stamps the
// delivery time, cascades DELIVERED onto the order and frees the assigned
// person; FAILED frees the person and leaves the order alone.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, id int64, status domain.DeliveryStatus) (*domain.Delivery, error) {
	var updated *domain.Delivery
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		delivery, err := findDelivery(ctx, tx, id)
		if err != nil {
			return err
		}

		delivery.Status = status

		if status == domain.DeliveryDelivered {
			delivery.ActualDeliveryTime = time.Now()

			if delivery.OrderID != 0 {
				order, err := findOrder(ctx, tx, delivery.OrderID)
				if err != nil {
					return err
				}
				order.Status = domain.OrderDelivered
				if _, err := tx.Orders().Save(ctx, order); err != nil {
					return err
				}
			}

			if delivery.DeliveryPersonID != 0 {
				if err := freePerson(ctx, tx, delivery.DeliveryPersonID); err != nil {
					return err
				}
			}
		}

		if status == domain.DeliveryFailed && delivery.DeliveryPersonID != 0 {
			if err := freePerson(ctx, tx, delivery.DeliveryPersonID); err != nil {
				return err
			}
		}

		saved, err := tx.Deliveries().Save(ctx, delivery)
		if err != nil {
			return err
		}
		updated = saved
		return nil
	})
	return updated, err
}

// AssignDeliveryPerson links an available person to the delivery, releasing
// whoever held it before.
func (s *Service) AssignDeliveryPerson(ctx context.Context, deliveryID, personID int64) (*domain.Delivery, error) {
	var updated *domain.Delivery
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		delivery, err := findDelivery(ctx, tx, deliveryID)
		if err != nil {
			return err
		}
		person, err := findPerson(ctx, tx, personID)
		if err != nil {
			return err
		}
		if !person.Available {
			return domain.Errorf(domain.KindPersonUnavailable,
				"delivery person %s is not available", person.Name)
		}

		if delivery.DeliveryPersonID != 0 {
			if err := freePerson(ctx, tx, delivery.DeliveryPersonID); err != nil {
				return err
			}
		}

		delivery.DeliveryPersonID = personID
		person.Available = false
		if _, err := tx.DeliveryPersons().Save(ctx, person); err != nil {
			return err
		}

		saved, err := tx.Deliveries().Save(ctx, delivery)
		if err != nil {
			return err
		}
		updated = saved
		return nil
	})
	return updated, err
}

// DeleteDelivery removes the delivery and frees its person.
func (s *Service) DeleteDelivery(ctx context.Context, id int64) error {
	return s.store.Atomically(ctx, func(tx store.Store) error {
		delivery, err := findDelivery(ctx, tx, id)
		if err != nil {
			return err
		}
		if delivery.DeliveryPersonID != 0 {
			if err := freePerson(ctx, tx, delivery.DeliveryPersonID); err != nil {
				return err
			}
		}
		return tx.Deliveries().DeleteByID(ctx, id)
	})
}

// CreateDeliveryPerson registers a new courier, available by default.
func (s *Service) CreateDeliveryPerson(ctx context.Context, person *domain.DeliveryPerson) (*domain.DeliveryPerson, error) {
	rec := *person
	rec.Available = true
	return s.store.DeliveryPersons().Save(ctx, &rec)
}

func (s *Service) ListDeliveriesByStatus(ctx context.Context, status domain.DeliveryStatus) ([]*domain.Delivery, error) {
	return s.store.Deliveries().FindWhere(ctx, func(d *domain.Delivery) bool {
		return d.Status == status
	})
}

func (s *Service) AvailableDeliveryPersons(ctx context.Context) ([]*domain.DeliveryPerson, error) {
	return s.store.DeliveryPersons().FindWhere(ctx, func(p *domain.DeliveryPerson) bool {
		return p.Available
	})
}
