// Package store defines the durable record-keeping contract the engines run
// against. Implementations live under internal/adapter/storage.
package store

import (
	"context"
	"errors"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
)

// ErrNotFound is returned by FindByID when no record carries the id. It is
// an infrastructure signal; the engines translate it into domain errors.
var ErrNotFound = errors.New("record not found")

// Record is anything with a store-assigned surrogate key.
type Record interface {
	RecordID() int64
	SetRecordID(int64)
}

// Collection is the generic find/save/delete surface over one entity kind.
type Collection[T Record] interface {
	FindByID(ctx context.Context, id int64) (T, error)

	// FindWhere returns every record matching the predicate. Order is
	// unspecified.
	FindWhere(ctx context.Context, match func(T) bool) ([]T, error)

	// Save upserts the record. A zero id means insert; the store assigns
	// the id and returns the stored record.
	Save(ctx context.Context, rec T) (T, error)

	DeleteByID(ctx context.Context, id int64) error

	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// Store groups the collections and the unit-of-work boundary.
type Store interface {
	Accounts() Collection[*domain.Account]
	Incomes() Collection[*domain.Income]
	Expenses() Collection[*domain.Expense]
	Transfers() Collection[*domain.Transfer]
	Budgets() Collection[*domain.Budget]
	Goals() Collection[*domain.Goal]

	Products() Collection[*domain.Product]
	Orders() Collection[*domain.Order]
	Payments() Collection[*domain.Payment]
	Deliveries() Collection[*domain.Delivery]
	DeliveryPersons() Collection[*domain.DeliveryPerson]
	Cancellations() Collection[*domain.Cancellation]
	Inventories() Collection[*domain.Inventory]
	DiscountRules() Collection[*domain.DiscountRule]

	// Atomically runs fn as one atomic unit of work. If fn returns an
	// error, nothing it wrote through the passed Store is visible.
	Atomically(ctx context.Context, fn func(Store) error) error
}
