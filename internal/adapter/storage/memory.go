package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

// Memory is an in-process record store used by tests and by development
// setups without a DATABASE_URL. A single mutex serializes operations;
// Atomically snapshots the tables and restores them when the unit of work
// fails.
type Memory struct {
	mu   sync.Mutex
	node *snowflake.Node
	data *memData
}

type memData struct {
	accounts      map[int64]domain.Account
	incomes       map[int64]domain.Income
	expenses      map[int64]domain.Expense
	transfers     map[int64]domain.Transfer
	budgets       map[int64]domain.Budget
	goals         map[int64]domain.Goal
	products      map[int64]domain.Product
	orders        map[int64]domain.Order
	payments      map[int64]domain.Payment
	deliveries    map[int64]domain.Delivery
	persons       map[int64]domain.DeliveryPerson
	cancellations map[int64]domain.Cancellation
	inventories   map[int64]domain.Inventory
	discountRules map[int64]domain.DiscountRule
}

func newMemData() *memData {
	return &memData{
		accounts:      map[int64]domain.Account{},
		incomes:       map[int64]domain.Income{},
		expenses:      map[int64]domain.Expense{},
		transfers:     map[int64]domain.Transfer{},
		budgets:       map[int64]domain.Budget{},
		goals:         map[int64]domain.Goal{},
		products:      map[int64]domain.Product{},
		orders:        map[int64]domain.Order{},
		payments:      map[int64]domain.Payment{},
		deliveries:    map[int64]domain.Delivery{},
		persons:       map[int64]domain.DeliveryPerson{},
		cancellations: map[int64]domain.Cancellation{},
		inventories:   map[int64]domain.Inventory{},
		discountRules: map[int64]domain.DiscountRule{},
	}
}

func (d *memData) clone() *memData {
	return &memData{
		accounts:      cloneMap(d.accounts),
		incomes:       cloneMap(d.incomes),
		expenses:      cloneMap(d.expenses),
		transfers:     cloneMap(d.transfers),
		budgets:       cloneMap(d.budgets),
		goals:         cloneMap(d.goals),
		products:      cloneMap(d.products),
		orders:        cloneMap(d.orders),
		payments:      cloneMap(d.payments),
		deliveries:    cloneMap(d.deliveries),
		persons:       cloneMap(d.persons),
		cancellations: cloneMap(d.cancellations),
		inventories:   cloneMap(d.inventories),
		discountRules: cloneMap(d.discountRules),
	}
}

func cloneMap[T any](src map[int64]T) map[int64]T {
	dst := make(map[int64]T, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// NewMemory builds an empty in-memory store.
func NewMemory() (*Memory, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create id node: %w", err)
	}
	return &Memory{node: node, data: newMemData()}, nil
}

// recordPtr constrains PT to a pointer to T that implements store.Record.
type recordPtr[T any] interface {
	*T
	store.Record
}

// memTable adapts one entity map to the Collection contract. Rows are kept
// and handed out by value so callers never alias stored state. A nil mu
// means the table runs inside Atomically, which already holds the lock.
type memTable[T any, PT recordPtr[T]] struct {
	mu   *sync.Mutex
	node *snowflake.Node
	rows func() map[int64]T
}

func (t memTable[T, PT]) lock() func() {
	if t.mu == nil {
		return func() {}
	}
	t.mu.Lock()
	return t.mu.Unlock
}

func (t memTable[T, PT]) FindByID(_ context.Context, id int64) (PT, error) {
	defer t.lock()()
	row, ok := t.rows()[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return PT(&row), nil
}

func (t memTable[T, PT]) FindWhere(_ context.Context, match func(PT) bool) ([]PT, error) {
	defer t.lock()()
	var out []PT
	for _, row := range t.rows() {
		row := row
		p := PT(&row)
		if match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (t memTable[T, PT]) Save(_ context.Context, rec PT) (PT, error) {
	defer t.lock()()
	row := *rec
	p := PT(&row)
	if p.RecordID() == 0 {
		p.SetRecordID(t.node.Generate().Int64())
	}
	t.rows()[p.RecordID()] = row
	out := row
	return PT(&out), nil
}

func (t memTable[T, PT]) DeleteByID(_ context.Context, id int64) error {
	defer t.lock()()
	if _, ok := t.rows()[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.rows(), id)
	return nil
}

func (t memTable[T, PT]) ExistsByID(_ context.Context, id int64) (bool, error) {
	defer t.lock()()
	_, ok := t.rows()[id]
	return ok, nil
}

func memCollection[T any, PT recordPtr[T]](m *Memory, mu *sync.Mutex, rows func() map[int64]T) store.Collection[PT] {
	return memTable[T, PT]{mu: mu, node: m.node, rows: rows}
}

func (m *Memory) Accounts() store.Collection[*domain.Account] {
	return memCollection[domain.Account](m, &m.mu, func() map[int64]domain.Account { return m.data.accounts })
}

func (m *Memory) Incomes() store.Collection[*domain.Income] {
	return memCollection[domain.Income](m, &m.mu, func() map[int64]domain.Income { return m.data.incomes })
}

func (m *Memory) Expenses() store.Collection[*domain.Expense] {
	return memCollection[domain.Expense](m, &m.mu, func() map[int64]domain.Expense { return m.data.expenses })
}

func (m *Memory) Transfers() store.Collection[*domain.Transfer] {
	return memCollection[domain.Transfer](m, &m.mu, func() map[int64]domain.Transfer { return m.data.transfers })
}

func (m *Memory) Budgets() store.Collection[*domain.Budget] {
	return memCollection[domain.Budget](m, &m.mu, func() map[int64]domain.Budget { return m.data.budgets })
}

func (m *Memory) Goals() store.Collection[*domain.Goal] {
	return memCollection[domain.Goal](m, &m.mu, func() map[int64]domain.Goal { return m.data.goals })
}

func (m *Memory) Products() store.Collection[*domain.Product] {
	return memCollection[domain.Product](m, &m.mu, func() map[int64]domain.Product { return m.data.products })
}

func (m *Memory) Orders() store.Collection[*domain.Order] {
	return memCollection[domain.Order](m, &m.mu, func() map[int64]domain.Order { return m.data.orders })
}

func (m *Memory) Payments() store.Collection[*domain.Payment] {
	return memCollection[domain.Payment](m, &m.mu, func() map[int64]domain.Payment { return m.data.payments })
}

func (m *Memory) Deliveries() store.Collection[*domain.Delivery] {
	return memCollection[domain.Delivery](m, &m.mu, func() map[int64]domain.Delivery { return m.data.deliveries })
}

func (m *Memory) DeliveryPersons() store.Collection[*domain.DeliveryPerson] {
	return memCollection[domain.DeliveryPerson](m, &m.mu, func() map[int64]domain.DeliveryPerson { return m.data.persons })
}

func (m *Memory) Cancellations() store.Collection[*domain.Cancellation] {
	return memCollection[domain.Cancellation](m, &m.mu, func() map[int64]domain.Cancellation { return m.data.cancellations })
}

func (m *Memory) Inventories() store.Collection[*domain.Inventory] {
	return memCollection[domain.Inventory](m, &m.mu, func() map[int64]domain.Inventory { return m.data.inventories })
}

func (m *Memory) DiscountRules() store.Collection[*domain.DiscountRule] {
	return memCollection[domain.DiscountRule](m, &m.mu, func() map[int64]domain.DiscountRule { return m.data.discountRules })
}

// Atomically serializes the unit of work under the store lock and rolls the
// tables back to their snapshot unless fn completes cleanly. The deferred
// restore also covers a panic unwinding out of fn.
func (m *Memory) Atomically(_ context.Context, fn func(store.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	backup := m.data.clone()
	committed := false
	defer func() {
		if !committed {
			m.data = backup
		}
	}()

	if err := fn(&memTx{m: m}); err != nil {
		return err
	}
	committed = true
	return nil
}

// memTx is the view handed to Atomically callbacks: same tables, no
// re-locking.
type memTx struct {
	m *Memory
}

func (t *memTx) Accounts() store.Collection[*domain.Account] {
	return memCollection[domain.Account](t.m, nil, func() map[int64]domain.Account { return t.m.data.accounts })
}

func (t *memTx) Incomes() store.Collection[*domain.Income] {
	return memCollection[domain.Income](t.m, nil, func() map[int64]domain.Income { return t.m.data.incomes })
}

func (t *memTx) Expenses() store.Collection[*domain.Expense] {
	return memCollection[domain.Expense](t.m, nil, func() map[int64]domain.Expense { return t.m.data.expenses })
}

func (t *memTx) Transfers() store.Collection[*domain.Transfer] {
	return memCollection[domain.Transfer](t.m, nil, func() map[int64]domain.Transfer { return t.m.data.transfers })
}

func (t *memTx) Budgets() store.Collection[*domain.Budget] {
	return memCollection[domain.Budget](t.m, nil, func() map[int64]domain.Budget { return t.m.data.budgets })
}

func (t *memTx) Goals() store.Collection[*domain.Goal] {
	return memCollection[domain.Goal](t.m, nil, func() map[int64]domain.Goal { return t.m.data.goals })
}

func (t *memTx) Products() store.Collection[*domain.Product] {
	return memCollection[domain.Product](t.m, nil, func() map[int64]domain.Product { return t.m.data.products })
}

func (t *memTx) Orders() store.Collection[*domain.Order] {
	return memCollection[domain.Order](t.m, nil, func() map[int64]domain.Order { return t.m.data.orders })
}

func (t *memTx) Payments() store.Collection[*domain.Payment] {
	return memCollection[domain.Payment](t.m, nil, func() map[int64]domain.Payment { return t.m.data.payments })
}

func (t *memTx) Deliveries() store.Collection[*domain.Delivery] {
	return memCollection[domain.Delivery](t.m, nil, func() map[int64]domain.Delivery { return t.m.data.deliveries })
}

func (t *memTx) DeliveryPersons() store.Collection[*domain.DeliveryPerson] {
	return memCollection[domain.DeliveryPerson](t.m, nil, func() map[int64]domain.DeliveryPerson { return t.m.data.persons })
}

func (t *memTx) Cancellations() store.Collection[*domain.Cancellation] {
	return memCollection[domain.Cancellation](t.m, nil, func() map[int64]domain.Cancellation { return t.m.data.cancellations })
}

func (t *memTx) Inventories() store.Collection[*domain.Inventory] {
	return memCollection[domain.Inventory](t.m, nil, func() map[int64]domain.Inventory { return t.m.data.inventories })
}

func (t *memTx) DiscountRules() store.Collection[*domain.DiscountRule] {
	return memCollection[domain.DiscountRule](t.m, nil, func() map[int64]domain.DiscountRule { return t.m.data.discountRules })
}

// Atomically on a transaction view runs fn directly; the outer call already
// holds the lock and owns the snapshot.
func (t *memTx) Atomically(_ context.Context, fn func(store.Store) error) error {
	return fn(t)
}
