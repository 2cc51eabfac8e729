package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id   BIGSERIAL PRIMARY KEY,
	kind TEXT NOT NULL,
	data JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS records_kind_idx ON records (kind);

CREATE TABLE IF NOT EXISTS idempotency_keys (
	key_id          TEXT PRIMARY KEY,
	response_status INT NOT NULL,
	response_body   BYTEA NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// querier is the pgx surface shared by pools and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres keeps every entity kind in one jsonb records table, which maps
// directly onto the generic find/save/delete contract. Atomically binds the
// collections to a pgx transaction; lookups inside a transaction take row
// locks so concurrent balance and stock mutations cannot lose updates.
type Postgres struct {
	pool *pgxpool.Pool
	pgSession
}

// NewPostgres wraps an existing pool. Call EnsureSchema once at startup.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, pgSession: pgSession{q: pool}}
}

// EnsureSchema creates the backing tables when they do not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (p *Postgres) Atomically(ctx context.Context, fn func(store.Store) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTxStore{pgSession{q: tx, forUpdate: true}}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// pgTxStore is the transaction-bound view handed to Atomically callbacks.
type pgTxStore struct {
	pgSession
}

// Atomically on a transaction view runs fn in the already-open transaction.
func (t *pgTxStore) Atomically(_ context.Context, fn func(store.Store) error) error {
	return fn(t)
}

// pgSession carries the querier and exposes one collection per entity kind.
type pgSession struct {
	q         querier
	forUpdate bool
}

func (s pgSession) Accounts() store.Collection[*domain.Account] {
	return pgTable[domain.Account, *domain.Account]{s: s, kind: "account"}
}

func (s pgSession) Incomes() store.Collection[*domain.Income] {
	return pgTable[domain.Income, *domain.Income]{s: s, kind: "income"}
}

func (s pgSession) Expenses() store.Collection[*domain.Expense] {
	return pgTable[domain.Expense, *domain.Expense]{s: s, kind: "expense"}
}

func (s pgSession) Transfers() store.Collection[*domain.Transfer] {
	return pgTable[domain.Transfer, *domain.Transfer]{s: s, kind: "transfer"}
}

func (s pgSession) Budgets() store.Collection[*domain.Budget] {
	return pgTable[domain.Budget, *domain.Budget]{s: s, kind: "budget"}
}

func (s pgSession) Goals() store.Collection[*domain.Goal] {
	return pgTable[domain.Goal, *domain.Goal]{s: s, kind: "goal"}
}

func (s pgSession) Products() store.Collection[*domain.Product] {
	return pgTable[domain.Product, *domain.Product]{s: s, kind: "product"}
}

func (s pgSession) Orders() store.Collection[*domain.Order] {
	return pgTable[domain.Order, *domain.Order]{s: s, kind: "order"}
}

func (s pgSession) Payments() store.Collection[*domain.Payment] {
	return pgTable[domain.Payment, *domain.Payment]{s: s, kind: "payment"}
}

func (s pgSession) Deliveries() store.Collection[*domain.Delivery] {
	return pgTable[domain.Delivery, *domain.Delivery]{s: s, kind: "delivery"}
}

func (s pgSession) DeliveryPersons() store.Collection[*domain.DeliveryPerson] {
	return pgTable[domain.DeliveryPerson, *domain.DeliveryPerson]{s: s, kind: "delivery_person"}
}

func (s pgSession) Cancellations() store.Collection[*domain.Cancellation] {
	return pgTable[domain.Cancellation, *domain.Cancellation]{s: s, kind: "cancellation"}
}

func (s pgSession) Inventories() store.Collection[*domain.Inventory] {
	return pgTable[domain.Inventory, *domain.Inventory]{s: s, kind: "inventory"}
}

func (s pgSession) DiscountRules() store.Collection[*domain.DiscountRule] {
	return pgTable[domain.DiscountRule, *domain.DiscountRule]{s: s, kind: "discount_rule"}
}

// pgTable adapts one record kind to the Collection contract.
type pgTable[T any, PT recordPtr[T]] struct {
	s    pgSession
	kind string
}

func (t pgTable[T, PT]) FindByID(ctx context.Context, id int64) (PT, error) {
	query := `SELECT data FROM records WHERE kind = $1 AND id = $2`
	if t.s.forUpdate {
		query += ` FOR UPDATE`
	}

	var data []byte
	err := t.s.q.QueryRow(ctx, query, t.kind, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", t.kind, id, err)
	}

	return t.decode(id, data)
}

func (t pgTable[T, PT]) FindWhere(ctx context.Context, match func(PT) bool) ([]PT, error) {
	query := `SELECT id, data FROM records WHERE kind = $1 ORDER BY id`
	if t.s.forUpdate {
		// Predicate reads inside a transaction lock what they scan, so
		// a record found this way cannot be concurrently mutated either.
		query += ` FOR UPDATE`
	}

	rows, err := t.s.q.Query(ctx, query, t.kind)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s records: %w", t.kind, err)
	}
	defer rows.Close()

	var out []PT
	for rows.Next() {
		var id int64
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.kind, err)
		}
		rec, err := t.decode(id, data)
		if err != nil {
			return nil, err
		}
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out, rows.Err()
}

func (t pgTable[T, PT]) Save(ctx context.Context, rec PT) (PT, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", t.kind, err)
	}

	if rec.RecordID() == 0 {
		var id int64
		err := t.s.q.QueryRow(ctx,
			`INSERT INTO records (kind, data) VALUES ($1, $2) RETURNING id`,
			t.kind, data).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert %s: %w", t.kind, err)
		}
		rec.SetRecordID(id)
		return rec, nil
	}

	tag, err := t.s.q.Exec(ctx,
		`UPDATE records SET data = $3 WHERE kind = $1 AND id = $2`,
		t.kind, rec.RecordID(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s %d: %w", t.kind, rec.RecordID(), err)
	}
	if tag.RowsAffected() == 0 {
		// Upsert semantics: a caller-supplied id that is not stored yet.
		_, err := t.s.q.Exec(ctx,
			`INSERT INTO records (id, kind, data) VALUES ($1, $2, $3)`,
			rec.RecordID(), t.kind, data)
		if err != nil {
			return nil, fmt.Errorf("failed to insert %s %d: %w", t.kind, rec.RecordID(), err)
		}
	}
	return rec, nil
}

func (t pgTable[T, PT]) DeleteByID(ctx context.Context, id int64) error {
	tag, err := t.s.q.Exec(ctx, `DELETE FROM records WHERE kind = $1 AND id = $2`, t.kind, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", t.kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t pgTable[T, PT]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := t.s.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM records WHERE kind = $1 AND id = $2)`,
		t.kind, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s %d: %w", t.kind, id, err)
	}
	return exists, nil
}

func (t pgTable[T, PT]) decode(id int64, data []byte) (PT, error) {
	rec := PT(new(T))
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s %d: %w", t.kind, id, err)
	}
	rec.SetRecordID(id)
	return rec, nil
}
