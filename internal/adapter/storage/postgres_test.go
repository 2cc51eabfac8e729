package storage

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

// sqlRecorder captures the statements a collection issues so locking
// behavior can be asserted without a live database.
type sqlRecorder struct {
	queries []string
}

func (r *sqlRecorder) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.queries = append(r.queries, sql)
	return pgconn.CommandTag{}, nil
}

func (r *sqlRecorder) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	r.queries = append(r.queries, sql)
	return emptyRows{}, nil
}

func (r *sqlRecorder) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	r.queries = append(r.queries, sql)
	return noRow{}
}

type noRow struct{}

func (noRow) Scan(...any) error { return pgx.ErrNoRows }

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(...any) error                            { return nil }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

func TestTransactionReadsTakeRowLocks(t *testing.T) {
	rec := &sqlRecorder{}
	session := pgSession{q: rec, forUpdate: true}
	ctx := context.Background()

	_, err := session.Inventories().FindByID(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// predicate lookups are how stock rows are addressed, so scans
	// must lock what they read too
	_, err = session.Inventories().FindWhere(ctx, func(*domain.Inventory) bool { return true })
	require.NoError(t, err)

	require.Len(t, rec.queries, 2)
	for _, query := range rec.queries {
		assert.Contains(t, query, "FOR UPDATE", "query: %s", query)
	}
}

func TestPoolReadsTakeNoLocks(t *testing.T) {
	rec := &sqlRecorder{}
	session := pgSession{q: rec}
	ctx := context.Background()

	_, err := session.Accounts().FindByID(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = session.Accounts().FindWhere(ctx, func(*domain.Account) bool { return true })
	require.NoError(t, err)

	require.Len(t, rec.queries, 2)
	for _, query := range rec.queries {
		assert.NotContains(t, query, "FOR UPDATE", "query: %s", query)
	}
}
