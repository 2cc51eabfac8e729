package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedResponse struct {
	status int
	body   []byte
}

type fakeResponseStore struct {
	entries map[string]cachedResponse
}

func newFakeResponseStore() *fakeResponseStore {
	return &fakeResponseStore{entries: map[string]cachedResponse{}}
}

func (f *fakeResponseStore) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	entry, ok := f.entries[args[0].(string)]
	if !ok {
		return missRow{}
	}
	return hitRow{entry: entry}
}

func (f *fakeResponseStore) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	key := args[0].(string)
	if _, ok := f.entries[key]; !ok {
		f.entries[key] = cachedResponse{
			status: args[1].(int),
			body:   append([]byte(nil), args[2].([]byte)...),
		}
	}
	return pgconn.CommandTag{}, nil
}

type missRow struct{}

func (missRow) Scan(...any) error { return pgx.ErrNoRows }

type hitRow struct {
	entry cachedResponse
}

func (r hitRow) Scan(dest ...any) error {
	*dest[0].(*int) = r.entry.status
	*dest[1].(*[]byte) = r.entry.body
	return nil
}

func TestIdempotencyReplaysSuccessfulResponse(t *testing.T) {
	db := newFakeResponseStore()
	calls := 0

	app := fiber.New()
	app.Post("/transfers", Idempotency(db), func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"attempt": calls})
	})

	req := httptest.NewRequest("POST", "/transfers", nil)
	req.Header.Set("Idempotency-Key", "key-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, calls)

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Idempotency-Hit"))
	assert.Equal(t, 1, calls, "replay must not reach the handler")
}

func TestIdempotencyDoesNotCacheFailures(t *testing.T) {
	db := newFakeResponseStore()
	calls := 0

	app := fiber.New()
	app.Post("/transfers", Idempotency(db), func(c *fiber.Ctx) error {
		calls++
		if calls == 1 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "insufficient balance"})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"attempt": calls})
	})

	req := httptest.NewRequest("POST", "/transfers", nil)
	req.Header.Set("Idempotency-Key", "key-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Empty(t, db.entries)

	// the retry reaches the engine and its success is what gets cached
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, calls)

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, calls)
}

func TestIdempotencySkipsWithoutKey(t *testing.T) {
	db := newFakeResponseStore()
	calls := 0

	app := fiber.New()
	app.Post("/transfers", Idempotency(db), func(c *fiber.Ctx) error {
		calls++
		return c.SendStatus(fiber.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/transfers", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, db.entries)
}
