package middleware

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ResponseStore is the slice of the database the middleware needs.
// A pgxpool.Pool satisfies it.
type ResponseStore interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Idempotency caches successful responses by Idempotency-Key so callers can
// safely retry a whole request after a failure, as the engines never retry
// internally. Failed responses are never cached: the retry must reach the
// engine again.
func Idempotency(db ResponseStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("Idempotency-Key")

		// If no key, skip (silently, or you can log at Debug level)
		if key == "" {
			return c.Next()
		}

		var status int
		var body []byte
		err := db.QueryRow(c.Context(),
			"SELECT response_status, response_body FROM idempotency_keys WHERE key_id = $1",
			key).Scan(&status, &body)

		if err == nil {
			slog.Info("🛑 Idempotency Hit! Returning cached response", "key", key)
			c.Set("X-Idempotency-Hit", "true")
			c.Set("Content-Type", "application/json")
			return c.Status(status).Send(body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		resStatus := c.Response().StatusCode()
		if resStatus < 200 || resStatus >= 300 {
			return nil
		}
		resBody := c.Response().Body()

		_, insertErr := db.Exec(c.Context(),
			"INSERT INTO idempotency_keys (key_id, response_status, response_body) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
			key, resStatus, resBody)

		if insertErr != nil {
			slog.Error("❌ Failed to save Idempotency Key", "error", insertErr, "key", key)
		}

		return nil
	}
}
