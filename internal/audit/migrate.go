package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the audit store DDL. Idempotent so it can run on every boot when
// auto-migrate is enabled.
const schema = `
CREATE TABLE IF NOT EXISTS contact_submissions (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL DEFAULT '',
    email       TEXT NOT NULL DEFAULT '',
    message     TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL,
    ip_hash     TEXT NOT NULL DEFAULT '',
    user_agent  TEXT NOT NULL DEFAULT '',
    reason      TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_contact_submissions_status
    ON contact_submissions (status, created_at DESC);

CREATE TABLE IF NOT EXISTS portfolio_requests (
    id           UUID PRIMARY KEY,
    email        TEXT NOT NULL,
    status       TEXT NOT NULL,
    source       TEXT NOT NULL DEFAULT 'unknown',
    ip_hash      TEXT NOT NULL DEFAULT '',
    user_agent   TEXT NOT NULL DEFAULT '',
    notes        TEXT NOT NULL DEFAULT '',
    reason       TEXT NOT NULL DEFAULT '',
    requested_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_portfolio_requests_email
    ON portfolio_requests (email);

CREATE INDEX IF NOT EXISTS idx_portfolio_requests_status
    ON portfolio_requests (status, requested_at DESC);
`

// Migrate applies the audit store schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply audit schema: %w", err)
	}
	return nil
}
