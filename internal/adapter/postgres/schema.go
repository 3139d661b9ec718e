package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		order_number INTEGER NOT NULL,
		status TEXT NOT NULL,
		table_number INTEGER NOT NULL,
		customer_note TEXT NOT NULL DEFAULT '',
		total TEXT NOT NULL,
		lines JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		paid_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS order_counter (
		id INTEGER PRIMARY KEY,
		value INTEGER NOT NULL
	)`,
	`INSERT INTO order_counter (id, value) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		phone TEXT NOT NULL,
		name TEXT NOT NULL,
		points BIGINT NOT NULL,
		total_spent TEXT NOT NULL,
		visit_count INTEGER NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL,
		last_visit TIMESTAMPTZ NOT NULL,
		tier TEXT NOT NULL,
		is_active BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loyalty_transactions (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		order_id TEXT NOT NULL,
		type TEXT NOT NULL,
		points BIGINT NOT NULL,
		amount TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loyalty_settings (
		id INTEGER PRIMARY KEY,
		data JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS promo_codes (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		discount_percentage INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL,
		usage_count INTEGER NOT NULL,
		max_usage INTEGER,
		expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_questions (
		id TEXT PRIMARY KEY,
		data JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_attempts (
		id TEXT PRIMARY KEY,
		data JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_customer ON loyalty_transactions (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_phone ON customers (phone)`,
}

// EnsureSchema creates the tables on startup. Statements are idempotent so a
// redeploy against an existing database is a no-op.
func EnsureSchema(ctx context.Context, db DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
