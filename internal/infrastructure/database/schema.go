package database

import (
	"context"
	"fmt"
)

// schema contains the idempotent DDL for all tracker tables. Holding
// uniqueness per watchlist and the alert cascade live here rather than
// in application code.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS watchlists (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		merge_lp_into_ft BOOLEAN NOT NULL DEFAULT FALSE,
		include_nfts BOOLEAN NOT NULL DEFAULT TRUE,
		min_ft_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_nft_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		wallet_address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ft_holdings (
		id BIGSERIAL PRIMARY KEY,
		unit TEXT NOT NULL,
		ticker TEXT NOT NULL DEFAULT '',
		fingerprint TEXT NOT NULL DEFAULT '',
		ada_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		balance DOUBLE PRECISION NOT NULL DEFAULT 0,
		change_30d DOUBLE PRECISION NOT NULL DEFAULT 0,
		watchlist_id BIGINT NOT NULL REFERENCES watchlists(id) ON DELETE CASCADE,
		visible BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (unit, watchlist_id)
	)`,
	`CREATE TABLE IF NOT EXISTS nft_holdings (
		id BIGSERIAL PRIMARY KEY,
		policy_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		ada_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		balance DOUBLE PRECISION NOT NULL DEFAULT 0,
		change_30d DOUBLE PRECISION NOT NULL DEFAULT 0,
		watchlist_id BIGINT NOT NULL REFERENCES watchlists(id) ON DELETE CASCADE,
		visible BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (policy_id, watchlist_id)
	)`,
	`CREATE TABLE IF NOT EXISTS lp_holdings (
		id BIGSERIAL PRIMARY KEY,
		ticker TEXT NOT NULL,
		token_a_unit TEXT NOT NULL DEFAULT '',
		token_a_ticker TEXT NOT NULL DEFAULT '',
		token_a_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		token_b_unit TEXT NOT NULL DEFAULT '',
		token_b_ticker TEXT NOT NULL DEFAULT '',
		token_b_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		ada_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		lp_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		token_a_visible BOOLEAN NOT NULL DEFAULT TRUE,
		token_b_visible BOOLEAN NOT NULL DEFAULT TRUE,
		watchlist_id BIGINT NOT NULL REFERENCES watchlists(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (ticker, watchlist_id)
	)`,
	`CREATE TABLE IF NOT EXISTS stat_snapshots (
		id BIGSERIAL PRIMARY KEY,
		subject TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		volume DOUBLE PRECISION NOT NULL DEFAULT 0,
		listings BIGINT NOT NULL DEFAULT 0,
		owners BIGINT NOT NULL DEFAULT 0,
		supply BIGINT NOT NULL DEFAULT 0,
		top_offer DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stat_snapshots_subject_created
		ON stat_snapshots (subject, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS alert_rules (
		id BIGSERIAL PRIMARY KEY,
		kind TEXT NOT NULL,
		subject TEXT NOT NULL,
		threshold DOUBLE PRECISION NOT NULL,
		on_volume BOOLEAN NOT NULL DEFAULT FALSE,
		crossing_over BOOLEAN NOT NULL DEFAULT TRUE,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		fire_once BOOLEAN NOT NULL DEFAULT FALSE,
		push_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		device_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		mail_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		last_triggered_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alert_rules_subject ON alert_rules (subject)`,
	`CREATE TABLE IF NOT EXISTS feed_items (
		id BIGSERIAL PRIMARY KEY,
		subject TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		color TEXT NOT NULL DEFAULT '',
		one_shot BOOLEAN NOT NULL DEFAULT FALSE,
		order_index BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feed_items_order ON feed_items (order_index)`,
}

// Migrate applies the schema. Every statement is idempotent so the
// call is safe on each startup.
func (p *PostgresDB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	p.logger.Info("Database schema up to date")
	return nil
}
