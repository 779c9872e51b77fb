package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB holds the database connection
var DB *sql.DB

// InitDB opens the Postgres connection for connStr and verifies it
func InitDB(ctx context.Context, connStr string) error {
	if connStr == "" {
		return fmt.Errorf("database connection string is empty")
	}

	conn, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = conn
	log.Printf("✓ Database connection established successfully")
	return nil
}

// schema creates the catalog and cart tables the configurator reads and writes
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		slug        TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		layout      TEXT NOT NULL DEFAULT '',
		material    TEXT NOT NULL DEFAULT '',
		subsection  TEXT NOT NULL DEFAULT '',
		base_image  TEXT NOT NULL DEFAULT '',
		gallery     TEXT[] NOT NULL DEFAULT '{}',
		sizes       TEXT[] NOT NULL DEFAULT '{}',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS product_images (
		product_id  BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		axis        TEXT NOT NULL,
		axis_key    TEXT NOT NULL,
		url         TEXT NOT NULL,
		PRIMARY KEY (product_id, axis, axis_key)
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id          BIGSERIAL PRIMARY KEY,
		session_id  TEXT NOT NULL,
		mode        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'open',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (session_id, mode, status)
	)`,
	`CREATE TABLE IF NOT EXISTS cart_lines (
		line_id      UUID PRIMARY KEY,
		cart_id      BIGINT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
		product_id   BIGINT NOT NULL,
		product_slug TEXT NOT NULL,
		family       TEXT NOT NULL,
		finish       TEXT NOT NULL,
		size         TEXT NOT NULL DEFAULT '',
		custom       BOOLEAN NOT NULL DEFAULT FALSE,
		width        NUMERIC(10,2) NOT NULL DEFAULT 0,
		height       NUMERIC(10,2) NOT NULL DEFAULT 0,
		color        TEXT NOT NULL DEFAULT '',
		variant      TEXT NOT NULL DEFAULT '',
		light_mode   TEXT NOT NULL DEFAULT '',
		tier         TEXT NOT NULL DEFAULT '',
		qty          INTEGER NOT NULL CHECK (qty > 0),
		unit_price   BIGINT NOT NULL CHECK (unit_price >= 0),
		line_total   BIGINT NOT NULL CHECK (line_total >= 0),
		image        TEXT NOT NULL DEFAULT '',
		design       JSONB,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates missing tables; existing tables are left as they are
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	log.Printf("✓ Database schema is up to date")
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
