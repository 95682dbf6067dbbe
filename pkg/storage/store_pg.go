package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists circuit and addressing records in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to the database, verifies connectivity, and creates
// the schema if it does not exist.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// One active project editor per store; a small pool is plenty.
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

// Ping checks database connectivity.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

// migrate creates the schema tables if they don't exist.
func (s *PGStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS slc_circuits (
		id TEXT PRIMARY KEY,
		panel_device_id TEXT NOT NULL,
		loop_number INTEGER NOT NULL,
		supervision_type TEXT NOT NULL,
		max_devices INTEGER NOT NULL,
		wire_type TEXT NOT NULL DEFAULT '',
		wire_gauge_awg INTEGER NOT NULL DEFAULT 14,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (panel_device_id, loop_number)
	);

	CREATE TABLE IF NOT EXISTS device_addresses (
		id TEXT PRIMARY KEY,
		circuit_id TEXT NOT NULL REFERENCES slc_circuits(id),
		address INTEGER NOT NULL,
		device_id TEXT NOT NULL,
		device_model TEXT NOT NULL DEFAULT '',
		device_type TEXT NOT NULL DEFAULT '',
		x_coord DOUBLE PRECISION NOT NULL DEFAULT 0,
		y_coord DOUBLE PRECISION NOT NULL DEFAULT 0,
		floor_level TEXT NOT NULL DEFAULT '',
		zone TEXT NOT NULL DEFAULT '',
		connected BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (circuit_id, address)
	);

	CREATE TABLE IF NOT EXISTS device_connections (
		id TEXT PRIMARY KEY,
		circuit_id TEXT NOT NULL REFERENCES slc_circuits(id),
		from_address_id TEXT NOT NULL REFERENCES device_addresses(id),
		to_address_id TEXT NOT NULL REFERENCES device_addresses(id),
		connection_type TEXT NOT NULL DEFAULT '',
		path TEXT NOT NULL DEFAULT '',
		length_ft DOUBLE PRECISION NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS circuit_calculations (
		circuit_id TEXT PRIMARY KEY REFERENCES slc_circuits(id),
		device_count INTEGER NOT NULL DEFAULT 0,
		standby_current_a DOUBLE PRECISION NOT NULL DEFAULT 0,
		alarm_current_a DOUBLE PRECISION NOT NULL DEFAULT 0,
		wire_length_ft DOUBLE PRECISION NOT NULL DEFAULT 0,
		voltage_drop_v DOUBLE PRECISION NOT NULL DEFAULT 0,
		voltage_drop_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS project_panels (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		device_id TEXT NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS fire_alarm_specs (
		model TEXT PRIMARY KEY,
		device_type TEXT NOT NULL DEFAULT '',
		current_standby_ma DOUBLE PRECISION NOT NULL DEFAULT 0,
		current_alarm_ma DOUBLE PRECISION NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_device_addresses_circuit ON device_addresses(circuit_id);
	CREATE INDEX IF NOT EXISTS idx_device_connections_circuit ON device_connections(circuit_id);
	CREATE INDEX IF NOT EXISTS idx_project_panels_project ON project_panels(project_id);
	`

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
