package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate crea las tablas si no existen. Idempotente: se corre en cada
// arranque cuando hay DB_DSN configurado.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			image_path TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pets (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			species TEXT NOT NULL DEFAULT '',
			breed TEXT NOT NULL DEFAULT '',
			sex TEXT NOT NULL DEFAULT '',
			birth_date DATE,
			weight_kg DOUBLE PRECISION,
			image_path TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS vet_contacts (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			doctor TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pet_events (
			id TEXT PRIMARY KEY,
			pet_id TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			start_at TIMESTAMPTZ NOT NULL,
			end_at TIMESTAMPTZ NOT NULL,
			all_day BOOLEAN NOT NULL DEFAULT FALSE,
			reminder_minutes INTEGER,
			vet_contact_id TEXT,
			external_source TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pet_events_pet_start
			ON pet_events (pet_id, start_at)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			sender_id TEXT NOT NULL,
			receiver_id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			pet_event_id TEXT,
			pet_id TEXT,
			payload JSONB,
			created_at TIMESTAMPTZ NOT NULL,
			read_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_receiver_created
			ON notifications (receiver_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_event
			ON notifications (pet_event_id) WHERE pet_event_id IS NOT NULL`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
