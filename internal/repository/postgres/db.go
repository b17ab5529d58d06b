// Package postgres implements the domain repositories with explicit SQL
// statements over database/sql.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Open connects to the Postgres database at dbURL and verifies the connection.
func Open(ctx context.Context, dbURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS venues (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			city TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS persons (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			birth_date DATE NOT NULL,
			sex TEXT NOT NULL CHECK (sex IN ('M', 'F'))
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			event_date DATE NOT NULL,
			description TEXT,
			kind TEXT NOT NULL CHECK (kind IN ('PUBLIC', 'PRIVATE')),
			capacity INTEGER NOT NULL CHECK (capacity > 0),
			venue_id BIGINT NOT NULL REFERENCES venues(id)
		)`,
		`CREATE TABLE IF NOT EXISTS participations (
			id BIGSERIAL PRIMARY KEY,
			person_id BIGINT NOT NULL REFERENCES persons(id),
			event_id BIGINT NOT NULL REFERENCES events(id),
			status TEXT NOT NULL CHECK (status IN ('CONFIRMED', 'PENDING'))
		)`,
		`CREATE INDEX IF NOT EXISTS participations_event_id_idx ON participations (event_id)`,
		`CREATE INDEX IF NOT EXISTS participations_person_id_idx ON participations (person_id)`,
		`CREATE INDEX IF NOT EXISTS events_venue_id_idx ON events (venue_id)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

