package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/UnluckyRio/S3-L3/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func validateEvent(e *domain.Event) error {
	if e.Title == "" {
		return fmt.Errorf("%w: event title is required", domain.ErrValidation)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: event date is required", domain.ErrValidation)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: unknown event kind %q", domain.ErrValidation, e.Kind)
	}
	if e.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", domain.ErrValidation, e.Capacity)
	}
	return nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	query := `
		INSERT INTO events (title, event_date, description, kind, capacity, venue_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, e.Title, e.Date, e.Description, e.Kind, e.Capacity, e.VenueID).Scan(&e.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT id, title, event_date, description, kind, capacity, venue_id
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var descNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Title, &e.Date, &descNull, &e.Kind, &e.Capacity, &e.VenueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT id, title, event_date, description, kind, capacity, venue_id
		FROM events
		ORDER BY id
	`
	return r.queryEvents(ctx, query)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	query := `
		UPDATE events
		SET title = $1, event_date = $2, description = $3, kind = $4, capacity = $5, venue_id = $6
		WHERE id = $7
	`
	result, err := r.DB.ExecContext(ctx, query, e.Title, e.Date, e.Description, e.Kind, e.Capacity, e.VenueID, e.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the event and its participations in one transaction.
func (r *eventRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM participations WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("delete participations: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *eventRepository) SearchByTitle(ctx context.Context, titlePart string) ([]*domain.Event, error) {
	query := `
		SELECT id, title, event_date, description, kind, capacity, venue_id
		FROM events
		WHERE title LIKE '%' || $1 || '%'
		ORDER BY id
	`
	return r.queryEvents(ctx, query, titlePart)
}

func (r *eventRepository) CountParticipations(ctx context.Context, eventID int64) (int, error) {
	query := `SELECT COUNT(*) FROM participations WHERE event_id = $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count participations: %w", err)
	}
	return count, nil
}

// RemainingSeats recomputes capacity minus the live participation count on
// every call; the value is never cached on the event row.
func (r *eventRepository) RemainingSeats(ctx context.Context, eventID int64) (int, error) {
	query := `
		SELECT e.capacity - COUNT(p.id)
		FROM events e
		LEFT JOIN participations p ON p.event_id = e.id
		WHERE e.id = $1
		GROUP BY e.capacity
	`
	var remaining int
	err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("remaining seats: %w", err)
	}
	return remaining, nil
}

func (r *eventRepository) HasAvailableSeats(ctx context.Context, eventID int64) (bool, error) {
	remaining, err := r.RemainingSeats(ctx, eventID)
	if err != nil {
		return false, err
	}
	return remaining > 0, nil
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var descNull sql.NullString
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &descNull, &e.Kind, &e.Capacity, &e.VenueID); err != nil {
			return nil, err
		}
		if descNull.Valid {
			e.Description = &descNull.String
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
