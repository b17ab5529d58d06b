package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/UnluckyRio/S3-L3/internal/domain"
)

type venueRepository struct {
	DB *sql.DB
}

func NewVenueRepository(db *sql.DB) domain.VenueRepository {
	return &venueRepository{
		DB: db,
	}
}

func validateVenue(v *domain.Venue) error {
	if v.Name == "" {
		return fmt.Errorf("%w: venue name is required", domain.ErrValidation)
	}
	if v.City == "" {
		return fmt.Errorf("%w: venue city is required", domain.ErrValidation)
	}
	return nil
}

func (r *venueRepository) Create(ctx context.Context, v *domain.Venue) error {
	if err := validateVenue(v); err != nil {
		return err
	}
	query := `
		INSERT INTO venues (name, city)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := r.DB.QueryRowContext(ctx, query, v.Name, v.City).Scan(&v.ID); err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}
	return nil
}

func (r *venueRepository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	query := `
		SELECT id, name, city
		FROM venues
		WHERE id = $1
	`
	v := &domain.Venue{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Name, &v.City)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *venueRepository) List(ctx context.Context) ([]*domain.Venue, error) {
	query := `
		SELECT id, name, city
		FROM venues
		ORDER BY id
	`
	return r.queryVenues(ctx, query)
}

func (r *venueRepository) Update(ctx context.Context, v *domain.Venue) error {
	if err := validateVenue(v); err != nil {
		return err
	}
	query := `
		UPDATE venues
		SET name = $1, city = $2
		WHERE id = $3
	`
	result, err := r.DB.ExecContext(ctx, query, v.Name, v.City, v.ID)
	if err != nil {
		return fmt.Errorf("update venue: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the venue, its events, and their participations in one
// transaction so no orphan event can survive the venue.
func (r *venueRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM participations WHERE event_id IN (SELECT id FROM events WHERE venue_id = $1)`, id); err != nil {
		return fmt.Errorf("delete participations: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM events WHERE venue_id = $1`, id); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete venue: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *venueRepository) SearchByName(ctx context.Context, namePart string) ([]*domain.Venue, error) {
	query := `
		SELECT id, name, city
		FROM venues
		WHERE name LIKE '%' || $1 || '%'
		ORDER BY id
	`
	return r.queryVenues(ctx, query, namePart)
}

func (r *venueRepository) SearchByCity(ctx context.Context, cityPart string) ([]*domain.Venue, error) {
	query := `
		SELECT id, name, city
		FROM venues
		WHERE city LIKE '%' || $1 || '%'
		ORDER BY id
	`
	return r.queryVenues(ctx, query, cityPart)
}

func (r *venueRepository) queryVenues(ctx context.Context, query string, args ...any) ([]*domain.Venue, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	venues := make([]*domain.Venue, 0)
	for rows.Next() {
		v := &domain.Venue{}
		if err := rows.Scan(&v.ID, &v.Name, &v.City); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}
