package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/UnluckyRio/S3-L3/internal/domain"
)

type participationRepository struct {
	DB *sql.DB
}

func NewParticipationRepository(db *sql.DB) domain.ParticipationRepository {
	return &participationRepository{
		DB: db,
	}
}

// Create inserts a participation after checking, inside one transaction, that
// the event and person exist, that the pair is not already registered, and
// that the event still has a free seat.
//
// The event row is locked with SELECT ... FOR UPDATE before the counts are
// read. Two concurrent creations against the same event therefore serialize
// on that lock: the second one re-reads the counts only after the first has
// committed, so the capacity can never be overshot.
func (r *participationRepository) Create(ctx context.Context, p *domain.Participation) (err error) {
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown participation status %q", domain.ErrValidation, p.Status)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var capacity int
	err = tx.QueryRowContext(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, p.EventID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrNotFound
			return err
		}
		return fmt.Errorf("lock event row: %w", err)
	}

	var personExists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM persons WHERE id = $1)`, p.PersonID).Scan(&personExists)
	if err != nil {
		return fmt.Errorf("check person: %w", err)
	}
	if !personExists {
		err = domain.ErrNotFound
		return err
	}

	var dupCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participations WHERE event_id = $1 AND person_id = $2`,
		p.EventID, p.PersonID).Scan(&dupCount)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if dupCount > 0 {
		err = domain.ErrDuplicateParticipation
		return err
	}

	var count int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM participations WHERE event_id = $1`, p.EventID).Scan(&count)
	if err != nil {
		return fmt.Errorf("count participations: %w", err)
	}
	if count >= capacity {
		err = domain.ErrCapacityExceeded
		return err
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO participations (person_id, event_id, status) VALUES ($1, $2, $3) RETURNING id`,
		p.PersonID, p.EventID, p.Status).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert participation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *participationRepository) GetByID(ctx context.Context, id int64) (*domain.Participation, error) {
	query := `
		SELECT id, person_id, event_id, status
		FROM participations
		WHERE id = $1
	`
	p := &domain.Participation{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.PersonID, &p.EventID, &p.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participationRepository) List(ctx context.Context) ([]*domain.Participation, error) {
	query := `
		SELECT id, person_id, event_id, status
		FROM participations
		ORDER BY id
	`
	return r.queryParticipations(ctx, query)
}

// Update persists the status; person and event references are immutable.
func (r *participationRepository) Update(ctx context.Context, p *domain.Participation) error {
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown participation status %q", domain.ErrValidation, p.Status)
	}
	query := `
		UPDATE participations
		SET status = $1
		WHERE id = $2
	`
	result, err := r.DB.ExecContext(ctx, query, p.Status, p.ID)
	if err != nil {
		return fmt.Errorf("update participation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *participationRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM participations WHERE id = $1`
	if _, err := r.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	return nil
}

func (r *participationRepository) ListByPerson(ctx context.Context, personID int64) ([]*domain.Participation, error) {
	query := `
		SELECT id, person_id, event_id, status
		FROM participations
		WHERE person_id = $1
		ORDER BY id
	`
	return r.queryParticipations(ctx, query, personID)
}

func (r *participationRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Participation, error) {
	query := `
		SELECT id, person_id, event_id, status
		FROM participations
		WHERE event_id = $1
		ORDER BY id
	`
	return r.queryParticipations(ctx, query, eventID)
}

func (r *participationRepository) ListByStatus(ctx context.Context, status domain.ParticipationStatus) ([]*domain.Participation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown participation status %q", domain.ErrValidation, status)
	}
	query := `
		SELECT id, person_id, event_id, status
		FROM participations
		WHERE status = $1
		ORDER BY id
	`
	return r.queryParticipations(ctx, query, status)
}

func (r *participationRepository) IsPersonRegistered(ctx context.Context, personID, eventID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM participations WHERE person_id = $1 AND event_id = $2`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, personID, eventID).Scan(&count); err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return count > 0, nil
}

func (r *participationRepository) queryParticipations(ctx context.Context, query string, args ...any) ([]*domain.Participation, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	participations := make([]*domain.Participation, 0)
	for rows.Next() {
		p := &domain.Participation{}
		if err := rows.Scan(&p.ID, &p.PersonID, &p.EventID, &p.Status); err != nil {
			return nil, err
		}
		participations = append(participations, p)
	}
	return participations, rows.Err()
}
