package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/UnluckyRio/S3-L3/internal/domain"
)

type personRepository struct {
	DB *sql.DB
}

func NewPersonRepository(db *sql.DB) domain.PersonRepository {
	return &personRepository{
		DB: db,
	}
}

func validatePerson(p *domain.Person) error {
	if p.FirstName == "" {
		return fmt.Errorf("%w: first name is required", domain.ErrValidation)
	}
	if p.LastName == "" {
		return fmt.Errorf("%w: last name is required", domain.ErrValidation)
	}
	if p.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: malformed email %q", domain.ErrValidation, p.Email)
	}
	if !p.Sex.Valid() {
		return fmt.Errorf("%w: unknown sex %q", domain.ErrValidation, p.Sex)
	}
	return nil
}

func (r *personRepository) Create(ctx context.Context, p *domain.Person) error {
	if err := validatePerson(p); err != nil {
		return err
	}
	query := `
		INSERT INTO persons (first_name, last_name, email, birth_date, sex)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, p.FirstName, p.LastName, p.Email, p.BirthDate, p.Sex).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (r *personRepository) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	query := `
		SELECT id, first_name, last_name, email, birth_date, sex
		FROM persons
		WHERE id = $1
	`
	p := &domain.Person{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.BirthDate, &p.Sex)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *personRepository) List(ctx context.Context) ([]*domain.Person, error) {
	query := `
		SELECT id, first_name, last_name, email, birth_date, sex
		FROM persons
		ORDER BY id
	`
	return r.queryPersons(ctx, query)
}

func (r *personRepository) Update(ctx context.Context, p *domain.Person) error {
	if err := validatePerson(p); err != nil {
		return err
	}
	query := `
		UPDATE persons
		SET first_name = $1, last_name = $2, email = $3, birth_date = $4, sex = $5
		WHERE id = $6
	`
	result, err := r.DB.ExecContext(ctx, query, p.FirstName, p.LastName, p.Email, p.BirthDate, p.Sex, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update person: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the person and their participations in one transaction.
func (r *personRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM participations WHERE person_id = $1`, id); err != nil {
		return fmt.Errorf("delete participations: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *personRepository) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	query := `
		SELECT id, first_name, last_name, email, birth_date, sex
		FROM persons
		WHERE email = $1
	`
	p := &domain.Person{}
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.BirthDate, &p.Sex)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *personRepository) SearchByName(ctx context.Context, firstNamePart, lastNamePart string) ([]*domain.Person, error) {
	query := `
		SELECT id, first_name, last_name, email, birth_date, sex
		FROM persons
		WHERE first_name LIKE '%' || $1 || '%' AND last_name LIKE '%' || $2 || '%'
		ORDER BY id
	`
	return r.queryPersons(ctx, query, firstNamePart, lastNamePart)
}

func (r *personRepository) queryPersons(ctx context.Context, query string, args ...any) ([]*domain.Person, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	persons := make([]*domain.Person, 0)
	for rows.Next() {
		p := &domain.Person{}
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.BirthDate, &p.Sex); err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}
