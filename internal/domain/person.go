package domain

import (
	"context"
	"time"
)

// Sex is the registered sex of a person.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Valid reports whether s is one of the known Sex values.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Person represents a registered person
type Person struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	BirthDate time.Time `json:"birth_date"`
	Sex       Sex       `json:"sex"`
}

// NewPerson returns a new Person with the given fields. ID is set by the repository on create.
func NewPerson(firstName, lastName, email string, birthDate time.Time, sex Sex) *Person {
	return &Person{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		BirthDate: birthDate,
		Sex:       sex,
	}
}

// PersonRepository defines the interface for person storage
type PersonRepository interface {
	Create(ctx context.Context, person *Person) error
	GetByID(ctx context.Context, id int64) (*Person, error)
	List(ctx context.Context) ([]*Person, error)
	Update(ctx context.Context, person *Person) error
	// Delete removes the person and their participations. Deleting an
	// absent person is a no-op.
	Delete(ctx context.Context, id int64) error
	GetByEmail(ctx context.Context, email string) (*Person, error)
	// SearchByName returns persons whose first and last name both contain
	// the given fragments (case-sensitive).
	SearchByName(ctx context.Context, firstNamePart, lastNamePart string) ([]*Person, error)
}
