package domain

import "context"

// Venue represents a place where events are held
type Venue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// NewVenue returns a new Venue with the given fields. ID is set by the repository on create.
func NewVenue(name, city string) *Venue {
	return &Venue{
		Name: name,
		City: city,
	}
}

// VenueRepository defines the interface for venue storage
type VenueRepository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id int64) (*Venue, error)
	List(ctx context.Context) ([]*Venue, error)
	Update(ctx context.Context, venue *Venue) error
	// Delete removes the venue together with its events and their
	// participations. Deleting an absent venue is a no-op.
	Delete(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, namePart string) ([]*Venue, error)
	SearchByCity(ctx context.Context, cityPart string) ([]*Venue, error)
}
