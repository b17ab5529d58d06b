package domain

import (
	"context"
	"time"
)

// EventKind is the visibility of an event.
type EventKind string

const (
	EventKindPublic  EventKind = "PUBLIC"
	EventKindPrivate EventKind = "PRIVATE"
)

// Valid reports whether k is one of the known EventKind values.
func (k EventKind) Valid() bool {
	return k == EventKindPublic || k == EventKindPrivate
}

// Event represents an event held at a venue with a fixed seat capacity
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Description *string   `json:"description,omitempty"`
	Kind        EventKind `json:"kind"`
	Capacity    int       `json:"capacity"`
	VenueID     int64     `json:"venue_id"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title string, date time.Time, description *string, kind EventKind, capacity int, venueID int64) *Event {
	return &Event{
		Title:       title,
		Date:        date,
		Description: description,
		Kind:        kind,
		Capacity:    capacity,
		VenueID:     venueID,
	}
}

// EventRepository defines the interface for event storage.
//
// Seat availability is always recomputed from the live participation count,
// never cached on the event row.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	// Delete removes the event and its participations. Deleting an absent
	// event is a no-op.
	Delete(ctx context.Context, id int64) error
	SearchByTitle(ctx context.Context, titlePart string) ([]*Event, error)
	CountParticipations(ctx context.Context, eventID int64) (int, error)
	// RemainingSeats returns capacity minus the current participation count.
	RemainingSeats(ctx context.Context, eventID int64) (int, error)
	HasAvailableSeats(ctx context.Context, eventID int64) (bool, error)
}
