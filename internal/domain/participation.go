package domain

import "context"

// ParticipationStatus is the state of a participation. Both values are valid
// initial states and either may move to the other via update.
type ParticipationStatus string

const (
	ParticipationConfirmed ParticipationStatus = "CONFIRMED"
	ParticipationPending   ParticipationStatus = "PENDING"
)

// Valid reports whether s is one of the known ParticipationStatus values.
func (s ParticipationStatus) Valid() bool {
	return s == ParticipationConfirmed || s == ParticipationPending
}

// Participation links a person to an event with a status.
type Participation struct {
	ID       int64               `json:"id"`
	PersonID int64               `json:"person_id"`
	EventID  int64               `json:"event_id"`
	Status   ParticipationStatus `json:"status"`
}

// NewParticipation returns a new Participation with the given fields. ID is set by the repository on create.
func NewParticipation(personID, eventID int64, status ParticipationStatus) *Participation {
	return &Participation{
		PersonID: personID,
		EventID:  eventID,
		Status:   status,
	}
}

// ParticipationRepository defines the interface for participation storage.
//
// Create runs the capacity check, the duplicate check, and the insert inside
// one transaction so that concurrent registrations against the same event
// cannot overshoot its capacity.
type ParticipationRepository interface {
	Create(ctx context.Context, participation *Participation) error
	GetByID(ctx context.Context, id int64) (*Participation, error)
	List(ctx context.Context) ([]*Participation, error)
	Update(ctx context.Context, participation *Participation) error
	Delete(ctx context.Context, id int64) error
	ListByPerson(ctx context.Context, personID int64) ([]*Participation, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*Participation, error)
	ListByStatus(ctx context.Context, status ParticipationStatus) ([]*Participation, error)
	IsPersonRegistered(ctx context.Context, personID, eventID int64) (bool, error)
}

// RegistrationService defines person-facing registration operations.
type RegistrationService interface {
	// RegisterForEvent creates a participation with the given initial status.
	RegisterForEvent(ctx context.Context, personID, eventID int64, status ParticipationStatus) (*Participation, error)
	// ConfirmParticipation moves a pending participation to CONFIRMED.
	// Confirming an already confirmed participation is a no-op.
	ConfirmParticipation(ctx context.Context, id int64) (*Participation, error)
	CancelParticipation(ctx context.Context, id int64) error
}
