package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnluckyRio/S3-L3/internal/domain"
)

type registrationService struct {
	personRepo        domain.PersonRepository
	eventRepo         domain.EventRepository
	venueRepo         domain.VenueRepository
	participationRepo domain.ParticipationRepository
	emailService      domain.EmailService
	logger            *slog.Logger
}

// NewRegistrationService creates a RegistrationService with the given
// repositories. emailService may be nil, in which case no confirmation
// emails are sent.
func NewRegistrationService(
	personRepo domain.PersonRepository,
	eventRepo domain.EventRepository,
	venueRepo domain.VenueRepository,
	participationRepo domain.ParticipationRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		personRepo:        personRepo,
		eventRepo:         eventRepo,
		venueRepo:         venueRepo,
		participationRepo: participationRepo,
		emailService:      emailService,
		logger:            logger,
	}
}

func (s *registrationService) RegisterForEvent(ctx context.Context, personID, eventID int64, status domain.ParticipationStatus) (*domain.Participation, error) {
	participation := domain.NewParticipation(personID, eventID, status)
	if err := s.participationRepo.Create(ctx, participation); err != nil {
		return nil, fmt.Errorf("create participation: %w", err)
	}

	if participation.Status == domain.ParticipationConfirmed {
		s.sendConfirmationEmail(ctx, participation)
	}
	return participation, nil
}

func (s *registrationService) ConfirmParticipation(ctx context.Context, id int64) (*domain.Participation, error) {
	participation, err := s.participationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get participation: %w", err)
	}
	if participation.Status == domain.ParticipationConfirmed {
		return participation, nil
	}

	participation.Status = domain.ParticipationConfirmed
	if err := s.participationRepo.Update(ctx, participation); err != nil {
		return nil, fmt.Errorf("update participation: %w", err)
	}

	s.sendConfirmationEmail(ctx, participation)
	return participation, nil
}

func (s *registrationService) CancelParticipation(ctx context.Context, id int64) error {
	if err := s.participationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	return nil
}

// sendConfirmationEmail is best-effort: a failed email never fails the
// registration that triggered it.
func (s *registrationService) sendConfirmationEmail(ctx context.Context, p *domain.Participation) {
	if s.emailService == nil {
		return
	}

	person, err := s.personRepo.GetByID(ctx, p.PersonID)
	if err != nil {
		s.logger.Warn("confirmation email skipped: load person", "person_id", p.PersonID, "error", err)
		return
	}
	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		s.logger.Warn("confirmation email skipped: load event", "event_id", p.EventID, "error", err)
		return
	}
	venue, err := s.venueRepo.GetByID(ctx, event.VenueID)
	if err != nil {
		s.logger.Warn("confirmation email skipped: load venue", "venue_id", event.VenueID, "error", err)
		return
	}

	data := &domain.RegistrationConfirmedEmailData{
		Email:      person.Email,
		FirstName:  person.FirstName,
		EventTitle: event.Title,
		EventDate:  event.Date.Format("2006-01-02"),
		VenueName:  venue.Name,
		VenueCity:  venue.City,
	}
	if err := s.emailService.SendRegistrationConfirmed(ctx, data); err != nil {
		s.logger.Warn("confirmation email failed", "email", person.Email, "error", err)
	}
}
