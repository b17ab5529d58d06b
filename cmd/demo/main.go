// Command demo seeds the database with a small scenario and walks through
// the registration flow: a person, a venue, a capacity-limited event, and a
// confirmed participation.
package main

import (
	"context"
	"os"
	"time"

	"github.com/UnluckyRio/S3-L3/config"
	emailadapter "github.com/UnluckyRio/S3-L3/internal/adapters/email"
	"github.com/UnluckyRio/S3-L3/internal/domain"
	"github.com/UnluckyRio/S3-L3/internal/repository/postgres"
	"github.com/UnluckyRio/S3-L3/internal/services"
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Error("ensure schema", "error", err)
		os.Exit(1)
	}

	personRepo := postgres.NewPersonRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	participationRepo := postgres.NewParticipationRepository(db)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "error", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	registration := services.NewRegistrationService(personRepo, eventRepo, venueRepo, participationRepo, emailService, logger)

	person := domain.NewPerson("Mario", "Rossi", "mario.rossi@email.com",
		time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC), domain.SexMale)
	if err := personRepo.Create(ctx, person); err != nil {
		logger.Error("create person", "error", err)
		os.Exit(1)
	}
	logger.Info("person created", "id", person.ID, "email", person.Email)

	venue := domain.NewVenue("Palazzo dei Congressi", "Roma")
	if err := venueRepo.Create(ctx, venue); err != nil {
		logger.Error("create venue", "error", err)
		os.Exit(1)
	}
	logger.Info("venue created", "id", venue.ID, "name", venue.Name)

	description := "Annual Java conference"
	event := domain.NewEvent("Conferenza Java 2024",
		time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		&description, domain.EventKindPublic, 100, venue.ID)
	if err := eventRepo.Create(ctx, event); err != nil {
		logger.Error("create event", "error", err)
		os.Exit(1)
	}
	logger.Info("event created", "id", event.ID, "title", event.Title, "capacity", event.Capacity)

	participation, err := registration.RegisterForEvent(ctx, person.ID, event.ID, domain.ParticipationConfirmed)
	if err != nil {
		logger.Error("register for event", "error", err)
		os.Exit(1)
	}
	logger.Info("participation created", "id", participation.ID, "status", participation.Status)

	remaining, err := eventRepo.RemainingSeats(ctx, event.ID)
	if err != nil {
		logger.Error("remaining seats", "error", err)
		os.Exit(1)
	}
	logger.Info("remaining seats", "event_id", event.ID, "remaining", remaining)
}
