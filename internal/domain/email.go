package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationConfirmedEmailData holds data for the registration confirmation email.
type RegistrationConfirmedEmailData struct {
	Email      string
	FirstName  string
	EventTitle string
	EventDate  string
	VenueName  string
	VenueCity  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRegistrationConfirmed(ctx context.Context, data *RegistrationConfirmedEmailData) error
}
