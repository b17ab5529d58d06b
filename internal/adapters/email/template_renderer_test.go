package email

import (
	"testing"

	"github.com/UnluckyRio/S3-L3/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_RegistrationConfirmed(t *testing.T) {
	renderer := NewTemplateRenderer()

	data := &domain.RegistrationConfirmedEmailData{
		Email:      "mario.rossi@email.com",
		FirstName:  "Mario",
		EventTitle: "Conferenza Java 2024",
		EventDate:  "2024-06-15",
		VenueName:  "Palazzo dei Congressi",
		VenueCity:  "Roma",
	}

	subject, htmlBody, textBody, err := renderer.Render("registration_confirmed", data)
	require.NoError(t, err)
	require.Contains(t, subject, "Conferenza Java 2024")
	require.Contains(t, htmlBody, "Mario")
	require.Contains(t, htmlBody, "Palazzo dei Congressi")
	require.Contains(t, textBody, "2024-06-15")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	renderer := NewTemplateRenderer()

	_, _, _, err := renderer.Render("does_not_exist", nil)
	require.Error(t, err)
}
