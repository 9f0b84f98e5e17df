package sendgrid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mikey/grammar-relay/internal/core"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Sender is an implementation of the EmailSender interface using SendGrid
type Sender struct {
	client *sendgrid.Client
	from   string
	logger *zap.Logger
}

// NewSender creates a new SendGrid sender
func NewSender(apiKey, from string, logger *zap.Logger) *Sender {
	return &Sender{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		logger: logger,
	}
}

// Send delivers a message through the SendGrid v3 API. SendGrid signals
// acceptance for delivery with 202; anything else is a failure.
func (s *Sender) Send(ctx context.Context, msg *core.EmailMessage) error {
	mail := sgmail.NewSingleEmail(
		sgmail.NewEmail("", s.from),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		msg.Content,
		msg.Content,
	)
	if msg.CC != "" && len(mail.Personalizations) > 0 {
		mail.Personalizations[0].AddCCs(sgmail.NewEmail("", msg.CC))
	}

	resp, err := s.client.SendWithContext(ctx, mail)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid rejected message with status %d", resp.StatusCode)
	}

	s.logger.Debug("SendGrid accepted message", zap.String("to", msg.To))
	return nil
}
