package factory

import (
	"fmt"

	"github.com/mikey/grammar-relay/internal/adapters/sendgrid"
	"github.com/mikey/grammar-relay/internal/adapters/smtpout"
	"github.com/mikey/grammar-relay/internal/config"
	"github.com/mikey/grammar-relay/internal/core"
	"go.uber.org/zap"
)

// SenderFactory creates email senders based on configuration
type SenderFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSenderFactory creates a new sender factory
func NewSenderFactory(cfg *config.Config, logger *zap.Logger) *SenderFactory {
	return &SenderFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEmailSender creates an email sender based on the configuration
func (f *SenderFactory) CreateEmailSender() (core.EmailSender, error) {
	provider := f.cfg.GetString("email.provider")
	from := f.cfg.GetString("email.from")

	switch provider {
	case "sendgrid":
		return sendgrid.NewSender(f.cfg.GetString("sendgrid.api_key"), from, f.logger), nil
	case "smtp":
		return smtpout.NewSender(
			f.cfg.GetString("smtp.address"),
			f.cfg.GetInt("smtp.port"),
			from,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", provider)
	}
}
