package core

import (
	"context"

	"go.uber.org/zap"
)

// Dispatcher is the core service for sending email. Delivery failures are
// expected and routine (bad address, rate limits), so dispatch is
// best-effort: the result is a plain success flag, never an error.
type Dispatcher struct {
	sender EmailSender
	logger *zap.Logger
}

// NewDispatcher creates a new email dispatch service
func NewDispatcher(sender EmailSender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: logger,
	}
}

// Send dispatches msg and reports whether the backend accepted it
func (d *Dispatcher) Send(ctx context.Context, msg *EmailMessage) bool {
	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Warn("Failed to send email",
			zap.String("to", msg.To),
			zap.Error(err))
		return false
	}

	d.logger.Info("Email dispatched",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return true
}
