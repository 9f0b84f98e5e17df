// Package smtpout sends mail through a local SMTP relay, for deployments
// without a transactional email provider.
package smtpout

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/grammar-relay/internal/core"
	"go.uber.org/zap"
)

// Sender is an implementation of the EmailSender interface using an SMTP relay
type Sender struct {
	addr   string
	port   int
	from   string
	logger *zap.Logger
}

// NewSender creates a new SMTP sender
func NewSender(addr string, port int, from string, logger *zap.Logger) *Sender {
	return &Sender{
		addr:   addr,
		port:   port,
		from:   from,
		logger: logger,
	}
}

// Send delivers a message to the configured relay
func (s *Sender) Send(ctx context.Context, msg *core.EmailMessage) error {
	relayAddr := fmt.Sprintf("%s:%d", s.addr, s.port)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", relayAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay: %w", err)
	}

	deadline := time.Now().Add(30 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(s.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipients := []string{msg.To}
	if msg.CC != "" {
		recipients = append(recipients, msg.CC)
	}
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			return fmt.Errorf("RCPT TO failed for %s: %w", recipient, err)
		}
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if msg.CC != "" {
		fmt.Fprintf(&b, "Cc: %s\r\n", msg.CC)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: text/html; charset=utf-8\r\n")
	fmt.Fprintf(&b, "\r\n%s\r\n", msg.Content)

	if _, err := wc.Write([]byte(b.String())); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// Message already handed off; a failed QUIT is not a delivery failure
		s.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}
