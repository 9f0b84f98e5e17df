package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mikey/grammar-relay/internal/core"
	"go.uber.org/zap"
)

// HandlerFunc handles one inbound event. Handlers receive the session
// explicitly and emit their own response events; the gateway is the only
// layer that turns internal failures into wire-level error events.
type HandlerFunc func(ctx context.Context, s *Session, payload json.RawMessage)

// Handlers binds the adapter set to the event table
type Handlers struct {
	corrector  *core.Corrector
	formalizer *core.Formalizer
	dispatcher *core.Dispatcher
	logger     *zap.Logger
}

// NewHandlers creates the event handler set
func NewHandlers(
	corrector *core.Corrector,
	formalizer *core.Formalizer,
	dispatcher *core.Dispatcher,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		corrector:  corrector,
		formalizer: formalizer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Table maps event names to handlers
func (h *Handlers) Table() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		EventCheckGrammar: h.handleCheckGrammar,
		EventFormalize:    h.handleFormalize,
		EventSendEmail:    h.handleSendEmail,
	}
}

func (h *Handlers) handleCheckGrammar(ctx context.Context, s *Session, payload json.RawMessage) {
	var req textPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		s.Emit(EventError, errorPayload{Message: "invalid check_grammar payload"})
		return
	}

	// Whitespace-only input never reaches the corrector; this is distinct
	// from a policy decline.
	if strings.TrimSpace(req.Text) == "" {
		h.logger.Debug("Empty fragment short-circuit", zap.String("action", "empty_input"))
		s.Emit(EventGrammarResult, grammarResultPayload{CorrectedText: req.Text})
		return
	}

	corrected, err := h.corrector.Correct(ctx, req.Text)
	if err != nil {
		h.logger.Error("Grammar check failed", zap.Error(err))
		s.Emit(EventError, errorPayload{Message: err.Error()})
		return
	}

	s.Emit(EventGrammarResult, grammarResultPayload{CorrectedText: corrected})
}

func (h *Handlers) handleFormalize(ctx context.Context, s *Session, payload json.RawMessage) {
	var req textPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		s.Emit(EventError, errorPayload{Message: "invalid formalize payload"})
		return
	}

	formalized, err := h.formalizer.Formalize(ctx, req.Text)
	if err != nil {
		h.logger.Error("Formalization failed", zap.Error(err))
		s.Emit(EventError, errorPayload{Message: err.Error()})
		return
	}

	s.Emit(EventFormalizeResult, formalizeResultPayload{FormalizedText: formalized})
}

func (h *Handlers) handleSendEmail(ctx context.Context, s *Session, payload json.RawMessage) {
	var req sendEmailPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		// Dispatch is best-effort all the way: even a bad payload yields a
		// result event rather than an error event.
		s.Emit(EventEmailResult, emailResultPayload{Success: false})
		return
	}

	success := h.dispatcher.Send(ctx, &core.EmailMessage{
		To:      req.To,
		CC:      req.CC,
		Subject: req.Subject,
		Content: req.Content,
	})

	s.Emit(EventEmailResult, emailResultPayload{Success: success})
}
