package gateway

import (
	"encoding/json"
)

// Event names accepted and emitted by the gateway.
const (
	EventConnected       = "connected"
	EventCheckGrammar    = "check_grammar"
	EventGrammarResult   = "grammar_result"
	EventFormalize       = "formalize"
	EventFormalizeResult = "formalize_result"
	EventSendEmail       = "send_email"
	EventEmailResult     = "email_result"
	EventError           = "error"
)

// Envelope frames every message on the wire
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type textPayload struct {
	Text string `json:"text"`
}

type grammarResultPayload struct {
	CorrectedText string `json:"corrected_text"`
}

type formalizeResultPayload struct {
	FormalizedText string `json:"formalized_text"`
}

type sendEmailPayload struct {
	To      string `json:"to"`
	CC      string `json:"cc,omitempty"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

type emailResultPayload struct {
	Success bool `json:"success"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type connectedPayload struct {
	Data string `json:"data"`
}
