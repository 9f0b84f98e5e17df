package core

import (
	"time"
)

// CorrectionEntry is a cached grammar correction for a text fragment.
// Key is always the lowercase form of Original.
type CorrectionEntry struct {
	Key       string
	Original  string
	Corrected string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// EmailMessage represents an outbound email
type EmailMessage struct {
	To      string
	CC      string
	Subject string
	Content string
}
