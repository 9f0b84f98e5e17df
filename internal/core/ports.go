package core

import (
	"context"
)

// CorrectionEngine defines the interface for the grammar correction model backend
type CorrectionEngine interface {
	// Generate produces a corrected version of the given text fragment
	Generate(ctx context.Context, text string) (string, error)
}

// FormalizeClient defines the interface for the LLM rewrite backend
type FormalizeClient interface {
	// Formalize rewrites a full text block into a formal register
	Formalize(ctx context.Context, text string) (string, error)
}

// EmailSender defines the interface for the transactional email backend
type EmailSender interface {
	// Send delivers a message; a nil error means the backend accepted it
	Send(ctx context.Context, msg *EmailMessage) error
}

// CacheRepository defines the interface for caching correction results
type CacheRepository interface {
	// Get retrieves the cached correction for a fragment.
	// Lookup is by the lowercase form of the fragment; expired entries are absent.
	Get(ctx context.Context, fragment string) (string, bool, error)

	// Set stores a correction entry, overwriting any existing entry for its key
	Set(ctx context.Context, entry *CorrectionEntry) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
