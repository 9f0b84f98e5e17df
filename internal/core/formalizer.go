package core

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Formalizer is the core service for rewriting a full draft into a formal
// register. A formalize request is explicit user intent, so unlike live
// correction there is no skip policy and no caching.
type Formalizer struct {
	client FormalizeClient
	logger *zap.Logger
}

// NewFormalizer creates a new formalization service
func NewFormalizer(client FormalizeClient, logger *zap.Logger) *Formalizer {
	return &Formalizer{
		client: client,
		logger: logger,
	}
}

// Formalize rewrites text into a formal business tone
func (f *Formalizer) Formalize(ctx context.Context, text string) (string, error) {
	result, err := f.client.Formalize(ctx, text)
	if err != nil {
		return "", &FormalizationError{Err: err}
	}
	return strings.TrimSpace(result), nil
}
