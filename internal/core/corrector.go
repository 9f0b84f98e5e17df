package core

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Corrector is the core service for grammar correction. It applies the skip
// policy, consults the cache before invoking the engine, and writes results
// back. The cache is the only shared state; it is never written by anyone
// else.
type Corrector struct {
	engine       CorrectionEngine
	cache        CacheRepository
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewCorrector creates a new correction service
func NewCorrector(
	engine CorrectionEngine,
	cache CacheRepository,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *Corrector {
	return &Corrector{
		engine:       engine,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
	}
}

// Correct returns a grammar-corrected version of text. Fragments declined by
// the skip policy pass through unchanged without touching the engine or the
// cache. A failing cache degrades to always invoking the engine rather than
// failing the request.
func (c *Corrector) Correct(ctx context.Context, text string) (string, error) {
	if !ShouldCorrect(text) {
		c.logger.Debug("Skip policy declined fragment",
			zap.Int("length", len(text)),
			zap.String("action", "policy_decline"))
		return text, nil
	}

	// The correction is computed on the whitespace-trimmed form; a trailing
	// newline is stripped for processing purposes.
	normalized := strings.TrimSpace(text)

	if c.cacheEnabled {
		corrected, ok, err := c.cache.Get(ctx, normalized)
		if err != nil {
			c.logger.Warn("Cache unavailable, correcting without it", zap.Error(err))
		} else if ok {
			c.logger.Debug("Cache hit for fragment", zap.String("fragment", normalized))
			return corrected, nil
		}
	}

	output, err := c.engine.Generate(ctx, normalized)
	if err != nil {
		return "", &EngineError{Err: err}
	}
	output = strings.TrimSpace(output)

	// No-op corrections are not cached: they waste storage and would mask a
	// real correction once more context is typed.
	if c.cacheEnabled && !strings.EqualFold(normalized, output) {
		now := time.Now()
		entry := &CorrectionEntry{
			Key:       strings.ToLower(normalized),
			Original:  normalized,
			Corrected: output,
			CreatedAt: now,
			ExpiresAt: now.Add(c.cacheTTL),
		}
		if err := c.cache.Set(ctx, entry); err != nil {
			c.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return output, nil
}
