package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mikey/grammar-relay/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFormalizeClient struct {
	calls  int
	lastIn string
	output string
	err    error
}

func (s *stubFormalizeClient) Formalize(_ context.Context, text string) (string, error) {
	s.calls++
	s.lastIn = text
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

func TestFormalizeInvokesBackendOnceAndTrims(t *testing.T) {
	client := &stubFormalizeClient{output: "  Could you please send the file?\n"}
	formalizer := core.NewFormalizer(client, zap.NewNop())

	got, err := formalizer.Formalize(context.Background(), "can u send the file pls")
	require.NoError(t, err)
	assert.Equal(t, "Could you please send the file?", got)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "can u send the file pls", client.lastIn)
}

func TestFormalizeAppliesNoSkipPolicy(t *testing.T) {
	// Even input the corrector would decline is always formalized
	client := &stubFormalizeClient{output: "Hello."}
	formalizer := core.NewFormalizer(client, zap.NewNop())

	_, err := formalizer.Formalize(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestFormalizeBackendFailureSurfacesFormalizationError(t *testing.T) {
	client := &stubFormalizeClient{err: errors.New("rate limited")}
	formalizer := core.NewFormalizer(client, zap.NewNop())

	_, err := formalizer.Formalize(context.Background(), "can u send the file pls")
	require.Error(t, err)

	var formErr *core.FormalizationError
	assert.ErrorAs(t, err, &formErr)
}
