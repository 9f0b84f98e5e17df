package t5

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGeneratePrependsTaskPrefixAndSendsParams(t *testing.T) {
	var gotReq generateRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]string{{"generated_text": "I go to school."}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5, 1, 10*time.Second, zap.NewNop())

	got, err := client.Generate(context.Background(), "i goes to school.")
	require.NoError(t, err)

	assert.Equal(t, "I go to school.", got)
	assert.Equal(t, "grammar: i goes to school.", gotReq.Inputs)
	assert.Equal(t, 5, gotReq.Parameters.NumBeams)
	assert.Equal(t, 1, gotReq.Parameters.MinLength)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestGenerateOmitsAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]map[string]string{{"generated_text": "ok."}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5, 1, 10*time.Second, zap.NewNop())

	_, err := client.Generate(context.Background(), "some text.")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5, 1, 10*time.Second, zap.NewNop())

	_, err := client.Generate(context.Background(), "some text.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGenerateEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5, 1, 10*time.Second, zap.NewNop())

	_, err := client.Generate(context.Background(), "some text.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGenerateContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect
		// and cancel the request context; otherwise this handler never
		// unblocks and srv.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5, 1, 10*time.Second, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "some text.")
	require.Error(t, err)
}
