package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mikey/grammar-relay/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEngine struct {
	calls  atomic.Int32
	output string
	err    error
}

func (f *fakeEngine) Generate(context.Context, string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

type fakeFormalizeClient struct {
	output string
	err    error
}

func (f *fakeFormalizeClient) Formalize(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

type fakeSender struct {
	err error
}

func (f *fakeSender) Send(context.Context, *core.EmailMessage) error {
	return f.err
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (nopCache) Set(context.Context, *core.CorrectionEntry) error  { return nil }
func (nopCache) Cleanup(context.Context) error                     { return nil }

func dialTestServer(t *testing.T, engine core.CorrectionEngine, fc core.FormalizeClient, sender core.EmailSender) *websocket.Conn {
	t.Helper()
	logger := zap.NewNop()

	handlers := NewHandlers(
		core.NewCorrector(engine, nopCache{}, logger, true, 24*time.Hour),
		core.NewFormalizer(fc, logger),
		core.NewDispatcher(sender, logger),
		logger,
	)
	server := NewServer(handlers, logger, "127.0.0.1:0", "/ws", 5*time.Second)

	httpSrv := httptest.NewServer(server.Handler())
	t.Cleanup(httpSrv.Close)

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Envelope{Event: event, Payload: data}))
}

func TestConnectEmitsAck(t *testing.T) {
	conn := dialTestServer(t, &fakeEngine{}, &fakeFormalizeClient{}, &fakeSender{})

	env := readEvent(t, conn)
	assert.Equal(t, EventConnected, env.Event)

	var payload connectedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "Connected to grammar service", payload.Data)
}

func TestCheckGrammarRoundTrip(t *testing.T) {
	engine := &fakeEngine{output: "I go to school."}
	conn := dialTestServer(t, engine, &fakeFormalizeClient{}, &fakeSender{})
	readEvent(t, conn) // connected ack

	sendEvent(t, conn, EventCheckGrammar, textPayload{Text: "i goes to school."})

	env := readEvent(t, conn)
	require.Equal(t, EventGrammarResult, env.Event)

	var payload grammarResultPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "I go to school.", payload.CorrectedText)
	assert.Equal(t, int32(1), engine.calls.Load())
}

func TestCheckGrammarPolicyDeclineReturnsInputUnchanged(t *testing.T) {
	engine := &fakeEngine{output: "unused"}
	conn := dialTestServer(t, engine, &fakeFormalizeClient{}, &fakeSender{})
	readEvent(t, conn)

	sendEvent(t, conn, EventCheckGrammar, textPayload{Text: "i goes to school"})

	env := readEvent(t, conn)
	require.Equal(t, EventGrammarResult, env.Event)

	var payload grammarResultPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "i goes to school", payload.CorrectedText)
	assert.Zero(t, engine.calls.Load())
}

func TestCheckGrammarEmptyTextShortCircuits(t *testing.T) {
	engine := &fakeEngine{output: "unused"}
	conn := dialTestServer(t, engine, &fakeFormalizeClient{}, &fakeSender{})
	readEvent(t, conn)

	sendEvent(t, conn, EventCheckGrammar, textPayload{Text: "   "})

	env := readEvent(t, conn)
	require.Equal(t, EventGrammarResult, env.Event)

	var payload grammarResultPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "   ", payload.CorrectedText)
	assert.Zero(t, engine.calls.Load())
}

func TestCheckGrammarEngineFailureEmitsErrorEvent(t *testing.T) {
	engine := &fakeEngine{err: errors.New("model not loaded")}
	conn := dialTestServer(t, engine, &fakeFormalizeClient{}, &fakeSender{})
	readEvent(t, conn)

	sendEvent(t, conn, EventCheckGrammar, textPayload{Text: "i goes to school."})

	env := readEvent(t, conn)
	require.Equal(t, EventError, env.Event)

	var payload errorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Contains(t, payload.Message, "correction engine")
}

func TestFormalizeRoundTrip(t *testing.T) {
	fc := &fakeFormalizeClient{output: "Could you please send the file?"}
	conn := dialTestServer(t, &fakeEngine{}, fc, &fakeSender{})
	readEvent(t, conn)

	sendEvent(t, conn, EventFormalize, textPayload{Text: "can u send the file pls"})

	env := readEvent(t, conn)
	require.Equal(t, EventFormalizeResult, env.Event)

	var payload formalizeResultPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "Could you please send the file?", payload.FormalizedText)
}

func TestFormalizeFailureEmitsErrorEvent(t *testing.T) {
	fc := &fakeFormalizeClient{err: errors.New("rate limited")}
	conn := dialTestServer(t, &fakeEngine{}, fc, &fakeSender{})
	readEvent(t, conn)

	sendEvent(t, conn, EventFormalize, textPayload{Text: "can u send the file pls"})

	env := readEvent(t, conn)
	assert.Equal(t, EventError, env.Event)
}

func TestSendEmailSuccess(t *testing.T) {
	conn := dialTestServer(t, &fakeEngine{}, &fakeFormalizeClient{}, &fakeSender{})
	readEvent(t, conn)

	sendEvent(t, conn, EventSendEmail, sendEmailPayload{
		To:      "a@example.com",
		Subject: "Hello",
		Content: "Body",
	})

	env := readEvent(t, conn)
	require.Equal(t, EventEmailResult, env.Event)

	var payload emailResultPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.True(t, payload.Success)
}

func TestSendEmailFailureIsResultNotError(t *testing.T) {
	sender := &fakeSender{err: errors.New("mailbox unavailable")}
	conn := dialTestServer(t, &fakeEngine{}, &fakeFormalizeClient{}, sender)
	readEvent(t, conn)

	sendEvent(t, conn, EventSendEmail, sendEmailPayload{To: "a@example.com"})

	env := readEvent(t, conn)
	require.Equal(t, EventEmailResult, env.Event, "dispatch failure must never surface as an error event")

	var payload emailResultPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.False(t, payload.Success)
}

func TestUnknownEventEmitsError(t *testing.T) {
	conn := dialTestServer(t, &fakeEngine{}, &fakeFormalizeClient{}, &fakeSender{})
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(Envelope{Event: "no_such_event"}))

	env := readEvent(t, conn)
	require.Equal(t, EventError, env.Event)

	var payload errorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Contains(t, payload.Message, "no_such_event")
}

func TestMalformedEventEmitsError(t *testing.T) {
	conn := dialTestServer(t, &fakeEngine{}, &fakeFormalizeClient{}, &fakeSender{})
	readEvent(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	env := readEvent(t, conn)
	assert.Equal(t, EventError, env.Event)
}

func TestEmitAfterCloseIsDiscarded(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A session whose transport is already gone: Emit must drop the event
	// instead of blocking or writing.
	sess := &Session{
		conn:   nil,
		send:   make(chan outbound),
		done:   make(chan struct{}),
		cancel: cancel,
		logger: zap.NewNop(),
	}
	close(sess.done)

	done := make(chan struct{})
	go func() {
		sess.Emit(EventGrammarResult, grammarResultPayload{CorrectedText: "late result"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a disconnected session")
	}
}
