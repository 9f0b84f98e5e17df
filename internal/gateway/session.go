package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout = 15 * time.Second
	pingInterval = 20 * time.Second
	sendBuffer   = 16
)

// outbound is a queued event awaiting the write pump
type outbound struct {
	event   string
	payload any
}

// Session is one client connection. It has two states: connected (the write
// pump is running) and disconnected (done is closed). Events produced after
// disconnect are discarded, never written to the closed transport.
type Session struct {
	conn      *websocket.Conn
	send      chan outbound
	done      chan struct{}
	closeOnce sync.Once
	cancel    context.CancelFunc
	logger    *zap.Logger
}

func newSession(conn *websocket.Conn, cancel context.CancelFunc, logger *zap.Logger) *Session {
	return &Session{
		conn:   conn,
		send:   make(chan outbound, sendBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
		logger: logger,
	}
}

// Emit queues an event for delivery. On a disconnected session the event is
// dropped; in-flight results must never reach a closed transport.
func (s *Session) Emit(event string, payload any) {
	select {
	case <-s.done:
		s.logger.Debug("Discarding event for disconnected session",
			zap.String("event", event))
	case s.send <- outbound{event: event, payload: payload}:
	}
}

// close transitions the session to disconnected and cancels in-flight handlers
func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()
		_ = s.conn.Close()
	})
}

// writePump is the sole writer on the connection; it drains the send queue
// and keeps the connection alive with pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer s.close()

	for {
		select {
		case out := <-s.send:
			data, err := json.Marshal(Envelope{Event: out.event, Payload: marshalPayload(out.payload)})
			if err != nil {
				s.logger.Error("Failed to marshal outbound event",
					zap.String("event", out.event),
					zap.Error(err))
				continue
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func marshalPayload(payload any) json.RawMessage {
	if payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}
