package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"droplink/internal/metrics"
	"droplink/internal/model"
)

// Stream reads live messages from the server's websocket endpoint and hands
// each one to a callback, typically to nudge a session refresh. It holds no
// feed state of its own.
type Stream struct {
	url    string
	token  string
	dialer *websocket.Dialer
	log    *slog.Logger
}

// NewStream creates a Stream for the given server URL and client token.
func NewStream(serverURL, token string, log *slog.Logger) (*Stream, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/stream"
	return &Stream{
		url:    u.String(),
		token:  token,
		dialer: websocket.DefaultDialer,
		log:    log,
	}, nil
}

// Run connects and delivers messages to onMessage until the connection
// drops or ctx is cancelled. It returns nil on cancellation and the
// connection error otherwise; reconnecting is the caller's decision.
func (s *Stream) Run(ctx context.Context, onMessage func(model.RawMessage)) error {
	header := http.Header{}
	header.Set("X-Gotify-Key", s.token)

	conn, resp, err := s.dialer.DialContext(ctx, s.url, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial stream: status %d: %w", resp.StatusCode, err)
		}
		return fmt.Errorf("dial stream: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock ReadJSON when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	s.log.Info("stream connected", "url", s.url)
	for {
		var msg model.RawMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read stream: %w", err)
		}
		metrics.StreamMessages.Inc()
		s.log.Debug("stream message", "raw_id", msg.ID)
		onMessage(msg)
	}
}
