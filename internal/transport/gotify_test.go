package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"droplink/internal/feed"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error

	lastReq *http.Request
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func loadFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return string(data)
}

func newTestClient(t *testing.T, transport *mockTransport) *Client {
	t.Helper()
	c, err := NewClient("https://push.example.org", "tok-123", transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestFetch(t *testing.T) {
	body := loadFixture(t, "testdata/messages.json")

	tests := []struct {
		name         string
		transport    *mockTransport
		wantMessages int
		wantHasMore  bool
		wantErr      bool
	}{
		{
			name:         "successful page",
			transport:    &mockTransport{body: body, statusCode: 200},
			wantMessages: 3,
			wantHasMore:  true,
		},
		{
			name:         "last page has no next link",
			transport:    &mockTransport{body: `{"messages": [], "paging": {"size": 0}}`, statusCode: 200},
			wantMessages: 0,
			wantHasMore:  false,
		},
		{
			name:      "http error status",
			transport: &mockTransport{body: "denied", statusCode: 401},
			wantErr:   true,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   true,
		},
		{
			name:      "invalid json",
			transport: &mockTransport{body: "<!doctype html>", statusCode: 200},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.transport)
			res, err := c.Fetch(context.Background(), 3, nil)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if len(res.Messages) != tt.wantMessages {
				t.Errorf("got %d messages, want %d", len(res.Messages), tt.wantMessages)
			}
			if res.HasMore != tt.wantHasMore {
				t.Errorf("hasMore = %v, want %v", res.HasMore, tt.wantHasMore)
			}
		})
	}
}

func TestFetchDecodesMessages(t *testing.T) {
	transport := &mockTransport{body: loadFixture(t, "testdata/messages.json"), statusCode: 200}
	c := newTestClient(t, transport)

	res, err := c.Fetch(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	first := res.Messages[0]
	if first.ID != 105 || first.AppID != 3 || first.Body != "share" {
		t.Errorf("unexpected first message: %+v", first)
	}
	if len(first.Extras) == 0 {
		t.Error("expected extras to be carried through untouched")
	}
	if len(res.Messages[2].Extras) != 0 {
		t.Error("expected message 99 to have no extras")
	}
}

func TestFetchRequestShape(t *testing.T) {
	transport := &mockTransport{body: `{"messages": []}`, statusCode: 200}
	c := newTestClient(t, transport)

	since := int64(104)
	if _, err := c.Fetch(context.Background(), 25, &since); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	req := transport.lastReq
	if got := req.Header.Get("X-Gotify-Key"); got != "tok-123" {
		t.Errorf("auth header = %q", got)
	}
	if got := req.URL.Path; got != "/message" {
		t.Errorf("path = %q", got)
	}
	q := req.URL.Query()
	if got := q.Get("limit"); got != "25" {
		t.Errorf("limit = %q", got)
	}
	if got := q.Get("since"); got != "104" {
		t.Errorf("since = %q", got)
	}
}

func TestFetchErrorKinds(t *testing.T) {
	t.Run("status maps to transport error", func(t *testing.T) {
		c := newTestClient(t, &mockTransport{body: "boom", statusCode: 503})
		_, err := c.Fetch(context.Background(), 5, nil)
		var te *feed.TransportError
		if !errors.As(err, &te) || te.StatusCode != 503 {
			t.Fatalf("expected TransportError with status 503, got %v", err)
		}
	})

	t.Run("bad envelope maps to parse error", func(t *testing.T) {
		c := newTestClient(t, &mockTransport{body: "not json", statusCode: 200})
		_, err := c.Fetch(context.Background(), 5, nil)
		var pe *feed.ResponseParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected ResponseParseError, got %v", err)
		}
	})
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	if _, err := NewClient("push.example.org", "tok", &mockTransport{}); err == nil {
		t.Fatal("expected error for URL without scheme")
	}
}
