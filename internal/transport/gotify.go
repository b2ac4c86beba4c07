// Package transport implements the Gotify server collaborators: paged
// message fetching over HTTP and the live websocket stream.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"droplink/internal/feed"
	"droplink/internal/model"
)

const maxBodySize = 5 * 1024 * 1024

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches message pages from a Gotify server. It implements
// feed.Fetcher.
type Client struct {
	base   *url.URL
	token  string
	client HTTPClient
}

// NewClient creates a Client for the given server URL and client token.
func NewClient(serverURL, token string, client HTTPClient) (*Client, error) {
	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("server url %q is not absolute", serverURL)
	}
	return &Client{base: base, token: token, client: client}, nil
}

// messagePage is the Gotify paged-messages envelope.
type messagePage struct {
	Messages []model.RawMessage `json:"messages"`
	Paging   struct {
		Size  int    `json:"size"`
		Since int64  `json:"since"`
		Limit int    `json:"limit"`
		Next  string `json:"next"`
	} `json:"paging"`
}

// Fetch requests one page of messages, newest to oldest. A nil since asks
// for the newest page; otherwise only messages with IDs strictly below
// since are returned.
func (c *Client) Fetch(ctx context.Context, limit int, since *int64) (*feed.FetchResult, error) {
	u := *c.base
	u.Path = "/message"
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if since != nil {
		q.Set("since", strconv.FormatInt(*since, 10))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Gotify-Key", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &feed.TransportError{Op: "fetch messages", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &feed.TransportError{Op: "fetch messages", StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &feed.TransportError{Op: "read response", Err: err}
	}

	var page messagePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &feed.ResponseParseError{Err: err}
	}

	return &feed.FetchResult{
		Messages: page.Messages,
		HasMore:  page.Paging.Next != "",
	}, nil
}
