// Package normalize turns raw messages into canonical activities.
package normalize

import (
	"fmt"
	"net/url"
	"time"

	"droplink/internal/classify"
	"droplink/internal/extras"
	"droplink/internal/metrics"
	"droplink/internal/model"
)

// Normalize converts one raw message into an activity. The second return is
// false when the message carried an extras payload that failed validation;
// such records are dropped silently and counted for diagnostics.
//
// now anchors the last-resort timestamp fallback so that callers control the
// clock; the same input with the same now always yields the same activity.
func Normalize(raw model.RawMessage, now time.Time) (model.Activity, bool) {
	if !hasExtras(raw) {
		return systemNote(raw, now), true
	}

	payload, err := extras.Parse(raw.Extras)
	if err != nil {
		metrics.RejectedRecords.Inc()
		return model.Activity{}, false
	}

	c := classify.Classify(payload.Actions)

	ts := payload.Timestamp
	if ts == 0 {
		ts = parseCreatedAt(raw.CreatedAt, now)
	}

	return model.Activity{
		ID:        activityID(payload.ClientID, raw.ID),
		CursorID:  raw.ID,
		Category:  c.Category,
		Title:     c.Title,
		Icon:      c.Icon,
		Content:   payload.Content.Value,
		Timestamp: ts,
		Source:    sourceHost(payload.Content.Value),
		Actions:   displayActions(payload.Actions),
		Tags:      payload.Tags,
		Sender:    payload.Sender,
	}, true
}

// hasExtras reports whether the message carries a payload at all. A JSON
// null counts as absent.
func hasExtras(raw model.RawMessage) bool {
	return len(raw.Extras) > 0 && string(raw.Extras) != "null"
}

// systemNote is the shape of a message with no payload: a plain note from
// the server, never rejected.
func systemNote(raw model.RawMessage, now time.Time) model.Activity {
	title := raw.Title
	if title == "" {
		title = "Activity"
	}
	return model.Activity{
		ID:        activityID("", raw.ID),
		CursorID:  raw.ID,
		Category:  model.CategoryAll,
		Title:     title,
		Icon:      model.IconClipSaved,
		Content:   raw.Body,
		Timestamp: parseCreatedAt(raw.CreatedAt, now),
		Actions:   []model.Action{},
		Sender:    "system",
	}
}

func activityID(clientID string, rawID int64) string {
	if clientID != "" {
		return clientID
	}
	return fmt.Sprintf("raw_%d", rawID)
}

// sourceHost extracts the hostname when the content value is an absolute
// URL. Anything else, including relative paths and plain text, means no
// source.
func sourceHost(value string) string {
	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	return u.Hostname()
}

func displayActions(entries []extras.ActionEntry) []model.Action {
	actions := make([]model.Action, 0, len(entries))
	for _, e := range entries {
		label := e.Params["label"]
		if label == "" {
			label = e.Type
		}
		actions = append(actions, model.Action{Type: e.Type, Label: label})
	}
	return actions
}

func parseCreatedAt(createdAt string, now time.Time) int64 {
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return now.UnixMilli()
	}
	return t.UnixMilli()
}
