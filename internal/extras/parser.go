// Package extras validates the loosely-structured application payload
// embedded in a raw message.
package extras

import (
	"encoding/json"
	"errors"
)

// ErrRejected signals that a payload failed structural validation and the
// whole record must be dropped.
var ErrRejected = errors.New("extras: payload rejected")

// Content is the main body of a payload: a type tag and a value.
type Content struct {
	Type  string
	Value string
}

// ActionEntry is one action as it appears in the payload, before display
// labels are resolved.
type ActionEntry struct {
	Type   string
	Params map[string]string
}

// Payload is a validated extras payload. Timestamp is unix milliseconds,
// zero when absent. Sender is "unknown" when absent.
type Payload struct {
	ClientID  string
	Timestamp int64
	Sender    string
	Content   Content
	Actions   []ActionEntry
	Tags      []string
}

// Parse validates a raw extras value. The caller is expected to handle an
// absent payload before calling; Parse treats anything that is not a JSON
// object with the required shape as a rejection.
//
// Rules:
//   - content is required: either an object with a string value (type
//     defaults to "text") or a bare string (treated as text).
//   - actions is required and must be an array; elements that are not
//     objects with a string type are dropped individually, and an array
//     that ends up empty is still accepted.
//   - clientId, timestamp, sender and tags are best-effort: a type
//     mismatch means absence, never rejection.
func Parse(raw json.RawMessage) (*Payload, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, ErrRejected
	}

	content, err := parseContent(obj["content"])
	if err != nil {
		return nil, err
	}

	actions, err := parseActions(obj["actions"])
	if err != nil {
		return nil, err
	}

	p := &Payload{
		Content: content,
		Actions: actions,
		Sender:  "unknown",
	}

	// Soft fields: mismatches fall back to absence.
	var s string
	if err := json.Unmarshal(obj["clientId"], &s); err == nil {
		p.ClientID = s
	}
	if err := json.Unmarshal(obj["sender"], &s); err == nil && s != "" {
		p.Sender = s
	}
	var n json.Number
	if err := json.Unmarshal(obj["timestamp"], &n); err == nil {
		if ms, err := n.Int64(); err == nil {
			p.Timestamp = ms
		} else if f, err := n.Float64(); err == nil {
			p.Timestamp = int64(f)
		}
	}
	p.Tags = parseTags(obj["tags"])

	return p, nil
}

func parseContent(raw json.RawMessage) (Content, error) {
	if len(raw) == 0 {
		return Content{}, ErrRejected
	}

	// Bare string form: "code 1234" means {type: "text", value: "code 1234"}.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Content{Type: "text", Value: s}, nil
	}

	var co struct {
		Type  string  `json:"type"`
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(raw, &co); err != nil || co.Value == nil {
		return Content{}, ErrRejected
	}
	if co.Type == "" {
		co.Type = "text"
	}
	return Content{Type: co.Type, Value: *co.Value}, nil
}

func parseActions(raw json.RawMessage) ([]ActionEntry, error) {
	if len(raw) == 0 {
		return nil, ErrRejected
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, ErrRejected
	}

	actions := make([]ActionEntry, 0, len(elems))
	for _, el := range elems {
		var a struct {
			Type   string                     `json:"type"`
			Params map[string]json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(el, &a); err != nil || a.Type == "" {
			continue
		}
		entry := ActionEntry{Type: a.Type}
		for k, v := range a.Params {
			var pv string
			if err := json.Unmarshal(v, &pv); err == nil {
				if entry.Params == nil {
					entry.Params = make(map[string]string)
				}
				entry.Params[k] = pv
			}
		}
		actions = append(actions, entry)
	}
	return actions, nil
}

func parseTags(raw json.RawMessage) []string {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	var tags []string
	for _, el := range elems {
		var t string
		if err := json.Unmarshal(el, &t); err == nil {
			tags = append(tags, t)
		}
	}
	return tags
}
