// Package model defines the domain types used across the application.
package model

import (
	"encoding/json"
	"time"
)

// Category classifies an activity by the action that produced it.
type Category string

// Supported categories. CategoryAll doubles as the identity filter.
const (
	CategoryAll    Category = "ALL"
	CategoryNotion Category = "NOTION"
	CategoryTabs   Category = "TABS"
	CategoryFiles  Category = "FILES"
)

// IconTag names the icon the presentation layer should render for an activity.
type IconTag string

// Supported icon tags.
const (
	IconTabOpened    IconTag = "TabOpened"
	IconNotionSaved  IconTag = "NotionSaved"
	IconFileUploaded IconTag = "FileUploaded"
	IconClipSaved    IconTag = "ClipSaved"
)

// RawMessage is one message as returned by the Gotify server, before any
// interpretation. The ID is server-assigned; smaller values are older, and it
// is the only value pagination cursors are derived from.
type RawMessage struct {
	ID        int64           `json:"id"`
	AppID     int32           `json:"appid"`
	Title     string          `json:"title"`
	Body      string          `json:"message"`
	Priority  int             `json:"priority"`
	CreatedAt string          `json:"date"`
	Extras    json.RawMessage `json:"extras,omitempty"`
}

// Action is one follow-up action carried by an activity, ready for display.
type Action struct {
	Type  string
	Label string
}

// Activity is the canonical, validated record produced from one RawMessage.
// Values are immutable once produced. Source is empty when the content value
// is not an absolute URL. Timestamp is unix milliseconds.
type Activity struct {
	ID        string
	CursorID  int64
	Category  Category
	Title     string
	Icon      IconTag
	Content   string
	Timestamp int64
	Source    string
	Actions   []Action
	Tags      []string
	Sender    string
}

// ActivityGroup is a date-labeled bucket of activities for display,
// newest first within the bucket.
type ActivityGroup struct {
	Label string
	Items []Activity
}

// Credential is a stored server pairing: where to fetch from and the client
// token to authenticate with.
type Credential struct {
	ServerURL   string
	ClientToken string
	ServerName  string
	PairedAt    time.Time
}
