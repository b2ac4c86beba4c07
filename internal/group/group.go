// Package group implements date bucketing and category filtering over the
// retained activity set. Everything here is a pure projection; nothing
// triggers a fetch.
package group

import (
	"sort"
	"time"

	"droplink/internal/model"
)

// Reserved bucket labels.
const (
	LabelToday     = "TODAY"
	LabelYesterday = "YESTERDAY"
)

const yesterdayWindow = 48 * time.Hour

// dateLabel resolves the bucket label for one timestamp relative to now.
// Same calendar day is TODAY. Anything younger than 48 hours is YESTERDAY;
// this is a rolling window rather than a calendar check, carried over from
// the original client.
func dateLabel(ts int64, now time.Time) string {
	t := time.UnixMilli(ts).In(now.Location())
	if sameDay(t, now) {
		return LabelToday
	}
	if now.Sub(t) < yesterdayWindow {
		return LabelYesterday
	}
	return t.Format("Jan 2")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Group buckets activities by date label relative to now. Items within a
// bucket are ordered newest first (stable for equal timestamps). TODAY comes
// first, YESTERDAY second; the remaining buckets are ordered by label
// string, matching the original client's display order.
func Group(activities []model.Activity, now time.Time) []model.ActivityGroup {
	if len(activities) == 0 {
		return nil
	}

	buckets := make(map[string][]model.Activity)
	for _, a := range activities {
		label := dateLabel(a.Timestamp, now)
		buckets[label] = append(buckets[label], a)
	}

	var rest []string
	for label := range buckets {
		if label != LabelToday && label != LabelYesterday {
			rest = append(rest, label)
		}
	}
	sort.Strings(rest)

	order := make([]string, 0, len(buckets))
	if _, ok := buckets[LabelToday]; ok {
		order = append(order, LabelToday)
	}
	if _, ok := buckets[LabelYesterday]; ok {
		order = append(order, LabelYesterday)
	}
	order = append(order, rest...)

	groups := make([]model.ActivityGroup, 0, len(order))
	for _, label := range order {
		items := buckets[label]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Timestamp > items[j].Timestamp
		})
		groups = append(groups, model.ActivityGroup{Label: label, Items: items})
	}
	return groups
}

// ByCategory returns the activities matching the given category, preserving
// relative order. CategoryAll is the identity filter.
func ByCategory(activities []model.Activity, category model.Category) []model.Activity {
	if category == model.CategoryAll {
		return activities
	}
	var matched []model.Activity
	for _, a := range activities {
		if a.Category == category {
			matched = append(matched, a)
		}
	}
	return matched
}
