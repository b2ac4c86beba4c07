// Package render formats grouped activities as plain text for the terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"droplink/internal/model"
)

// FormatGroups formats the grouped feed for display.
func FormatGroups(groups []model.ActivityGroup, category model.Category, hasMore bool) string {
	if len(groups) == 0 {
		if category == model.CategoryAll {
			return "No activity yet.\n"
		}
		return fmt.Sprintf("No %s activity.\n", category)
	}

	var b strings.Builder
	if category != model.CategoryAll {
		fmt.Fprintf(&b, "Showing: %s\n", category)
	}
	for _, g := range groups {
		fmt.Fprintf(&b, "\n== %s ==\n", g.Label)
		for _, a := range g.Items {
			b.WriteString(FormatActivity(a))
		}
	}
	if hasMore {
		b.WriteString("\n(more available)\n")
	}
	return b.String()
}

// FormatActivity formats one activity as a short block.
func FormatActivity(a model.Activity) string {
	var b strings.Builder
	t := time.UnixMilli(a.Timestamp)
	fmt.Fprintf(&b, "%s  %-12s %s\n", t.Format("15:04"), "["+string(a.Category)+"]", a.Title)
	if a.Content != "" {
		fmt.Fprintf(&b, "       %s\n", a.Content)
	}
	if a.Source != "" {
		fmt.Fprintf(&b, "       from %s\n", a.Source)
	}
	if len(a.Tags) > 0 {
		fmt.Fprintf(&b, "       tags: %s\n", strings.Join(a.Tags, ", "))
	}
	return b.String()
}
