// Package classify maps a payload's primary action to a display category.
package classify

import (
	"strings"

	"droplink/internal/extras"
	"droplink/internal/model"
)

// Result is the display classification of an activity.
type Result struct {
	Category model.Category
	Title    string
	Icon     model.IconTag
}

// fallback covers an empty action list and any action type the table does
// not know about.
var fallback = Result{Category: model.CategoryAll, Title: "Activity", Icon: model.IconClipSaved}

// archiveTargets maps the archive action's handler param to a result.
// Handler matching is case-insensitive.
var archiveTargets = map[string]Result{
	"notion":   {Category: model.CategoryNotion, Title: "Notion Saved", Icon: model.IconNotionSaved},
	"obsidian": {Category: model.CategoryFiles, Title: "Obsidian Saved", Icon: model.IconFileUploaded},
	"notes":    {Category: model.CategoryFiles, Title: "Notes Saved", Icon: model.IconFileUploaded},
}

// Classify resolves category, title and icon from the first action. Later
// actions are carried on the activity but never influence classification.
func Classify(actions []extras.ActionEntry) Result {
	if len(actions) == 0 {
		return fallback
	}

	first := actions[0]
	switch first.Type {
	case "openTab":
		return Result{Category: model.CategoryTabs, Title: "Tab Opened", Icon: model.IconTabOpened}
	case "archive":
		handler := strings.ToLower(first.Params["handler"])
		if r, ok := archiveTargets[handler]; ok {
			return r
		}
		return Result{Category: model.CategoryFiles, Title: "File Saved", Icon: model.IconFileUploaded}
	default:
		return fallback
	}
}
