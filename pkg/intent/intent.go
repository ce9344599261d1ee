// Package intent turns free chat text into a structured catalog intent using
// keyword heuristics. The rules are deliberately conservative: unrecognized
// text yields no intent rather than a low-confidence guess.
package intent

import (
	"strings"

	"github.com/soyrochus/brownie/pkg/catalog"
)

// FromText extracts a catalog intent from a chat message. The second return
// is false when the text does not look like a canvas request.
func FromText(text string) (catalog.Intent, bool) {
	lowered := strings.ToLower(text)
	tokens := tokenSet(lowered)
	has := func(term string) bool { return tokens[term] }
	hasAnyPhrase := func(phrases ...string) bool {
		for _, phrase := range phrases {
			if strings.Contains(lowered, phrase) {
				return true
			}
		}
		return false
	}

	mentionsFiles := has("file") || has("files")
	mentionsWorkspace := has("workspace")
	asksFileVisibility := has("show") || has("list") || has("display") ||
		has("browse") || has("view") || strings.HasPrefix(lowered, "what files")

	var primary string
	switch {
	case hasAnyPhrase(
		"list files",
		"listing of files",
		"file tree",
		"directory tree",
		"show files",
		"show me files",
		"show the files",
		"all the files",
		"all files",
		"workspace files",
	) || (mentionsFiles && has("canvas")) ||
		(mentionsFiles && mentionsWorkspace && asksFileVisibility):
		primary = "file_listing"
	case has("plan") || has("roadmap") || has("milestone"):
		primary = "plan_review"
	case has("ui") && has("design"):
		primary = "ui_design_review"
	case has("review") || has("approve") || has("reject") || has("decline") ||
		has("spec") || has("diff") || has("patch") || has("security"):
		primary = "code_review"
	default:
		return catalog.Intent{}, false
	}

	var operations []string
	if has("approve") {
		operations = append(operations, "approve")
	}
	if has("reject") || has("decline") {
		operations = append(operations, "reject")
	}
	if has("revise") || has("change") {
		operations = append(operations, "revise")
	}
	if primary == "file_listing" {
		if has("browse") {
			operations = append(operations, "browse")
		}
		if has("view") {
			operations = append(operations, "view")
		}
		if has("show") || has("list") || has("display") {
			operations = append(operations, "list")
		}
	}
	if len(operations) == 0 {
		switch primary {
		case "file_listing":
			operations = append(operations, "list")
		case "code_review":
			operations = append(operations, "review")
		}
	}

	var tags []string
	if has("spec") {
		tags = append(tags, "spec")
	}
	if has("diff") || has("patch") {
		tags = append(tags, "diff")
	}
	if has("security") {
		tags = append(tags, "security")
	}
	if has("plan") || has("roadmap") {
		tags = append(tags, "plan")
	}
	if primary == "file_listing" {
		tags = append(tags, "files")
		if mentionsWorkspace {
			tags = append(tags, "workspace")
		}
		if has("tree") || has("directory") {
			tags = append(tags, "tree")
		}
	}

	return catalog.NewIntent(primary, operations, tags), true
}

func tokenSet(text string) map[string]bool {
	tokens := make(map[string]bool)
	isSeparator := func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}
	for _, token := range strings.FieldsFunc(text, isSeparator) {
		tokens[token] = true
	}
	return tokens
}
