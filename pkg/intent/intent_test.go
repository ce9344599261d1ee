package intent_test

import (
	"testing"

	"github.com/soyrochus/brownie/pkg/intent"
)

func TestDetectsWorkspaceFileRequestWithArticles(t *testing.T) {
	got, ok := intent.FromText("Show the files in the workspace")
	if !ok {
		t.Fatal("FromText() ok = false, want intent")
	}
	if got.Primary != "file_listing" {
		t.Errorf("primary = %q, want %q", got.Primary, "file_listing")
	}
	if !contains(got.Operations, "list") {
		t.Errorf("operations = %v, want to contain %q", got.Operations, "list")
	}
	if !contains(got.Tags, "files") || !contains(got.Tags, "workspace") {
		t.Errorf("tags = %v, want to contain files and workspace", got.Tags)
	}
}

func TestDetectsWorkspaceFileRequestWithoutShowPhrase(t *testing.T) {
	got, ok := intent.FromText("workspace files please")
	if !ok {
		t.Fatal("FromText() ok = false, want intent")
	}
	if got.Primary != "file_listing" {
		t.Errorf("primary = %q, want %q", got.Primary, "file_listing")
	}
}

func TestDetectsCodeReviewIntent(t *testing.T) {
	got, ok := intent.FromText("review this patch for security risks")
	if !ok {
		t.Fatal("FromText() ok = false, want intent")
	}
	if got.Primary != "code_review" {
		t.Errorf("primary = %q, want %q", got.Primary, "code_review")
	}
	if !contains(got.Tags, "diff") || !contains(got.Tags, "security") {
		t.Errorf("tags = %v, want to contain diff and security", got.Tags)
	}
}

func TestDetectsPlanReviewIntent(t *testing.T) {
	got, ok := intent.FromText("can you revise the roadmap plan")
	if !ok {
		t.Fatal("FromText() ok = false, want intent")
	}
	if got.Primary != "plan_review" {
		t.Errorf("primary = %q, want %q", got.Primary, "plan_review")
	}
	if !contains(got.Operations, "revise") {
		t.Errorf("operations = %v, want to contain %q", got.Operations, "revise")
	}
}

func TestReturnsNoIntentForNonUIPrompt(t *testing.T) {
	if _, ok := intent.FromText("hello there"); ok {
		t.Error("FromText() ok = true for small talk, want false")
	}
}

func contains(terms []string, want string) bool {
	for _, term := range terms {
		if term == want {
			return true
		}
	}
	return false
}
