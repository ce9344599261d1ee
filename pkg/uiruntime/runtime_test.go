package uiruntime_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/soyrochus/brownie/pkg/uiruntime"
	"github.com/soyrochus/brownie/pkg/uischema"
)

const reviewSchema = `{
  "schema_version": 1,
  "outputs": [
    {"component_id": "approve_btn", "event_id": "event.review.approve"}
  ],
  "components": [
    {"id": "summary", "kind": "markdown", "text": "# Review"},
    {
      "id": "review_form",
      "kind": "form",
      "fields": [
        {"id": "decision", "label": "Decision", "kind": "select", "options": ["approve", "reject"]},
        {"id": "comments", "label": "Comments", "kind": "text"},
        {"id": "score", "label": "Score", "kind": "number", "default": 3},
        {"id": "blocking", "label": "Blocking", "kind": "checkbox", "default": true}
      ]
    },
    {"id": "approve_btn", "kind": "button", "label": "Approve"}
  ]
}`

func TestLoadSeedsFormStateDefaults(t *testing.T) {
	runtime := uiruntime.NewRuntime()
	if err := runtime.Load(json.RawMessage(reviewSchema)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !runtime.HasSchema() {
		t.Fatal("HasSchema() = false, want true")
	}

	want := map[string]uischema.FieldValue{
		"review_form:decision": uischema.SelectValue("approve"),
		"review_form:comments": uischema.TextValue(""),
		"review_form:score":    uischema.NumberValue(3),
		"review_form:blocking": uischema.CheckboxValue(true),
	}
	if diff := cmp.Diff(want, runtime.FormStateSnapshot()); diff != "" {
		t.Errorf("form state mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadReplacesPreviousState(t *testing.T) {
	runtime := uiruntime.NewRuntime()
	if err := runtime.Load(json.RawMessage(reviewSchema)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	runtime.CommitField("review_form", "comments", uischema.TextValue("looks fine"))

	next := `{"components": [{"id": "note", "kind": "markdown", "text": "next"}]}`
	if err := runtime.Load(json.RawMessage(next)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := runtime.FormStateSnapshot(); len(got) != 0 {
		t.Errorf("form state after reload = %v, want empty", got)
	}
}

func TestLoadDeserializeError(t *testing.T) {
	runtime := uiruntime.NewRuntime()
	err := runtime.Load(json.RawMessage(`{"components": [`))
	if err == nil {
		t.Fatal("Load() error = nil, want deserialize error")
	}
	var runtimeErr *uiruntime.RuntimeError
	if !errors.As(err, &runtimeErr) {
		t.Fatalf("Load() error type = %T, want *RuntimeError", err)
	}
	if runtimeErr.Kind != uiruntime.ErrorDeserialize {
		t.Errorf("error kind = %q, want %q", runtimeErr.Kind, uiruntime.ErrorDeserialize)
	}
	if runtime.HasSchema() {
		t.Error("HasSchema() = true after failed load")
	}
	if runtime.Err() == nil {
		t.Error("Err() = nil, want stored error")
	}
}

func TestLoadValidationError(t *testing.T) {
	runtime := uiruntime.NewRuntime()
	raw := `{"components": [{"id": "x", "kind": "carousel"}]}`
	err := runtime.Load(json.RawMessage(raw))
	var runtimeErr *uiruntime.RuntimeError
	if !errors.As(err, &runtimeErr) {
		t.Fatalf("Load() error = %v, want *RuntimeError", err)
	}
	if runtimeErr.Kind != uiruntime.ErrorValidation {
		t.Errorf("error kind = %q, want %q", runtimeErr.Kind, uiruntime.ErrorValidation)
	}
}

func TestClickButtonRecordsOutputEvent(t *testing.T) {
	runtime := uiruntime.NewRuntime()
	if err := runtime.Load(json.RawMessage(reviewSchema)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := runtime.ClickButton("approve_btn"); err != nil {
		t.Fatalf("ClickButton() error = %v", err)
	}
	if err := runtime.ClickButton("missing_btn"); err == nil {
		t.Error("ClickButton(missing_btn) error = nil, want unknown button")
	}

	events := runtime.EventLog()
	if len(events) != 1 {
		t.Fatalf("event count = %d, want 1", len(events))
	}
	want := "button_clicked component_id=approve_btn output=event.review.approve"
	if got := events[0].LogLine(); got != want {
		t.Errorf("LogLine() = %q, want %q", got, want)
	}
}

func TestCommitFieldUpdatesStateAndLog(t *testing.T) {
	runtime := uiruntime.NewRuntime()
	if err := runtime.Load(json.RawMessage(reviewSchema)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	runtime.CommitField("review_form", "decision", uischema.SelectValue("reject"))

	value, ok := runtime.FieldValue("review_form", "decision")
	if !ok {
		t.Fatal("FieldValue() ok = false")
	}
	if diff := cmp.Diff(uischema.SelectValue("reject"), value); diff != "" {
		t.Errorf("field value mismatch (-want +got):\n%s", diff)
	}
	if runtime.EventCount() != 1 {
		t.Errorf("EventCount() = %d, want 1", runtime.EventCount())
	}
}

func TestFormStateRoundTrip(t *testing.T) {
	runtime := uiruntime.NewRuntime()
	if err := runtime.Load(json.RawMessage(reviewSchema)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	runtime.CommitField("review_form", "comments", uischema.TextValue("needs docs"))
	snapshot := runtime.FormStateSnapshot()

	restored := uiruntime.NewRuntime()
	if err := restored.Load(json.RawMessage(reviewSchema)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	restored.RestoreFormState(snapshot)
	if diff := cmp.Diff(snapshot, restored.FormStateSnapshot()); diff != "" {
		t.Errorf("restored state mismatch (-want +got):\n%s", diff)
	}
}

func TestDeterministicEventReplay(t *testing.T) {
	replay := func() []string {
		runtime := uiruntime.NewRuntime()
		if err := runtime.Load(json.RawMessage(reviewSchema)); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		runtime.CommitField("review_form", "decision", uischema.SelectValue("approve"))
		runtime.CommitField("review_form", "blocking", uischema.CheckboxValue(false))
		if err := runtime.ClickButton("approve_btn"); err != nil {
			t.Fatalf("ClickButton() error = %v", err)
		}
		lines := make([]string, 0, runtime.EventCount())
		for _, event := range runtime.EventLog() {
			lines = append(lines, event.LogLine())
		}
		return lines
	}

	first := replay()
	second := replay()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("replay mismatch (-first +second):\n%s", diff)
	}
}
