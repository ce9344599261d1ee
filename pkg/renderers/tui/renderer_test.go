package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/soyrochus/brownie/pkg/uiruntime"
	"github.com/soyrochus/brownie/pkg/uischema"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

const reviewSchema = `{
  "outputs": [{"component_id": "approve_btn", "event_id": "event.review.approve"}],
  "components": [
    {"id": "summary", "kind": "markdown", "text": "# Review"},
    {"id": "patch", "kind": "diff", "lines": [
      {"kind": "context", "text": "func main() {"},
      {"kind": "removed", "text": "\tpanic(\"old\")"},
      {"kind": "added", "text": "\tprintln(\"new\")"}
    ]},
    {
      "id": "review_form",
      "kind": "form",
      "title": "Review decision",
      "fields": [
        {"id": "decision", "label": "Decision", "kind": "select", "options": ["approve", "reject"]},
        {"id": "comments", "label": "Comments", "kind": "text"},
        {"id": "score", "label": "Score", "kind": "number"},
        {"id": "blocking", "label": "Blocking", "kind": "checkbox"}
      ]
    },
    {"id": "approve_btn", "kind": "button", "label": "Approve"}
  ]
}`

func loadRuntime(t *testing.T, raw string) *uiruntime.Runtime {
	t.Helper()
	runtime := uiruntime.NewRuntime()
	if err := runtime.Load([]byte(raw)); err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return runtime
}

func TestRender_CommitsFieldsAndClicksButton(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"ship it", "8"},
		selectIdx: []int{1, 0}, // decision=reject, action=Approve button
		confirm:   []bool{true},
	}
	runtime := loadRuntime(t, reviewSchema)

	r := New(WithPromptDriver(driver))
	if err := r.Render(context.Background(), runtime); err != nil {
		t.Fatalf("render: %v", err)
	}

	assertField := func(fieldID string, want uischema.FieldValue) {
		t.Helper()
		got, ok := runtime.FieldValue("review_form", fieldID)
		if !ok {
			t.Fatalf("field %s missing from state", fieldID)
		}
		if got != want {
			t.Fatalf("field %s = %+v, want %+v", fieldID, got, want)
		}
	}
	assertField("decision", uischema.SelectValue("reject"))
	assertField("comments", uischema.TextValue("ship it"))
	assertField("score", uischema.NumberValue(8))
	assertField("blocking", uischema.CheckboxValue(true))

	events := runtime.EventLog()
	if len(events) != 5 {
		t.Fatalf("event count = %d, want 4 field commits and 1 click", len(events))
	}
	last := events[len(events)-1].LogLine()
	want := "button_clicked component_id=approve_btn output=event.review.approve"
	if last != want {
		t.Fatalf("last event = %q, want %q", last, want)
	}
}

func TestRender_PassiveComponentsPrint(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "0"},
		selectIdx: []int{0, 1}, // decision=approve, action=Done
		confirm:   []bool{false},
	}
	runtime := loadRuntime(t, reviewSchema)

	r := New(WithPromptDriver(driver))
	if err := r.Render(context.Background(), runtime); err != nil {
		t.Fatalf("render: %v", err)
	}

	if len(driver.infoMessages) != 3 {
		t.Fatalf("info messages = %d, want markdown, diff, and form title", len(driver.infoMessages))
	}
	if driver.infoMessages[0] != "# Review" {
		t.Fatalf("first info = %q", driver.infoMessages[0])
	}
	diff := driver.infoMessages[1]
	if diff != " func main() {\n-\tpanic(\"old\")\n+\tprintln(\"new\")" {
		t.Fatalf("diff rendering = %q", diff)
	}
}

func TestRender_DoneSkipsButtonClick(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "0"},
		selectIdx: []int{0, 1},
		confirm:   []bool{false},
	}
	runtime := loadRuntime(t, reviewSchema)

	r := New(WithPromptDriver(driver))
	if err := r.Render(context.Background(), runtime); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, event := range runtime.EventLog() {
		if _, ok := event.(uiruntime.ButtonClickedEvent); ok {
			t.Fatal("Done action should not click a button")
		}
	}
}

func TestRender_NoSchema(t *testing.T) {
	r := New(WithPromptDriver(&stubDriver{}))
	if err := r.Render(context.Background(), uiruntime.NewRuntime()); !errors.Is(err, ErrNoSchema) {
		t.Fatalf("err = %v, want ErrNoSchema", err)
	}
}
