package uiruntime

import (
	"fmt"

	"github.com/soyrochus/brownie/pkg/uischema"
)

// Event is one entry in a UI event log. Implementations outside this package
// (canvas block lifecycle events) satisfy it too so hosts can merge logs.
type Event interface {
	LogLine() string
}

// ButtonClickedEvent records a button press and the output event it maps to.
type ButtonClickedEvent struct {
	ComponentID   string `json:"component_id"`
	OutputEventID string `json:"output_event_id"`
}

// LogLine renders the event as a single log line.
func (e ButtonClickedEvent) LogLine() string {
	return fmt.Sprintf("button_clicked component_id=%s output=%s", e.ComponentID, e.OutputEventID)
}

// FormFieldCommittedEvent records a committed form field value.
type FormFieldCommittedEvent struct {
	ComponentID string              `json:"component_id"`
	FormID      string              `json:"form_id"`
	FieldID     string              `json:"field_id"`
	Value       uischema.FieldValue `json:"value"`
}

// LogLine renders the event as a single log line.
func (e FormFieldCommittedEvent) LogLine() string {
	return fmt.Sprintf("form_field_committed component_id=%s form_id=%s field_id=%s value=%s",
		e.ComponentID, e.FormID, e.FieldID, e.Value.DisplayValue())
}

// EventLog is an append-only sequence of events. Entries are never mutated,
// dropped, or reordered.
type EventLog struct {
	entries []Event
}

// Entries returns the log contents in append order.
func (l *EventLog) Entries() []Event {
	return l.entries
}

// Append adds one event to the end of the log.
func (l *EventLog) Append(event Event) {
	l.entries = append(l.entries, event)
}

// Len reports the number of entries.
func (l *EventLog) Len() int {
	return len(l.entries)
}
