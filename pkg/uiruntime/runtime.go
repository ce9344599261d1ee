// Package uiruntime owns one validated canvas schema at a time together with
// its interaction state. A runtime moves between three states: Empty until
// the first load, Loaded after a successful load, Error after a failed one.
// Loading always replaces the previous schema, error, and form state
// wholesale; there is no incremental patch.
package uiruntime

import (
	"encoding/json"
	"fmt"

	"github.com/soyrochus/brownie/pkg/uischema"
)

// ErrorKind distinguishes malformed input data from a parseable but
// structurally invalid schema.
type ErrorKind string

const (
	ErrorDeserialize ErrorKind = "deserialize"
	ErrorValidation  ErrorKind = "validation"
)

// RuntimeError is the typed failure of a schema load.
type RuntimeError struct {
	Kind ErrorKind
	Err  error
}

func (e *RuntimeError) Error() string {
	switch e.Kind {
	case ErrorDeserialize:
		return fmt.Sprintf("schema deserialize error: %v", e.Err)
	default:
		return fmt.Sprintf("schema validation error: %v", e.Err)
	}
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Runtime holds one validated schema, the form state keyed by
// "formId:fieldId", and an append-only event log. It is single-writer: one
// logical owner per session block.
type Runtime struct {
	registry   uischema.Registry
	schema     *uischema.ValidatedSchema
	runtimeErr *RuntimeError
	formState  map[string]uischema.FieldValue
	eventLog   EventLog
}

// Option configures a Runtime at construction.
type Option func(*Runtime)

// WithRegistry overrides the component allow-list the runtime validates
// against. Defaults to the full built-in registry.
func WithRegistry(registry uischema.Registry) Option {
	return func(r *Runtime) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// NewRuntime constructs an empty runtime.
func NewRuntime(options ...Option) *Runtime {
	runtime := &Runtime{
		registry:  uischema.NewComponentRegistry(),
		formState: make(map[string]uischema.FieldValue),
	}
	for _, option := range options {
		if option != nil {
			option(runtime)
		}
	}
	return runtime
}

// Load parses and validates a raw schema document. On success the runtime
// stores the validated tree and seeds the form state with every field's
// type-correct default. On failure the runtime enters the Error state and
// the typed error is returned; the previous schema is gone either way.
func (r *Runtime) Load(raw json.RawMessage) error {
	r.schema = nil
	r.runtimeErr = nil
	r.formState = make(map[string]uischema.FieldValue)

	parsed, err := uischema.ParseSchema(raw)
	if err != nil {
		r.runtimeErr = &RuntimeError{Kind: ErrorDeserialize, Err: err}
		return r.runtimeErr
	}

	validated, err := uischema.Validate(parsed, r.registry)
	if err != nil {
		r.runtimeErr = &RuntimeError{Kind: ErrorValidation, Err: err}
		return r.runtimeErr
	}

	r.seedFormState(validated.Components)
	r.schema = validated
	return nil
}

// HasSchema reports whether the runtime is in the Loaded state.
func (r *Runtime) HasSchema() bool {
	return r.schema != nil
}

// Schema returns the validated schema, or nil outside the Loaded state.
func (r *Runtime) Schema() *uischema.ValidatedSchema {
	return r.schema
}

// Err returns the load failure, or nil outside the Error state.
func (r *Runtime) Err() *RuntimeError {
	return r.runtimeErr
}

// EventLog returns the append-only interaction log.
func (r *Runtime) EventLog() []Event {
	return r.eventLog.Entries()
}

// EventCount reports the current log length, used by hosts tracking how many
// events they have already synced.
func (r *Runtime) EventCount() int {
	return r.eventLog.Len()
}

// Emit is the single emission point for interaction events. Rendering code
// reports everything through here; the runtime only appends.
func (r *Runtime) Emit(event Event) {
	r.eventLog.Append(event)
}

// ClickButton records a button press for a button anywhere in the tree. An
// unknown button id is an error so renderers cannot fabricate events for
// components that do not exist.
func (r *Runtime) ClickButton(buttonID string) error {
	if r.schema == nil {
		return fmt.Errorf("uiruntime: no schema loaded")
	}
	button, ok := uischema.FindButton(r.schema.Components, buttonID)
	if !ok {
		return fmt.Errorf("uiruntime: unknown button %q", buttonID)
	}
	r.Emit(ButtonClickedEvent{
		ComponentID:   button.ID,
		OutputEventID: button.OutputEventID,
	})
	return nil
}

// CommitField stores a field value and records the commit event.
func (r *Runtime) CommitField(formID, fieldID string, value uischema.FieldValue) {
	r.formState[uischema.FieldKey(formID, fieldID)] = value
	r.Emit(FormFieldCommittedEvent{
		ComponentID: formID,
		FormID:      formID,
		FieldID:     fieldID,
		Value:       value,
	})
}

// FieldValue reads the current value for a field.
func (r *Runtime) FieldValue(formID, fieldID string) (uischema.FieldValue, bool) {
	value, ok := r.formState[uischema.FieldKey(formID, fieldID)]
	return value, ok
}

// SetFieldValue stores a value without recording a commit event. Renderers
// use it for uncommitted edits in progress.
func (r *Runtime) SetFieldValue(formID, fieldID string, value uischema.FieldValue) {
	r.formState[uischema.FieldKey(formID, fieldID)] = value
}

// FormStateSnapshot copies the current form state for external persistence.
func (r *Runtime) FormStateSnapshot() map[string]uischema.FieldValue {
	snapshot := make(map[string]uischema.FieldValue, len(r.formState))
	for key, value := range r.formState {
		snapshot[key] = value
	}
	return snapshot
}

// RestoreFormState re-hydrates a previously snapshotted form state without
// re-deriving defaults. Unknown keys are kept; the schema decides what gets
// rendered.
func (r *Runtime) RestoreFormState(state map[string]uischema.FieldValue) {
	r.formState = make(map[string]uischema.FieldValue, len(state))
	for key, value := range state {
		r.formState[key] = value
	}
}

func (r *Runtime) seedFormState(components []uischema.Component) {
	uischema.WalkComponents(components, func(component uischema.Component) {
		form, ok := component.(uischema.FormComponent)
		if !ok {
			return
		}
		for _, field := range form.Fields {
			r.formState[uischema.FieldKey(form.ID, field.FieldID())] = field.DefaultValue()
		}
	})
}
