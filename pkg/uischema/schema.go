package uischema

import (
	"encoding/json"
	"fmt"
)

// Budgets applied across the whole component tree, not per branch.
const (
	MaxComponents = 64
	MaxDepth      = 4
)

// ComponentKind names a component in a raw schema document. The set of kinds
// the validator accepts is closed; any other string survives parsing so it
// can be reported verbatim, but always fails validation.
type ComponentKind string

const (
	ComponentMarkdown ComponentKind = "markdown"
	ComponentForm     ComponentKind = "form"
	ComponentCode     ComponentKind = "code"
	ComponentDiff     ComponentKind = "diff"
	ComponentButton   ComponentKind = "button"
)

// Known reports whether the kind is part of the closed component set.
func (k ComponentKind) Known() bool {
	switch k {
	case ComponentMarkdown, ComponentForm, ComponentCode, ComponentDiff, ComponentButton:
		return true
	}
	return false
}

// Actionable reports whether components of this kind emit interaction events
// and therefore require a schema-wide unique id.
func (k ComponentKind) Actionable() bool {
	return k == ComponentForm || k == ComponentButton
}

// FormFieldKind names a form field in a raw schema document. Unrecognized
// strings survive parsing and fail validation.
type FormFieldKind string

const (
	FieldText     FormFieldKind = "text"
	FieldNumber   FormFieldKind = "number"
	FieldSelect   FormFieldKind = "select"
	FieldCheckbox FormFieldKind = "checkbox"
)

// Known reports whether the kind is part of the closed field set.
func (k FormFieldKind) Known() bool {
	switch k {
	case FieldText, FieldNumber, FieldSelect, FieldCheckbox:
		return true
	}
	return false
}

// ButtonVariant selects the visual weight of a button.
type ButtonVariant string

const (
	ButtonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
)

// UnmarshalJSON rejects variants outside the closed set.
func (v *ButtonVariant) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch ButtonVariant(raw) {
	case ButtonPrimary, ButtonSecondary:
		*v = ButtonVariant(raw)
		return nil
	}
	return fmt.Errorf("uischema: unknown button variant %q", raw)
}

// DiffLineKind classifies a line in a diff component.
type DiffLineKind string

const (
	DiffAdded   DiffLineKind = "added"
	DiffRemoved DiffLineKind = "removed"
	DiffContext DiffLineKind = "context"
)

// UnmarshalJSON rejects kinds outside the closed set.
func (k *DiffLineKind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch DiffLineKind(raw) {
	case DiffAdded, DiffRemoved, DiffContext:
		*k = DiffLineKind(raw)
		return nil
	}
	return fmt.Errorf("uischema: unknown diff line kind %q", raw)
}

// OutputContract maps an actionable component id to the event identifier it
// emits. Every button must have exactly one entry.
type OutputContract struct {
	ComponentID string `json:"component_id"`
	EventID     string `json:"event_id"`
}

// DiffLine is one rendered line of a diff component.
type DiffLine struct {
	Kind DiffLineKind `json:"kind"`
	Text string       `json:"text"`
}

// RawFormField is a form field as parsed from an untrusted document.
type RawFormField struct {
	ID      string        `json:"id"`
	Label   string        `json:"label"`
	Kind    FormFieldKind `json:"kind"`
	Options []string      `json:"options,omitempty"`
	Default any           `json:"default,omitempty"`
}

// RawComponent is a component node as parsed from an untrusted document.
// Every kind-specific field is optional at this stage; validation decides
// which ones are required.
type RawComponent struct {
	ID       string         `json:"id"`
	Kind     ComponentKind  `json:"kind"`
	Title    string         `json:"title,omitempty"`
	Text     string         `json:"text,omitempty"`
	HasText  bool           `json:"-"`
	Fields   []RawFormField `json:"fields,omitempty"`
	Language string         `json:"language,omitempty"`
	Code     string         `json:"code,omitempty"`
	HasCode  bool           `json:"-"`
	Lines    []DiffLine     `json:"lines,omitempty"`
	Label    string         `json:"label,omitempty"`
	HasLabel bool           `json:"-"`
	Variant  ButtonVariant  `json:"variant,omitempty"`
	Children []RawComponent `json:"children,omitempty"`
}

// UnmarshalJSON tracks presence of the required text/code/label fields so
// validation can tell an absent field from an explicitly empty one.
func (c *RawComponent) UnmarshalJSON(data []byte) error {
	type alias RawComponent
	var decoded struct {
		alias
		Text  *string `json:"text"`
		Code  *string `json:"code"`
		Label *string `json:"label"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	out := RawComponent(decoded.alias)
	if decoded.Text != nil {
		out.Text = *decoded.Text
		out.HasText = true
	}
	if decoded.Code != nil {
		out.Code = *decoded.Code
		out.HasCode = true
	}
	if decoded.Label != nil {
		out.Label = *decoded.Label
		out.HasLabel = true
	}
	*c = out
	return nil
}

// Schema is a raw, unvalidated canvas schema document.
type Schema struct {
	SchemaVersion int              `json:"schema_version"`
	Outputs       []OutputContract `json:"outputs,omitempty"`
	Components    []RawComponent   `json:"components,omitempty"`
}

// ParseSchema decodes a raw schema document. A missing schema_version
// defaults to 1. Structural validation is a separate step; see Validate.
func ParseSchema(raw []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("uischema: parse schema: %w", err)
	}
	if schema.SchemaVersion == 0 {
		schema.SchemaVersion = 1
	}
	return &schema, nil
}
