package uischema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldValue is the committed value of a single form field. It is a tagged
// union over the supported field kinds so snapshots round-trip through JSON
// without losing the kind.
type FieldValue struct {
	Kind FormFieldKind

	// Exactly one of the following carries the payload, selected by Kind.
	Str  string
	Num  float64
	Bool bool
}

// TextValue builds a text field value.
func TextValue(value string) FieldValue {
	return FieldValue{Kind: FieldText, Str: value}
}

// NumberValue builds a number field value.
func NumberValue(value float64) FieldValue {
	return FieldValue{Kind: FieldNumber, Num: value}
}

// SelectValue builds a select field value.
func SelectValue(value string) FieldValue {
	return FieldValue{Kind: FieldSelect, Str: value}
}

// CheckboxValue builds a checkbox field value.
func CheckboxValue(checked bool) FieldValue {
	return FieldValue{Kind: FieldCheckbox, Bool: checked}
}

// DisplayValue renders the payload as a plain string for logs and summaries.
func (v FieldValue) DisplayValue() string {
	switch v.Kind {
	case FieldNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case FieldCheckbox:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

type fieldValueWire struct {
	Kind  FormFieldKind   `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...}.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.Kind {
	case FieldNumber:
		payload = v.Num
	case FieldCheckbox:
		payload = v.Bool
	case FieldText, FieldSelect:
		payload = v.Str
	default:
		return nil, fmt.Errorf("uischema: cannot marshal field value of kind %q", string(v.Kind))
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fieldValueWire{Kind: v.Kind, Value: raw})
}

// UnmarshalJSON decodes the tagged form produced by MarshalJSON.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var wire fieldValueWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := FieldValue{Kind: wire.Kind}
	switch wire.Kind {
	case FieldText, FieldSelect:
		if err := json.Unmarshal(wire.Value, &out.Str); err != nil {
			return fmt.Errorf("uischema: field value of kind %q: %w", string(wire.Kind), err)
		}
	case FieldNumber:
		if err := json.Unmarshal(wire.Value, &out.Num); err != nil {
			return fmt.Errorf("uischema: field value of kind %q: %w", string(wire.Kind), err)
		}
	case FieldCheckbox:
		if err := json.Unmarshal(wire.Value, &out.Bool); err != nil {
			return fmt.Errorf("uischema: field value of kind %q: %w", string(wire.Kind), err)
		}
	default:
		return fmt.Errorf("uischema: unknown field value kind %q", string(wire.Kind))
	}
	*v = out
	return nil
}

// FieldKey builds the form-state key for a field. Both the runtime and the
// persisted block state use this exact shape.
func FieldKey(formID, fieldID string) string {
	return formID + ":" + fieldID
}
