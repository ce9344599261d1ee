package uischema

import "fmt"

// UnknownComponentError reports a component kind outside the registry's
// supported set.
type UnknownComponentError struct {
	ComponentID string
	Kind        string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown component kind %q for component %q", e.Kind, e.ComponentID)
}

// UnsupportedFieldTypeError reports a form field kind outside the registry's
// supported set.
type UnsupportedFieldTypeError struct {
	FormID  string
	FieldID string
	Kind    string
}

func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("unsupported field kind %q for form %q field %q", e.Kind, e.FormID, e.FieldID)
}

// MissingRequiredFieldError reports an absent kind-specific required field.
type MissingRequiredFieldError struct {
	ComponentID string
	Field       string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %q for component %q", e.Field, e.ComponentID)
}

// TooManyComponentsError reports a tree exceeding the global component budget.
type TooManyComponentsError struct {
	Max    int
	Actual int
}

func (e *TooManyComponentsError) Error() string {
	return fmt.Sprintf("component count %d exceeds max %d", e.Actual, e.Max)
}

// NestingTooDeepError reports a component nested beyond the depth budget.
type NestingTooDeepError struct {
	Max         int
	Actual      int
	ComponentID string
}

func (e *NestingTooDeepError) Error() string {
	return fmt.Sprintf("component %q nesting depth %d exceeds max %d", e.ComponentID, e.Actual, e.Max)
}

// DuplicateActionableIDError reports two actionable components sharing an id.
type DuplicateActionableIDError struct {
	ComponentID string
}

func (e *DuplicateActionableIDError) Error() string {
	return fmt.Sprintf("duplicate actionable component id %q", e.ComponentID)
}

// MissingButtonOutputError reports a button with no output-contract entry.
type MissingButtonOutputError struct {
	ButtonID string
}

func (e *MissingButtonOutputError) Error() string {
	return fmt.Sprintf("button %q missing output contract mapping", e.ButtonID)
}
