package uischema

// ValidatedSchema is the immutable result of a successful validation. Each
// component owns its children exclusively; the tree contains no cycles or
// shared nodes.
type ValidatedSchema struct {
	SchemaVersion int
	Components    []Component
}

// Component is one validated node of the component tree.
type Component interface {
	ComponentID() string
	ComponentKind() ComponentKind
	ChildComponents() []Component
}

// MarkdownComponent renders a block of markdown text.
type MarkdownComponent struct {
	ID       string
	Text     string
	Children []Component
}

func (c MarkdownComponent) ComponentID() string          { return c.ID }
func (c MarkdownComponent) ComponentKind() ComponentKind { return ComponentMarkdown }
func (c MarkdownComponent) ChildComponents() []Component { return c.Children }

// FormComponent groups input fields under an optional title.
type FormComponent struct {
	ID       string
	Title    string
	Fields   []FormField
	Children []Component
}

func (c FormComponent) ComponentID() string          { return c.ID }
func (c FormComponent) ComponentKind() ComponentKind { return ComponentForm }
func (c FormComponent) ChildComponents() []Component { return c.Children }

// CodeComponent renders a code listing with an optional language hint.
type CodeComponent struct {
	ID       string
	Language string
	Code     string
	Children []Component
}

func (c CodeComponent) ComponentID() string          { return c.ID }
func (c CodeComponent) ComponentKind() ComponentKind { return ComponentCode }
func (c CodeComponent) ChildComponents() []Component { return c.Children }

// DiffComponent renders added/removed/context lines.
type DiffComponent struct {
	ID       string
	Lines    []DiffLine
	Children []Component
}

func (c DiffComponent) ComponentID() string          { return c.ID }
func (c DiffComponent) ComponentKind() ComponentKind { return ComponentDiff }
func (c DiffComponent) ChildComponents() []Component { return c.Children }

// ButtonComponent emits its output event id when clicked.
type ButtonComponent struct {
	ID            string
	Label         string
	OutputEventID string
	Variant       ButtonVariant
	Children      []Component
}

func (c ButtonComponent) ComponentID() string          { return c.ID }
func (c ButtonComponent) ComponentKind() ComponentKind { return ComponentButton }
func (c ButtonComponent) ChildComponents() []Component { return c.Children }

// FormField is one validated input field carrying a type-correct default.
type FormField interface {
	FieldID() string
	FieldLabel() string
	FieldKind() FormFieldKind
	DefaultValue() FieldValue
}

// TextField is a single-line text input.
type TextField struct {
	ID      string
	Label   string
	Default string
}

func (f TextField) FieldID() string          { return f.ID }
func (f TextField) FieldLabel() string       { return f.Label }
func (f TextField) FieldKind() FormFieldKind { return FieldText }
func (f TextField) DefaultValue() FieldValue { return TextValue(f.Default) }

// NumberField is a numeric input.
type NumberField struct {
	ID      string
	Label   string
	Default float64
}

func (f NumberField) FieldID() string          { return f.ID }
func (f NumberField) FieldLabel() string       { return f.Label }
func (f NumberField) FieldKind() FormFieldKind { return FieldNumber }
func (f NumberField) DefaultValue() FieldValue { return NumberValue(f.Default) }

// SelectField is a single-choice input over a declared option list.
type SelectField struct {
	ID      string
	Label   string
	Options []string
	Default string
}

func (f SelectField) FieldID() string          { return f.ID }
func (f SelectField) FieldLabel() string       { return f.Label }
func (f SelectField) FieldKind() FormFieldKind { return FieldSelect }
func (f SelectField) DefaultValue() FieldValue { return SelectValue(f.Default) }

// CheckboxField is a boolean toggle.
type CheckboxField struct {
	ID      string
	Label   string
	Default bool
}

func (f CheckboxField) FieldID() string          { return f.ID }
func (f CheckboxField) FieldLabel() string       { return f.Label }
func (f CheckboxField) FieldKind() FormFieldKind { return FieldCheckbox }
func (f CheckboxField) DefaultValue() FieldValue { return CheckboxValue(f.Default) }

// WalkComponents visits every component in the tree depth-first,
// left-to-right, parents before children.
func WalkComponents(components []Component, visit func(Component)) {
	for _, component := range components {
		visit(component)
		WalkComponents(component.ChildComponents(), visit)
	}
}

// FindButton locates a button anywhere in the tree by its component id.
func FindButton(components []Component, buttonID string) (ButtonComponent, bool) {
	var found ButtonComponent
	ok := false
	WalkComponents(components, func(component Component) {
		if ok {
			return
		}
		if button, isButton := component.(ButtonComponent); isButton && button.ID == buttonID {
			found = button
			ok = true
		}
	})
	return found, ok
}
