package uischema

// validationContext carries the counters shared across the whole recursive
// descent. A single instance is threaded by pointer so the component budget
// and the actionable-id set are global to the tree, never per branch.
type validationContext struct {
	componentCount int
	actionableIDs  map[string]struct{}
	outputs        map[string]string
}

// Validate checks a parsed schema against the registry's supported kinds and
// the structural budgets, producing an immutable validated tree. The walk is
// depth-first, left-to-right, and fails fast: the first fault aborts the
// whole validation.
func Validate(schema *Schema, registry Registry) (*ValidatedSchema, error) {
	vctx := &validationContext{
		actionableIDs: make(map[string]struct{}),
		outputs:       make(map[string]string, len(schema.Outputs)),
	}
	for _, output := range schema.Outputs {
		vctx.outputs[output.ComponentID] = output.EventID
	}

	components, err := validateComponents(schema.Components, registry, vctx, 1)
	if err != nil {
		return nil, err
	}

	return &ValidatedSchema{
		SchemaVersion: schema.SchemaVersion,
		Components:    components,
	}, nil
}

func validateComponents(raw []RawComponent, registry Registry, vctx *validationContext, depth int) ([]Component, error) {
	validated := make([]Component, 0, len(raw))

	for _, component := range raw {
		vctx.componentCount++
		if vctx.componentCount > MaxComponents {
			return nil, &TooManyComponentsError{Max: MaxComponents, Actual: vctx.componentCount}
		}

		if depth > MaxDepth {
			return nil, &NestingTooDeepError{Max: MaxDepth, Actual: depth, ComponentID: component.ID}
		}

		if !component.Kind.Known() || !registry.SupportsComponent(component.Kind) {
			return nil, &UnknownComponentError{ComponentID: component.ID, Kind: string(component.Kind)}
		}

		if component.Kind.Actionable() {
			if _, duplicate := vctx.actionableIDs[component.ID]; duplicate {
				return nil, &DuplicateActionableIDError{ComponentID: component.ID}
			}
			vctx.actionableIDs[component.ID] = struct{}{}
		}

		children, err := validateComponents(component.Children, registry, vctx, depth+1)
		if err != nil {
			return nil, err
		}

		built, err := buildComponent(component, children, registry, vctx)
		if err != nil {
			return nil, err
		}
		validated = append(validated, built)
	}

	return validated, nil
}

func buildComponent(raw RawComponent, children []Component, registry Registry, vctx *validationContext) (Component, error) {
	switch raw.Kind {
	case ComponentMarkdown:
		if !raw.HasText {
			return nil, &MissingRequiredFieldError{ComponentID: raw.ID, Field: "text"}
		}
		return MarkdownComponent{ID: raw.ID, Text: raw.Text, Children: children}, nil

	case ComponentForm:
		fields, err := validateFormFields(raw.ID, raw.Fields, registry)
		if err != nil {
			return nil, err
		}
		return FormComponent{ID: raw.ID, Title: raw.Title, Fields: fields, Children: children}, nil

	case ComponentCode:
		if !raw.HasCode {
			return nil, &MissingRequiredFieldError{ComponentID: raw.ID, Field: "code"}
		}
		return CodeComponent{ID: raw.ID, Language: raw.Language, Code: raw.Code, Children: children}, nil

	case ComponentDiff:
		lines := append([]DiffLine(nil), raw.Lines...)
		return DiffComponent{ID: raw.ID, Lines: lines, Children: children}, nil

	case ComponentButton:
		eventID, bound := vctx.outputs[raw.ID]
		if !bound {
			return nil, &MissingButtonOutputError{ButtonID: raw.ID}
		}
		if !raw.HasLabel {
			return nil, &MissingRequiredFieldError{ComponentID: raw.ID, Field: "label"}
		}
		variant := raw.Variant
		if variant == "" {
			variant = ButtonSecondary
		}
		return ButtonComponent{
			ID:            raw.ID,
			Label:         raw.Label,
			OutputEventID: eventID,
			Variant:       variant,
			Children:      children,
		}, nil
	}

	return nil, &UnknownComponentError{ComponentID: raw.ID, Kind: string(raw.Kind)}
}

func validateFormFields(formID string, raw []RawFormField, registry Registry) ([]FormField, error) {
	fields := make([]FormField, 0, len(raw))
	for _, field := range raw {
		if !field.Kind.Known() || !registry.SupportsFieldKind(field.Kind) {
			return nil, &UnsupportedFieldTypeError{FormID: formID, FieldID: field.ID, Kind: string(field.Kind)}
		}

		switch field.Kind {
		case FieldText:
			fields = append(fields, TextField{
				ID:      field.ID,
				Label:   field.Label,
				Default: stringOrDefault(field.Default, ""),
			})
		case FieldNumber:
			fields = append(fields, NumberField{
				ID:      field.ID,
				Label:   field.Label,
				Default: numberOrDefault(field.Default, 0),
			})
		case FieldSelect:
			fallback := ""
			if len(field.Options) > 0 {
				fallback = field.Options[0]
			}
			fields = append(fields, SelectField{
				ID:      field.ID,
				Label:   field.Label,
				Options: append([]string(nil), field.Options...),
				Default: stringOrDefault(field.Default, fallback),
			})
		case FieldCheckbox:
			fields = append(fields, CheckboxField{
				ID:      field.ID,
				Label:   field.Label,
				Default: boolOrDefault(field.Default, false),
			})
		}
	}
	return fields, nil
}

// stringOrDefault returns the supplied default only when it has the right
// shape; anything else falls back to the type-correct default.
func stringOrDefault(value any, fallback string) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fallback
}

func numberOrDefault(value any, fallback float64) float64 {
	if n, ok := value.(float64); ok {
		return n
	}
	return fallback
}

func boolOrDefault(value any, fallback bool) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	return fallback
}
