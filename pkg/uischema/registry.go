package uischema

import "sort"

// Registry is the rendering layer's capability surface: the validator asks it
// which component and field kinds the renderer can actually draw.
type Registry interface {
	SupportsComponent(kind ComponentKind) bool
	SupportsFieldKind(kind FormFieldKind) bool
}

// ComponentRegistry is the default allow-list Registry covering the full
// closed component and field sets.
type ComponentRegistry struct {
	components map[ComponentKind]struct{}
	fieldKinds map[FormFieldKind]struct{}
}

// NewComponentRegistry returns a registry supporting every known component
// and field kind.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: map[ComponentKind]struct{}{
			ComponentMarkdown: {},
			ComponentForm:     {},
			ComponentCode:     {},
			ComponentDiff:     {},
			ComponentButton:   {},
		},
		fieldKinds: map[FormFieldKind]struct{}{
			FieldText:     {},
			FieldNumber:   {},
			FieldSelect:   {},
			FieldCheckbox: {},
		},
	}
}

// SupportsComponent reports whether the kind is in the allow-list.
func (r *ComponentRegistry) SupportsComponent(kind ComponentKind) bool {
	_, ok := r.components[kind]
	return ok
}

// SupportsFieldKind reports whether the kind is in the allow-list.
func (r *ComponentRegistry) SupportsFieldKind(kind FormFieldKind) bool {
	_, ok := r.fieldKinds[kind]
	return ok
}

// SupportedComponents lists the allowed component kinds in sorted order.
func (r *ComponentRegistry) SupportedComponents() []string {
	names := make([]string, 0, len(r.components))
	for kind := range r.components {
		names = append(names, string(kind))
	}
	sort.Strings(names)
	return names
}
