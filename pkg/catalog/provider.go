package catalog

// LoadOutput is the result of one provider load: the documents that parsed
// and validated, plus a diagnostic for every document that did not. A load
// is never all-or-nothing.
type LoadOutput struct {
	Templates   []Template
	Diagnostics []LoadDiagnostic
}

// Provider is a capability-typed source of template documents. Read-only
// providers embed ReadOnlyMutations to inherit failing implementations of
// the mutating operations instead of special-casing every call site.
type Provider interface {
	Source() Source
	LoadTemplates() (LoadOutput, error)
	UpsertTemplate(document TemplateDocument) error
	DeleteTemplate(templateID string) error
}

// ReadOnlyMutations provides the default "not supported" implementations of
// Provider's mutating operations. Embed it in providers that cannot persist
// changes; both operations fail with ReadOnlyProviderError rather than
// silently doing nothing.
type ReadOnlyMutations struct {
	ProviderID string
}

// UpsertTemplate always fails with ReadOnlyProviderError.
func (m ReadOnlyMutations) UpsertTemplate(TemplateDocument) error {
	return &ReadOnlyProviderError{ProviderID: m.ProviderID}
}

// DeleteTemplate always fails with ReadOnlyProviderError.
func (m ReadOnlyMutations) DeleteTemplate(string) error {
	return &ReadOnlyProviderError{ProviderID: m.ProviderID}
}
