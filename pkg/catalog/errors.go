package catalog

import "fmt"

// ReadOnlyProviderError is returned when a mutating operation reaches a
// provider that cannot persist changes.
type ReadOnlyProviderError struct {
	ProviderID string
}

func (e *ReadOnlyProviderError) Error() string {
	return fmt.Sprintf("catalog: provider %s is read-only", e.ProviderID)
}

// IOError wraps a filesystem failure during a provider operation.
type IOError struct {
	ProviderID string
	Path       string
	Err        error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("catalog: provider %s io error at %s: %v", e.ProviderID, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// SerializeError wraps a failure to encode a template document.
type SerializeError struct {
	Err error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("catalog: template serialization error: %v", e.Err)
}

func (e *SerializeError) Unwrap() error { return e.Err }

// LoadDiagnostic reports a template document that was excluded during a
// load. Diagnostics are non-fatal; loading continues for the remaining
// documents.
type LoadDiagnostic struct {
	ProviderID  string
	TemplateRef string
	Reason      string
}

// LogLine renders the diagnostic as a single structured log line.
func (d LoadDiagnostic) LogLine() string {
	return fmt.Sprintf("catalog load rejected provider=%s template_ref=%s reason=%s",
		d.ProviderID, d.TemplateRef, d.Reason)
}
