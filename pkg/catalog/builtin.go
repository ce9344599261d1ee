package catalog

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed builtin/*.json builtin/*.yaml
var builtinTemplates embed.FS

// BuiltinFS returns the bundled template documents. Exposed so hosts can
// inspect the defaults without going through a provider.
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(builtinTemplates, "builtin")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// BuiltinProvider serves the embedded default templates. It is always
// read-only.
type BuiltinProvider struct {
	ReadOnlyMutations
	source Source
	assets fs.FS
}

// NewBuiltinProvider constructs a builtin provider with the given id.
func NewBuiltinProvider(providerID string) *BuiltinProvider {
	return &BuiltinProvider{
		ReadOnlyMutations: ReadOnlyMutations{ProviderID: providerID},
		source: Source{
			ProviderID: providerID,
			Kind:       KindBuiltin,
			ReadOnly:   true,
		},
		assets: BuiltinFS(),
	}
}

// DefaultBuiltinProvider returns the provider the default manager wiring uses.
func DefaultBuiltinProvider() *BuiltinProvider {
	return NewBuiltinProvider("builtin-default")
}

// Source reports the provider's catalog source.
func (p *BuiltinProvider) Source() Source {
	return p.source
}

// LoadTemplates parses every embedded document, sorted by name for
// determinism. A document that fails to parse or validate is excluded and
// reported as a diagnostic.
func (p *BuiltinProvider) LoadTemplates() (LoadOutput, error) {
	entries, err := fs.ReadDir(p.assets, ".")
	if err != nil {
		return LoadOutput{}, &IOError{ProviderID: p.source.ProviderID, Path: "builtin", Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var output LoadOutput
	for _, name := range names {
		templateRef := "embedded:" + name
		raw, err := fs.ReadFile(p.assets, name)
		if err != nil {
			output.Diagnostics = append(output.Diagnostics, LoadDiagnostic{
				ProviderID:  p.source.ProviderID,
				TemplateRef: templateRef,
				Reason:      err.Error(),
			})
			continue
		}
		template, err := ParseTemplate(raw, p.source, name)
		if err != nil {
			output.Diagnostics = append(output.Diagnostics, LoadDiagnostic{
				ProviderID:  p.source.ProviderID,
				TemplateRef: templateRef,
				Reason:      err.Error(),
			})
			continue
		}
		output.Templates = append(output.Templates, template)
	}

	return output, nil
}
