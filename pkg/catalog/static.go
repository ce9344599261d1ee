package catalog

import "strconv"

// StaticProvider serves pre-fetched template documents from memory. It backs
// the organization tier, where the host fetches documents over whatever
// transport it uses and hands them over as raw JSON/YAML, and doubles as the
// in-memory provider tests rely on. It is read-only: mutations belong to
// whatever system produced the documents.
type StaticProvider struct {
	ReadOnlyMutations
	source    Source
	documents []StaticDocument
}

// StaticDocument is one raw document handed to a StaticProvider together
// with the reference used in diagnostics.
type StaticDocument struct {
	Ref string
	Raw []byte
}

// NewStaticProvider constructs a provider of the given kind serving raw
// documents from memory.
func NewStaticProvider(kind SourceKind, providerID string, documents []StaticDocument) *StaticProvider {
	return &StaticProvider{
		ReadOnlyMutations: ReadOnlyMutations{ProviderID: providerID},
		source: Source{
			ProviderID: providerID,
			Kind:       kind,
			ReadOnly:   true,
		},
		documents: documents,
	}
}

// NewOrgProvider is NewStaticProvider pinned to the organization tier.
func NewOrgProvider(providerID string, documents []StaticDocument) *StaticProvider {
	return NewStaticProvider(KindOrg, providerID, documents)
}

// Source reports the provider's catalog source.
func (p *StaticProvider) Source() Source {
	return p.source
}

// LoadTemplates parses the held documents in the order they were supplied.
func (p *StaticProvider) LoadTemplates() (LoadOutput, error) {
	var output LoadOutput
	for index, document := range p.documents {
		ref := document.Ref
		if ref == "" {
			ref = "mem:" + strconv.Itoa(index)
		}
		template, err := ParseTemplate(document.Raw, p.source, ref)
		if err != nil {
			output.Diagnostics = append(output.Diagnostics, LoadDiagnostic{
				ProviderID:  p.source.ProviderID,
				TemplateRef: ref,
				Reason:      err.Error(),
			})
			continue
		}
		output.Templates = append(output.Templates, template)
	}
	return output, nil
}
