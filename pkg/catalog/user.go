package catalog

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// UserProvider loads and persists template documents in a local directory.
// Documents may be JSON or YAML; upserts are always written as JSON.
type UserProvider struct {
	source  Source
	rootDir string
}

// NewUserProvider constructs a user provider rooted at dir.
func NewUserProvider(providerID, dir string) *UserProvider {
	return &UserProvider{
		source: Source{
			ProviderID: providerID,
			Kind:       KindUser,
			ReadOnly:   false,
		},
		rootDir: dir,
	}
}

// Source reports the provider's catalog source.
func (p *UserProvider) Source() Source {
	return p.source
}

// LoadTemplates reads every template document in the root directory, sorted
// by filename for determinism. A missing directory means an empty catalog,
// not an error. Documents that fail to parse or validate are excluded with
// a diagnostic while the rest keep loading.
func (p *UserProvider) LoadTemplates() (LoadOutput, error) {
	entries, err := os.ReadDir(p.rootDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadOutput{}, nil
		}
		return LoadOutput{}, &IOError{ProviderID: p.source.ProviderID, Path: p.rootDir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !isTemplateFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var output LoadOutput
	for _, name := range names {
		path := filepath.Join(p.rootDir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return LoadOutput{}, &IOError{ProviderID: p.source.ProviderID, Path: path, Err: err}
		}

		template, err := ParseTemplate(raw, p.source, name)
		if err != nil {
			output.Diagnostics = append(output.Diagnostics, LoadDiagnostic{
				ProviderID:  p.source.ProviderID,
				TemplateRef: name,
				Reason:      err.Error(),
			})
			continue
		}
		output.Templates = append(output.Templates, template)
	}

	return output, nil
}

// UpsertTemplate writes the document as <sanitized-id>.json, creating the
// root directory if needed.
func (p *UserProvider) UpsertTemplate(document TemplateDocument) error {
	raw, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return &SerializeError{Err: err}
	}

	path := p.templatePath(document.Meta.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{ProviderID: p.source.ProviderID, Path: filepath.Dir(path), Err: err}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return &IOError{ProviderID: p.source.ProviderID, Path: path, Err: err}
	}
	return nil
}

// DeleteTemplate removes the document file for the id. Deleting a template
// that does not exist succeeds.
func (p *UserProvider) DeleteTemplate(templateID string) error {
	path := p.templatePath(templateID)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &IOError{ProviderID: p.source.ProviderID, Path: path, Err: err}
	}
	return nil
}

func (p *UserProvider) templatePath(templateID string) string {
	return filepath.Join(p.rootDir, sanitizeFilename(templateID)+".json")
}

func isTemplateFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// sanitizeFilename keeps ASCII alphanumerics plus `_-.`; everything else
// becomes an underscore. Names that sanitize to nothing but underscores fall
// back to "template".
func sanitizeFilename(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, ch := range raw {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			builder.WriteRune(ch)
		case ch == '_' || ch == '-' || ch == '.':
			builder.WriteRune(ch)
		default:
			builder.WriteByte('_')
		}
	}

	out := builder.String()
	if strings.Trim(out, "_") == "" {
		return "template"
	}
	return out
}
