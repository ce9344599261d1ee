package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/soyrochus/brownie/pkg/uischema"
)

// TemplateMeta identifies a template within its provider.
type TemplateMeta struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Version string   `json:"version" yaml:"version"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// TemplateMatch holds the rules resolution ranks against. It never
// participates in template identity.
type TemplateMatch struct {
	Primary    string   `json:"primary" yaml:"primary"`
	Operations []string `json:"operations,omitempty" yaml:"operations,omitempty"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// TemplateDocument is one catalog entry: identity, match rules, and the
// embedded schema. The schema stays opaque here; it is validated against the
// component registry when the document is loaded and again by the runtime.
type TemplateDocument struct {
	Meta   TemplateMeta    `json:"meta"`
	Match  TemplateMatch   `json:"match"`
	Schema json.RawMessage `json:"schema"`
}

// SourceKind ranks provider categories. Org outranks User, which outranks
// Builtin; the manager walks tiers in that order during resolution.
type SourceKind string

const (
	KindOrg     SourceKind = "org"
	KindUser    SourceKind = "user"
	KindBuiltin SourceKind = "builtin"
)

// Source describes where templates come from and whether they can change.
type Source struct {
	ProviderID string
	Kind       SourceKind
	ReadOnly   bool
}

// Template binds a document to the source it was loaded from. Instances are
// immutable once loaded; Reload replaces the whole index.
type Template struct {
	Document TemplateDocument
	Source   Source
}

// TemplateID returns the document's identity within its provider.
func (t Template) TemplateID() string {
	return t.Document.Meta.ID
}

// SchemaValue returns the opaque embedded schema.
func (t Template) SchemaValue() json.RawMessage {
	return t.Document.Schema
}

// DecodeTemplate parses a template document from JSON or YAML. templateRef
// is the document's name within its provider (file name, embedded index) and
// selects YAML decoding for .yaml/.yml refs.
func DecodeTemplate(raw []byte, templateRef string) (TemplateDocument, error) {
	lowered := strings.ToLower(templateRef)
	if strings.HasSuffix(lowered, ".yaml") || strings.HasSuffix(lowered, ".yml") {
		return decodeYAMLTemplate(raw)
	}

	var document TemplateDocument
	if err := json.Unmarshal(raw, &document); err != nil {
		return TemplateDocument{}, err
	}
	return document, nil
}

func decodeYAMLTemplate(raw []byte) (TemplateDocument, error) {
	var wire struct {
		Meta   TemplateMeta  `yaml:"meta"`
		Match  TemplateMatch `yaml:"match"`
		Schema any           `yaml:"schema"`
	}
	if err := yaml.Unmarshal(raw, &wire); err != nil {
		return TemplateDocument{}, err
	}

	schema, err := json.Marshal(wire.Schema)
	if err != nil {
		return TemplateDocument{}, fmt.Errorf("schema is not JSON-representable: %w", err)
	}
	return TemplateDocument{Meta: wire.Meta, Match: wire.Match, Schema: schema}, nil
}

// Normalize trims identity fields and normalizes the term sets in place.
func (d *TemplateDocument) Normalize() {
	d.Meta.ID = strings.TrimSpace(d.Meta.ID)
	d.Meta.Title = strings.TrimSpace(d.Meta.Title)
	d.Meta.Version = strings.TrimSpace(d.Meta.Version)
	d.Meta.Tags = NormalizeTerms(d.Meta.Tags)

	d.Match.Primary = strings.TrimSpace(d.Match.Primary)
	d.Match.Operations = NormalizeTerms(d.Match.Operations)
	d.Match.Tags = NormalizeTerms(d.Match.Tags)
}

// checkRequired accumulates every missing identity field instead of stopping
// at the first one, so a rejected document's diagnostic names all faults.
func (d *TemplateDocument) checkRequired() error {
	var err error
	if d.Meta.ID == "" {
		err = multierr.Append(err, errors.New("meta.id is required"))
	}
	if d.Meta.Title == "" {
		err = multierr.Append(err, errors.New("meta.title is required"))
	}
	if d.Meta.Version == "" {
		err = multierr.Append(err, errors.New("meta.version is required"))
	}
	if d.Match.Primary == "" {
		err = multierr.Append(err, errors.New("match.primary is required"))
	}
	return err
}

// ParseTemplate decodes, normalizes, and fully validates one raw template
// document, including its embedded schema. The returned error is a
// diagnostic reason; it never aborts a provider load.
func ParseTemplate(raw []byte, source Source, templateRef string) (Template, error) {
	document, err := DecodeTemplate(raw, templateRef)
	if err != nil {
		return Template{}, fmt.Errorf("template parse failed (%s): %w", templateRef, err)
	}

	document.Normalize()
	if err := document.checkRequired(); err != nil {
		return Template{}, err
	}

	schema, err := uischema.ParseSchema(document.Schema)
	if err != nil {
		return Template{}, fmt.Errorf("schema deserialize error: %w", err)
	}
	if _, err := uischema.Validate(schema, uischema.NewComponentRegistry()); err != nil {
		return Template{}, fmt.Errorf("schema validation error: %w", err)
	}

	return Template{Document: document, Source: source}, nil
}
