// Package importer produces catalog template documents from sources other
// than hand-written files: provisional documents synthesized from an intent,
// and documents derived from OpenAPI operation schemas.
package importer

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/soyrochus/brownie/pkg/catalog"
	"github.com/soyrochus/brownie/pkg/uischema"
)

// Provisional synthesizes a minimal template for an intent that resolved to
// nothing. The document renders a summary, a free-text form, and a submit
// button, and matches exactly the intent it was built from so the very next
// resolution finds it.
func Provisional(intent catalog.Intent) catalog.TemplateDocument {
	templateID := fmt.Sprintf("provisional.%s.%s", intent.Primary, uuid.NewString()[:8])
	submitEvent := fmt.Sprintf("event.%s.submit", intent.Primary)

	schema := uischema.Schema{
		SchemaVersion: 1,
		Outputs: []uischema.OutputContract{
			{ComponentID: "submit_btn", EventID: submitEvent},
		},
		Components: []uischema.RawComponent{
			{
				ID:      "summary",
				Kind:    uischema.ComponentMarkdown,
				Text:    fmt.Sprintf("## %s\n\nNo catalog template matched this request; this panel was generated from the detected intent (%s).", intent.Primary, intent.Summary()),
				HasText: true,
			},
			{
				ID:    "response_form",
				Kind:  uischema.ComponentForm,
				Title: "Response",
				Fields: []uischema.RawFormField{
					{ID: "notes", Label: "Notes", Kind: uischema.FieldText},
				},
			},
			{
				ID:       "submit_btn",
				Kind:     uischema.ComponentButton,
				Label:    "Submit",
				HasLabel: true,
				Variant:  uischema.ButtonPrimary,
			},
		},
	}
	// The schema above is built from static parts; marshalling cannot fail.
	raw, _ := json.Marshal(schema)

	return catalog.TemplateDocument{
		Meta: catalog.TemplateMeta{
			ID:      templateID,
			Title:   fmt.Sprintf("Provisional %s", intent.Primary),
			Version: "0.1.0",
			Tags:    intent.Tags,
		},
		Match: catalog.TemplateMatch{
			Primary:    intent.Primary,
			Operations: intent.Operations,
			Tags:       intent.Tags,
		},
		Schema: raw,
	}
}
