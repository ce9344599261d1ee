package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/soyrochus/brownie/pkg/catalog"
	"github.com/soyrochus/brownie/pkg/uischema"
)

// ImportOpenAPI derives one template document per mutating OpenAPI operation
// that carries an object-shaped JSON request body. Body properties become
// form fields (string to text, string with enum to select, number and
// integer to number, boolean to checkbox; anything else is skipped) and a
// submit button wires the operation id into the output contract.
func ImportOpenAPI(ctx context.Context, raw []byte) ([]catalog.TemplateDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("importer: load openapi document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("importer: validate openapi document: %w", err)
	}

	var documents []catalog.TemplateDocument
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for method, operation := range map[string]*openapi3.Operation{
				"POST":  item.Post,
				"PUT":   item.Put,
				"PATCH": item.Patch,
			} {
				document, ok := operationTemplate(method, path, operation)
				if ok {
					documents = append(documents, document)
				}
			}
		}
	}

	sort.Slice(documents, func(i, j int) bool {
		return documents[i].Meta.ID < documents[j].Meta.ID
	})
	return documents, nil
}

func operationTemplate(method, path string, operation *openapi3.Operation) (catalog.TemplateDocument, bool) {
	if operation == nil {
		return catalog.TemplateDocument{}, false
	}
	body := requestBodySchema(operation.RequestBody)
	if body == nil || len(body.Properties) == 0 {
		return catalog.TemplateDocument{}, false
	}

	opID := operation.OperationID
	if opID == "" {
		opID = strings.ToLower(method) + strings.Map(pathRune, path)
	}

	fields := fieldsFromProperties(body.Properties)
	if len(fields) == 0 {
		return catalog.TemplateDocument{}, false
	}

	formID := opID + "_form"
	buttonID := opID + "_submit"
	submitEvent := fmt.Sprintf("event.%s.submit", opID)

	title := operation.Summary
	if title == "" {
		title = fmt.Sprintf("%s %s", method, path)
	}

	schema := uischema.Schema{
		SchemaVersion: 1,
		Outputs: []uischema.OutputContract{
			{ComponentID: buttonID, EventID: submitEvent},
		},
		Components: []uischema.RawComponent{
			{
				ID:     formID,
				Kind:   uischema.ComponentForm,
				Title:  title,
				Fields: fields,
			},
			{
				ID:       buttonID,
				Kind:     uischema.ComponentButton,
				Label:    "Submit",
				HasLabel: true,
				Variant:  uischema.ButtonPrimary,
			},
		},
	}
	rawSchema, _ := json.Marshal(schema)

	return catalog.TemplateDocument{
		Meta: catalog.TemplateMeta{
			ID:      "imported." + opID,
			Title:   title,
			Version: "0.1.0",
			Tags:    []string{"imported", "openapi"},
		},
		Match: catalog.TemplateMatch{
			Primary:    opID,
			Operations: []string{"submit"},
			Tags:       []string{"imported"},
		},
		Schema: rawSchema,
	}, true
}

func requestBodySchema(requestBody *openapi3.RequestBodyRef) *openapi3.Schema {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := requestBody.Value.Content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldsFromProperties(properties openapi3.Schemas) []uischema.RawFormField {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []uischema.RawFormField
	for _, name := range names {
		ref := properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := fieldFromSchema(name, ref.Value)
		if ok {
			fields = append(fields, field)
		}
	}
	return fields
}

func fieldFromSchema(name string, schema *openapi3.Schema) (uischema.RawFormField, bool) {
	label := schema.Title
	if label == "" {
		label = name
	}
	field := uischema.RawFormField{ID: name, Label: label, Default: schema.Default}

	switch schemaType(schema) {
	case "string":
		if len(schema.Enum) > 0 {
			field.Kind = uischema.FieldSelect
			for _, option := range schema.Enum {
				if text, ok := option.(string); ok {
					field.Options = append(field.Options, text)
				}
			}
		} else {
			field.Kind = uischema.FieldText
		}
	case "number", "integer":
		field.Kind = uischema.FieldNumber
	case "boolean":
		field.Kind = uischema.FieldCheckbox
	default:
		return uischema.RawFormField{}, false
	}
	return field, true
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil {
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func pathRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return r
	default:
		return '_'
	}
}
