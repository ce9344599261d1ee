package catalog_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/soyrochus/brownie/pkg/catalog"
	"github.com/soyrochus/brownie/pkg/uiruntime"
)

func sampleTemplateJSON(templateID, primary string, operations, tags []string) string {
	quote := func(terms []string) string {
		quoted := make([]string, 0, len(terms))
		for _, term := range terms {
			quoted = append(quoted, fmt.Sprintf("%q", term))
		}
		return strings.Join(quoted, ",")
	}
	return fmt.Sprintf(`{
  "meta": {
    "id": %[1]q,
    "title": "Template %[1]s",
    "version": "1.0.0",
    "tags": [%[3]s]
  },
  "match": {
    "primary": %[2]q,
    "operations": [%[4]s],
    "tags": [%[3]s]
  },
  "schema": {
    "schema_version": 1,
    "outputs": [
      {"component_id": "submit_btn", "event_id": "event.%[1]s"}
    ],
    "components": [
      {"id": "note", "kind": "markdown", "text": %[1]q},
      {"id": "submit_btn", "kind": "button", "label": "Submit", "variant": "primary"}
    ]
  }
}`, templateID, primary, quote(tags), quote(operations))
}

func staticDocs(raws ...string) []catalog.StaticDocument {
	docs := make([]catalog.StaticDocument, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, catalog.StaticDocument{Raw: []byte(raw)})
	}
	return docs
}

func TestBuiltinProviderLoadsEmbeddedTemplates(t *testing.T) {
	provider := catalog.DefaultBuiltinProvider()
	loaded, err := provider.LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	if len(loaded.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v, want none", loaded.Diagnostics)
	}
	if len(loaded.Templates) < 2 {
		t.Errorf("template count = %d, want at least 2", len(loaded.Templates))
	}
	for _, template := range loaded.Templates {
		if template.Source.Kind != catalog.KindBuiltin {
			t.Errorf("template %s kind = %q, want builtin", template.TemplateID(), template.Source.Kind)
		}
	}
}

func TestBuiltinProviderRejectsMutations(t *testing.T) {
	provider := catalog.DefaultBuiltinProvider()

	var readOnly *catalog.ReadOnlyProviderError
	if err := provider.UpsertTemplate(catalog.TemplateDocument{}); !errors.As(err, &readOnly) {
		t.Errorf("UpsertTemplate() error = %v, want *ReadOnlyProviderError", err)
	}
	if err := provider.DeleteTemplate("builtin.plan_review.default"); !errors.As(err, &readOnly) {
		t.Errorf("DeleteTemplate() error = %v, want *ReadOnlyProviderError", err)
	}
}

func TestUserProviderPersistsAndReloads(t *testing.T) {
	provider := catalog.NewUserProvider("user-test", t.TempDir())

	document, err := catalog.DecodeTemplate(
		[]byte(sampleTemplateJSON("user.template.alpha", "code_review", []string{"approve"}, []string{"spec"})),
		"alpha.json")
	if err != nil {
		t.Fatalf("DecodeTemplate() error = %v", err)
	}
	if err := provider.UpsertTemplate(document); err != nil {
		t.Fatalf("UpsertTemplate() error = %v", err)
	}

	loaded, err := provider.LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	if len(loaded.Templates) != 1 {
		t.Fatalf("template count = %d, want 1", len(loaded.Templates))
	}
	if got := loaded.Templates[0].TemplateID(); got != "user.template.alpha" {
		t.Errorf("template id = %q", got)
	}

	if err := provider.DeleteTemplate("user.template.alpha"); err != nil {
		t.Fatalf("DeleteTemplate() error = %v", err)
	}
	reloaded, err := provider.LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() after delete error = %v", err)
	}
	if len(reloaded.Templates) != 0 {
		t.Errorf("template count after delete = %d, want 0", len(reloaded.Templates))
	}
}

func TestUserProviderMissingDirIsEmpty(t *testing.T) {
	provider := catalog.NewUserProvider("user-missing", filepath.Join(t.TempDir(), "nope"))
	loaded, err := provider.LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	if len(loaded.Templates) != 0 || len(loaded.Diagnostics) != 0 {
		t.Errorf("missing dir load = %+v, want empty", loaded)
	}
}

func TestInvalidTemplatesExcludedWithDiagnostics(t *testing.T) {
	dir := t.TempDir()
	invalid := `{
  "meta": {"id": "", "title": "Broken", "version": "1.0.0"},
  "match": {"primary": "code_review"},
  "schema": {"schema_version": 1, "outputs": [], "components": []}
}`
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(invalid), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	provider := catalog.NewUserProvider("user-invalid", dir)
	loaded, err := provider.LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	if len(loaded.Templates) != 0 {
		t.Errorf("templates = %d, want 0", len(loaded.Templates))
	}
	if len(loaded.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(loaded.Diagnostics))
	}
	if got := loaded.Diagnostics[0].TemplateRef; got != "broken.json" {
		t.Errorf("diagnostic ref = %q", got)
	}
}

func TestYAMLTemplatesLoad(t *testing.T) {
	dir := t.TempDir()
	doc := `meta:
  id: user.yaml.sample
  title: Sample
  version: 1.0.0
match:
  primary: code_review
schema:
  schema_version: 1
  outputs: []
  components:
    - id: note
      kind: markdown
      text: hello
`
	if err := os.WriteFile(filepath.Join(dir, "sample.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	provider := catalog.NewUserProvider("user-yaml", dir)
	loaded, err := provider.LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	if len(loaded.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %v, want none", loaded.Diagnostics)
	}
	if len(loaded.Templates) != 1 || loaded.Templates[0].TemplateID() != "user.yaml.sample" {
		t.Fatalf("templates = %+v", loaded.Templates)
	}
}

func TestResolvePrefersUserOverBuiltin(t *testing.T) {
	userProvider := catalog.NewStaticProvider(catalog.KindUser, "user", staticDocs(
		sampleTemplateJSON("user.code_review", "code_review", []string{"approve", "reject"}, []string{"spec"}),
	))
	manager := catalog.NewManager([]catalog.Provider{userProvider, catalog.DefaultBuiltinProvider()})

	intent := catalog.NewIntent("code_review", []string{"approve", "reject"}, []string{"spec"})
	result := manager.Resolve(intent)
	if result.Selected == nil {
		t.Fatalf("Selected = nil, trace: %s", result.Trace.DiagnosticLine())
	}
	if result.Selected.Source.Kind != catalog.KindUser || result.Selected.Source.ProviderID != "user" {
		t.Errorf("selected source = %+v, want user tier", result.Selected.Source)
	}
}

func TestResolvePrefersOrgWhenEnabled(t *testing.T) {
	orgProvider := catalog.NewOrgProvider("org", staticDocs(
		sampleTemplateJSON("org.code_review", "code_review", nil, nil),
	))
	userProvider := catalog.NewStaticProvider(catalog.KindUser, "user", staticDocs(
		sampleTemplateJSON("user.code_review", "code_review", []string{"approve"}, []string{"security"}),
	))
	manager := catalog.NewManager(
		[]catalog.Provider{orgProvider, userProvider, catalog.DefaultBuiltinProvider()},
		catalog.WithOrgTier(true),
	)

	// The user candidate outscores the org one; tier precedence still wins.
	intent := catalog.NewIntent("code_review", []string{"approve"}, []string{"security"})
	result := manager.Resolve(intent)
	if result.Selected == nil {
		t.Fatalf("Selected = nil, trace: %s", result.Trace.DiagnosticLine())
	}
	if result.Selected.Source.Kind != catalog.KindOrg {
		t.Errorf("selected kind = %q, want org", result.Selected.Source.Kind)
	}
	for _, candidate := range result.Trace.RankedCandidates {
		if candidate.ProviderKind == catalog.KindUser && candidate.TemplateID == "user.code_review" {
			if candidate.ExcludedReason != "lower provider precedence than org" {
				t.Errorf("user candidate reason = %q", candidate.ExcludedReason)
			}
		}
	}
}

func TestResolveOrgTierIgnoredWhenDisabled(t *testing.T) {
	orgProvider := catalog.NewOrgProvider("org", staticDocs(
		sampleTemplateJSON("org.code_review", "code_review", []string{"approve"}, nil),
	))
	userProvider := catalog.NewStaticProvider(catalog.KindUser, "user", staticDocs(
		sampleTemplateJSON("user.code_review", "code_review", []string{"approve"}, nil),
	))
	manager := catalog.NewManager([]catalog.Provider{orgProvider, userProvider})

	result := manager.Resolve(catalog.NewIntent("code_review", []string{"approve"}, nil))
	if result.Selected == nil {
		t.Fatal("Selected = nil")
	}
	if result.Selected.Source.Kind != catalog.KindUser {
		t.Errorf("selected kind = %q, want user when org tier disabled", result.Selected.Source.Kind)
	}
}

func TestResolveSecondaryOverlapAndTieBreakDeterministic(t *testing.T) {
	provider := catalog.NewStaticProvider(catalog.KindUser, "user", staticDocs(
		sampleTemplateJSON("user.code_review.a", "code_review", []string{"approve"}, []string{"spec"}),
		sampleTemplateJSON("user.code_review.b", "code_review", []string{"approve", "reject"}, []string{"spec", "diff"}),
	))
	manager := catalog.NewManager([]catalog.Provider{provider})

	intent := catalog.NewIntent("code_review", []string{"approve", "reject"}, []string{"spec", "diff"})
	first := manager.Resolve(intent)
	second := manager.Resolve(intent)

	if first.Trace.SelectedTemplateID != second.Trace.SelectedTemplateID {
		t.Errorf("winner unstable: %q vs %q", first.Trace.SelectedTemplateID, second.Trace.SelectedTemplateID)
	}
	if diff := cmp.Diff(first.Trace.RankedCandidates, second.Trace.RankedCandidates); diff != "" {
		t.Errorf("ranked candidates unstable (-first +second):\n%s", diff)
	}
	if first.Selected == nil || first.Selected.TemplateID() != "user.code_review.b" {
		t.Fatalf("winner = %+v, want user.code_review.b", first.Selected)
	}

	selected := first.Trace.RankedCandidates[0]
	if !selected.Selected {
		t.Error("top ranked candidate should be marked selected")
	}
	if selected.OperationOverlap != 2 || selected.TagOverlap != 2 {
		t.Errorf("overlap = %d/%d, want 2/2", selected.OperationOverlap, selected.TagOverlap)
	}
}

func TestResolveTieBreaksOnTemplateID(t *testing.T) {
	provider := catalog.NewStaticProvider(catalog.KindUser, "user", staticDocs(
		sampleTemplateJSON("user.zeta", "code_review", []string{"approve"}, nil),
		sampleTemplateJSON("user.alpha", "code_review", []string{"approve"}, nil),
	))
	manager := catalog.NewManager([]catalog.Provider{provider})

	result := manager.Resolve(catalog.NewIntent("code_review", []string{"approve"}, nil))
	if result.Selected == nil || result.Selected.TemplateID() != "user.alpha" {
		t.Fatalf("winner = %+v, want user.alpha on score tie", result.Selected)
	}
	loser := result.Trace.RankedCandidates[1]
	if loser.ExcludedReason != "lower score or tie-break in same tier" {
		t.Errorf("loser reason = %q", loser.ExcludedReason)
	}
}

func TestResolveNoMatchCarriesReasons(t *testing.T) {
	manager := catalog.NewManager([]catalog.Provider{catalog.DefaultBuiltinProvider()})
	result := manager.Resolve(catalog.NewIntent("unmatched_primary", nil, nil))

	if result.Selected != nil {
		t.Fatalf("Selected = %+v, want nil", result.Selected)
	}
	if len(result.Trace.NoMatchReasons) == 0 {
		t.Fatal("NoMatchReasons empty")
	}
	found := false
	for _, reason := range result.Trace.NoMatchReasons {
		if strings.Contains(reason, "primary mismatch") || strings.Contains(reason, "catalog index") {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons = %v, want a primary mismatch entry", result.Trace.NoMatchReasons)
	}
}

func TestResolveEmptyCatalog(t *testing.T) {
	manager := catalog.NewManager(nil)
	result := manager.Resolve(catalog.NewIntent("code_review", nil, nil))
	if result.Selected != nil {
		t.Fatal("Selected should be nil for empty catalog")
	}
	want := []string{"catalog index contains no templates"}
	if diff := cmp.Diff(want, result.Trace.NoMatchReasons); diff != "" {
		t.Errorf("reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectedTemplateSchemaLoadsIntoRuntime(t *testing.T) {
	manager := catalog.NewManager([]catalog.Provider{catalog.DefaultBuiltinProvider()})
	intent := catalog.NewIntent("code_review", []string{"approve", "reject"}, []string{"spec"})

	result := manager.Resolve(intent)
	if result.Selected == nil {
		t.Fatalf("Selected = nil, trace: %s", result.Trace.DiagnosticLine())
	}

	runtime := uiruntime.NewRuntime()
	if err := runtime.Load(result.Selected.SchemaValue()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !runtime.HasSchema() {
		t.Error("HasSchema() = false")
	}
}

func TestProviderFailureDoesNotCorruptIndex(t *testing.T) {
	dir := t.TempDir()
	good := sampleTemplateJSON("user.good", "code_review", []string{"approve"}, nil)
	if err := os.WriteFile(filepath.Join(dir, "good.json"), []byte(good), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	manager := catalog.NewManager([]catalog.Provider{
		catalog.NewUserProvider("user-ok", dir),
		failingProvider{},
	})

	if len(manager.Templates()) != 1 {
		t.Errorf("templates = %d, want 1 despite failing provider", len(manager.Templates()))
	}
	foundProviderDiagnostic := false
	for _, diagnostic := range manager.LoadDiagnostics() {
		if diagnostic.ProviderID == "broken" {
			foundProviderDiagnostic = true
		}
	}
	if !foundProviderDiagnostic {
		t.Errorf("diagnostics = %v, want entry for broken provider", manager.LoadDiagnostics())
	}
}

type failingProvider struct{}

func (failingProvider) Source() catalog.Source {
	return catalog.Source{ProviderID: "broken", Kind: catalog.KindUser, ReadOnly: true}
}

func (failingProvider) LoadTemplates() (catalog.LoadOutput, error) {
	return catalog.LoadOutput{}, errors.New("disk on fire")
}

func (failingProvider) UpsertTemplate(catalog.TemplateDocument) error {
	return &catalog.ReadOnlyProviderError{ProviderID: "broken"}
}

func (failingProvider) DeleteTemplate(string) error {
	return &catalog.ReadOnlyProviderError{ProviderID: "broken"}
}
