package importer

import (
	"fmt"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/soyrochus/brownie/pkg/catalog"
)

// Promote persists a document into a writable provider, typically moving a
// provisional template into the user tier. The template id loses its
// provisional prefix and the patch version is bumped so the promoted copy
// outranks nothing but supersedes its source on re-import.
func Promote(provider catalog.Provider, document catalog.TemplateDocument) (catalog.TemplateDocument, error) {
	promoted := document
	promoted.Meta.ID = promotedID(document.Meta.ID)
	promoted.Meta.Version = bumpPatch(document.Meta.Version)

	if err := provider.UpsertTemplate(promoted); err != nil {
		return catalog.TemplateDocument{}, fmt.Errorf("importer: promote %s: %w", promoted.Meta.ID, err)
	}
	return promoted, nil
}

func promotedID(templateID string) string {
	if rest, ok := strings.CutPrefix(templateID, "provisional."); ok {
		return "user." + rest
	}
	return templateID
}

func bumpPatch(version string) string {
	parsed, err := semver.ParseTolerant(version)
	if err != nil {
		return "0.1.0"
	}
	parsed.Patch++
	return parsed.String()
}
