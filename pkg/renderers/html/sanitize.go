package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markdownPolicyOnce sync.Once
	markdownPolicy     *bluemonday.Policy
)

// sanitizeMarkdown strips unsafe markup from template-authored text. Catalog
// documents are untrusted input; inline HTML survives only if the UGC policy
// allows it.
func sanitizeMarkdown(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(markdownSanitizer().Sanitize(trimmed))
}

func markdownSanitizer() *bluemonday.Policy {
	markdownPolicyOnce.Do(func() {
		markdownPolicy = bluemonday.UGCPolicy()
	})
	return markdownPolicy
}
