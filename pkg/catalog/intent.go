package catalog

import (
	"sort"
	"strings"
)

// Intent is the normalized descriptor of what UI the user or agent wants.
// It is produced by an external classifier and only consumed here. The
// operation and tag sets are stored deduplicated and sorted so equality is
// structural.
type Intent struct {
	Primary    string   `json:"primary"`
	Operations []string `json:"operations,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// NewIntent builds an Intent with normalized operation and tag sets.
func NewIntent(primary string, operations, tags []string) Intent {
	return Intent{
		Primary:    primary,
		Operations: NormalizeTerms(operations),
		Tags:       NormalizeTerms(tags),
	}
}

// Summary renders the intent as a single log-friendly line.
func (i Intent) Summary() string {
	operations := "-"
	if len(i.Operations) > 0 {
		operations = strings.Join(i.Operations, ",")
	}
	tags := "-"
	if len(i.Tags) > 0 {
		tags = strings.Join(i.Tags, ",")
	}
	return "primary=" + strings.TrimSpace(i.Primary) + " ops=" + operations + " tags=" + tags
}

// NormalizeTerms trims every term, drops empties, deduplicates, and sorts.
func NormalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		trimmed := strings.TrimSpace(term)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func termSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		set[term] = struct{}{}
	}
	return set
}

func setsEqual(left, right map[string]struct{}) bool {
	if len(left) != len(right) {
		return false
	}
	for term := range left {
		if _, ok := right[term]; !ok {
			return false
		}
	}
	return true
}
