package catalog

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Scoring weights for the secondary ranking inside one precedence tier.
const (
	operationOverlapWeight = 10
	tagOverlapWeight       = 4
	exactOperationBonus    = 2
	exactTagBonus          = 1
)

// ResolutionCandidate records how one template fared during resolution.
type ResolutionCandidate struct {
	TemplateID       string
	ProviderID       string
	ProviderKind     SourceKind
	Score            int
	OperationOverlap int
	TagOverlap       int
	ExcludedReason   string
	Selected         bool
}

// ResolutionTrace records every decision made while resolving one intent.
// Required for diagnostics and for tests; it captures the full ranked
// candidate list, not just the winner.
type ResolutionTrace struct {
	Intent             Intent
	ProviderPrecedence []SourceKind
	SelectedTemplateID string
	SelectedProviderID string
	SelectedScore      int
	RankedCandidates   []ResolutionCandidate
	NoMatchReasons     []string
}

// DiagnosticLine renders the trace outcome as one log line.
func (t ResolutionTrace) DiagnosticLine() string {
	if t.SelectedTemplateID != "" {
		return fmt.Sprintf("catalog resolve selected template=%s provider=%s score=%d intent=%s",
			t.SelectedTemplateID, t.SelectedProviderID, t.SelectedScore, t.Intent.Summary())
	}
	reasons := "none"
	if len(t.NoMatchReasons) > 0 {
		reasons = strings.Join(t.NoMatchReasons, " | ")
	}
	return fmt.Sprintf("catalog resolve no_match intent=%s reasons=%s", t.Intent.Summary(), reasons)
}

// ResolutionResult pairs the winning template, if any, with the trace.
type ResolutionResult struct {
	Selected *Template
	Trace    ResolutionTrace
}

// Resolve picks the single best template for the intent. Templates compete
// only within their precedence tier: the first tier with at least one
// candidate supplies the winner, so a higher score in a lower tier never
// overrides a match in a higher one. Resolution over an unchanged index and
// intent is deterministic and repeatable.
func (m *Manager) Resolve(intent Intent) ResolutionResult {
	precedence := m.precedence()
	ranked := make([]ResolutionCandidate, 0, len(m.templates))
	matchesByTier := make(map[int][]ResolutionCandidate)

	intentPrimary := strings.TrimSpace(intent.Primary)
	for _, template := range m.templates {
		tier := precedenceIndex(template.Source.Kind, precedence)
		if tier < 0 {
			continue
		}

		requiredPrimary := strings.TrimSpace(template.Document.Match.Primary)
		if requiredPrimary != intentPrimary {
			ranked = append(ranked, ResolutionCandidate{
				TemplateID:   template.TemplateID(),
				ProviderID:   template.Source.ProviderID,
				ProviderKind: template.Source.Kind,
				ExcludedReason: fmt.Sprintf("primary mismatch expected=%s actual=%s",
					requiredPrimary, intentPrimary),
			})
			continue
		}

		total, operationOverlap, tagOverlap := scoreSecondary(intent, template)
		candidate := ResolutionCandidate{
			TemplateID:       template.TemplateID(),
			ProviderID:       template.Source.ProviderID,
			ProviderKind:     template.Source.Kind,
			Score:            total,
			OperationOverlap: operationOverlap,
			TagOverlap:       tagOverlap,
		}
		matchesByTier[tier] = append(matchesByTier[tier], candidate)
		ranked = append(ranked, candidate)
	}

	var selected *Template
	selectedTier := -1
	var selectedTemplateID, selectedProviderID string
	for tier := range precedence {
		tierCandidates := matchesByTier[tier]
		if len(tierCandidates) == 0 {
			continue
		}
		sorted := append([]ResolutionCandidate(nil), tierCandidates...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return candidateLess(sorted[i], sorted[j])
		})
		best := sorted[0]
		selectedTier = tier
		selectedTemplateID = best.TemplateID
		selectedProviderID = best.ProviderID
		selected = m.findTemplate(best.TemplateID, best.ProviderID)
		break
	}

	if selected != nil {
		for i := range ranked {
			candidate := &ranked[i]
			if candidate.TemplateID == selectedTemplateID && candidate.ProviderID == selectedProviderID {
				candidate.Selected = true
				continue
			}
			if candidate.ExcludedReason != "" {
				continue
			}
			candidateTier := precedenceIndex(candidate.ProviderKind, precedence)
			if candidateTier > selectedTier {
				candidate.ExcludedReason = fmt.Sprintf("lower provider precedence than %s",
					string(precedence[selectedTier]))
			} else {
				candidate.ExcludedReason = "lower score or tie-break in same tier"
			}
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		left, right := ranked[i], ranked[j]
		if candidateLess(left, right) {
			return true
		}
		if candidateLess(right, left) {
			return false
		}
		return precedenceIndex(left.ProviderKind, precedence) < precedenceIndex(right.ProviderKind, precedence)
	})

	selectedScore := 0
	for _, candidate := range ranked {
		if candidate.Selected {
			selectedScore = candidate.Score
			break
		}
	}

	var noMatchReasons []string
	if selected == nil {
		if len(ranked) == 0 {
			noMatchReasons = []string{"catalog index contains no templates"}
		} else {
			for _, candidate := range ranked {
				reason := candidate.ExcludedReason
				if reason == "" {
					reason = "no ranking winner"
				}
				noMatchReasons = append(noMatchReasons,
					fmt.Sprintf("%s:%s %s", candidate.ProviderID, candidate.TemplateID, reason))
			}
		}
	}

	trace := ResolutionTrace{
		Intent:             intent,
		ProviderPrecedence: precedence,
		SelectedTemplateID: selectedTemplateID,
		SelectedProviderID: selectedProviderID,
		SelectedScore:      selectedScore,
		RankedCandidates:   ranked,
		NoMatchReasons:     noMatchReasons,
	}

	if selected != nil {
		m.logger.Debug("catalog resolve selected",
			zap.String("template", selectedTemplateID),
			zap.String("provider", selectedProviderID),
			zap.Int("score", selectedScore),
			zap.String("intent", intent.Summary()),
		)
	} else {
		m.logger.Debug("catalog resolve no match",
			zap.String("intent", intent.Summary()),
			zap.Strings("reasons", noMatchReasons),
		)
	}

	return ResolutionResult{Selected: selected, Trace: trace}
}

// candidateLess orders by score descending, then template_id ascending,
// then provider_id ascending. The tie-break order is load-bearing for
// determinism; do not change it without product review.
func candidateLess(left, right ResolutionCandidate) bool {
	if left.Score != right.Score {
		return left.Score > right.Score
	}
	if left.TemplateID != right.TemplateID {
		return left.TemplateID < right.TemplateID
	}
	return left.ProviderID < right.ProviderID
}

func scoreSecondary(intent Intent, template Template) (total, operationOverlap, tagOverlap int) {
	intentOperations := termSet(intent.Operations)
	intentTags := termSet(intent.Tags)
	templateOperations := termSet(template.Document.Match.Operations)
	templateTags := termSet(template.Document.Match.Tags)

	for operation := range templateOperations {
		if _, ok := intentOperations[operation]; ok {
			operationOverlap++
		}
	}
	for tag := range templateTags {
		if _, ok := intentTags[tag]; ok {
			tagOverlap++
		}
	}

	total = operationOverlap*operationOverlapWeight + tagOverlap*tagOverlapWeight
	if len(templateOperations) > 0 && setsEqual(templateOperations, intentOperations) {
		total += exactOperationBonus
	}
	if len(templateTags) > 0 && setsEqual(templateTags, intentTags) {
		total += exactTagBonus
	}
	return total, operationOverlap, tagOverlap
}

func (m *Manager) findTemplate(templateID, providerID string) *Template {
	for i := range m.templates {
		if m.templates[i].TemplateID() == templateID && m.templates[i].Source.ProviderID == providerID {
			template := m.templates[i]
			return &template
		}
	}
	return nil
}

func precedenceIndex(kind SourceKind, precedence []SourceKind) int {
	for index, candidate := range precedence {
		if candidate == kind {
			return index
		}
	}
	return -1
}
