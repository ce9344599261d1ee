package catalog

import (
	"sort"

	"go.uber.org/zap"
)

// Manager aggregates providers into one template index and resolves intents
// against it. It is not safe for concurrent use; callers own the
// synchronization, matching the single-owner session model.
type Manager struct {
	providers       []Provider
	templates       []Template
	loadDiagnostics []LoadDiagnostic
	orgEnabled      bool
	logger          *zap.Logger
}

// ManagerOption configures a Manager before its first load.
type ManagerOption func(*Manager)

// WithOrgTier enables the organization precedence tier. When disabled (the
// default), Org-kind providers still load but never produce candidates.
func WithOrgTier(enabled bool) ManagerOption {
	return func(m *Manager) {
		m.orgEnabled = enabled
	}
}

// WithLogger installs a logger for load diagnostics and resolution traces.
// The default is a no-op logger.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager builds a manager over the given providers, in provider order,
// and performs the initial load.
func NewManager(providers []Provider, options ...ManagerOption) *Manager {
	manager := &Manager{
		providers: providers,
		logger:    zap.NewNop(),
	}
	for _, option := range options {
		if option != nil {
			option(manager)
		}
	}
	manager.Reload()
	return manager
}

// NewDefaultManager wires the standard provider pair: a user provider over
// userCatalogDir and the embedded builtin provider.
func NewDefaultManager(userCatalogDir string, options ...ManagerOption) *Manager {
	return NewManager([]Provider{
		NewUserProvider("user-local", userCatalogDir),
		DefaultBuiltinProvider(),
	}, options...)
}

// Reload clears and rebuilds the full template index from all providers,
// accumulating diagnostics. A provider-level failure becomes a diagnostic
// and does not corrupt the rest of the index. The rebuilt index is sorted
// by (provider_id, template_id) for deterministic downstream iteration.
func (m *Manager) Reload() {
	m.templates = m.templates[:0]
	m.loadDiagnostics = m.loadDiagnostics[:0]

	for _, provider := range m.providers {
		output, err := provider.LoadTemplates()
		if err != nil {
			source := provider.Source()
			m.loadDiagnostics = append(m.loadDiagnostics, LoadDiagnostic{
				ProviderID:  source.ProviderID,
				TemplateRef: "provider",
				Reason:      err.Error(),
			})
			continue
		}
		m.templates = append(m.templates, output.Templates...)
		m.loadDiagnostics = append(m.loadDiagnostics, output.Diagnostics...)
	}

	sort.SliceStable(m.templates, func(i, j int) bool {
		left, right := m.templates[i], m.templates[j]
		if left.Source.ProviderID != right.Source.ProviderID {
			return left.Source.ProviderID < right.Source.ProviderID
		}
		return left.TemplateID() < right.TemplateID()
	})

	for _, diagnostic := range m.loadDiagnostics {
		m.logger.Warn("catalog load rejected document",
			zap.String("provider", diagnostic.ProviderID),
			zap.String("template_ref", diagnostic.TemplateRef),
			zap.String("reason", diagnostic.Reason),
		)
	}
	m.logger.Debug("catalog index rebuilt",
		zap.Int("templates", len(m.templates)),
		zap.Int("diagnostics", len(m.loadDiagnostics)),
	)
}

// Templates returns the current index in its deterministic order.
func (m *Manager) Templates() []Template {
	return m.templates
}

// LoadDiagnostics returns the diagnostics accumulated by the last Reload.
func (m *Manager) LoadDiagnostics() []LoadDiagnostic {
	return m.loadDiagnostics
}

// precedence returns the tier walk order for resolution.
func (m *Manager) precedence() []SourceKind {
	if m.orgEnabled {
		return []SourceKind{KindOrg, KindUser, KindBuiltin}
	}
	return []SourceKind{KindUser, KindBuiltin}
}
