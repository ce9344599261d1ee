package html

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"
)

// EngineOption configures the template engine before construction.
type EngineOption func(*engineConfig)

type engineConfig struct {
	templates fs.FS
	extension string
}

// WithTemplatesFS loads templates from an fs.FS.
func WithTemplatesFS(files fs.FS) EngineOption {
	return func(cfg *engineConfig) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(dir string) EngineOption {
	return func(cfg *engineConfig) {
		if strings.TrimSpace(dir) != "" {
			cfg.templates = os.DirFS(dir)
		}
	}
}

// WithGoTemplateOptions exists for backward compatibility with engines built
// on go-template and is currently a no-op.
func WithGoTemplateOptions(_ ...gotemplatepkg.Option) EngineOption {
	return func(*engineConfig) {}
}

// Engine is a pongo2-backed template renderer with a parse cache.
type Engine struct {
	mu          sync.RWMutex
	templateSet *pongo2.TemplateSet
	cache       map[string]*pongo2.Template
	extension   string
}

// NewEngine constructs an Engine over the given template source.
func NewEngine(options ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{extension: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.templates == nil {
		return nil, errors.New("html: template source is required")
	}
	return &Engine{
		templateSet: pongo2.NewSet("brownie", pongo2.NewFSLoader(cfg.templates)),
		cache:       make(map[string]*pongo2.Template),
		extension:   cfg.extension,
	}, nil
}

// Render executes the named template with the given context.
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("html: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}
	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(pongo2.Context(data), &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("html: execute template %q: %w", path, err)
	}
	return buf.String(), nil
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.cache[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("html: load template %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}
