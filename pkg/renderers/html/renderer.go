// Package html renders canvas blocks as static, sanitized HTML fragments.
// The output is read-only: forms and buttons render disabled and no events
// are emitted back into the runtime.
package html

import (
	"errors"
	"fmt"
	stdhtml "html"
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/soyrochus/brownie/pkg/uischema"
	"github.com/soyrochus/brownie/pkg/workspace"
)

const blockTemplate = "templates/block"

// Option configures the renderer.
type Option func(*Renderer)

// WithEngine overrides the template engine. The default engine loads the
// embedded template bundle.
func WithEngine(engine *Engine) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithThemeSelector resolves the named theme and variant through go-theme and
// injects its tokens as CSS custom properties on every rendered block.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(r *Renderer) {
		r.selector = selector
		r.themeName = name
		r.themeVariant = variant
	}
}

// Renderer turns live canvas blocks into HTML fragments.
type Renderer struct {
	engine       *Engine
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
}

// New constructs an HTML renderer backed by the embedded templates.
func New(options ...Option) (*Renderer, error) {
	engine, err := NewEngine(WithTemplatesFS(templateFS))
	if err != nil {
		return nil, err
	}
	r := &Renderer{engine: engine}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// RenderBlock renders one block, including its current form state.
func (r *Renderer) RenderBlock(block *workspace.Block) ([]byte, error) {
	if block == nil {
		return nil, errors.New("html: block is nil")
	}
	if block.Runtime == nil || !block.Runtime.HasSchema() {
		return nil, errors.New("html: block has no loaded schema")
	}

	var body strings.Builder
	r.writeComponents(&body, block, block.Runtime.Schema().Components, 2)

	cssVars, err := r.themeCSSVars()
	if err != nil {
		return nil, err
	}

	rendered, err := r.engine.Render(blockTemplate, map[string]any{
		"block_id":       block.BlockID,
		"template_id":    block.TemplateID,
		"title":          block.Title,
		"provider_id":    block.ProviderID,
		"provider_kind":  block.ProviderKind,
		"minimized":      block.Minimized,
		"css_vars_style": cssVars,
		"body":           body.String(),
	})
	if err != nil {
		return nil, err
	}
	return []byte(rendered), nil
}

func (r *Renderer) themeCSSVars() (string, error) {
	if r.selector == nil {
		return "", nil
	}
	selection, err := r.selector.Select(r.themeName, r.themeVariant)
	if err != nil {
		return "", fmt.Errorf("html: select theme %s/%s: %w", r.themeName, r.themeVariant, err)
	}
	if selection == nil || selection.Manifest == nil {
		return "", nil
	}

	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	if len(tokens) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		b.WriteString(" --")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(tokens[key])
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String(), nil
}

func (r *Renderer) writeComponents(b *strings.Builder, block *workspace.Block, components []uischema.Component, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, component := range components {
		switch c := component.(type) {
		case uischema.MarkdownComponent:
			fmt.Fprintf(b, "%s<div class=\"canvas-markdown\" id=%q>%s</div>\n",
				pad, c.ID, strings.ReplaceAll(sanitizeMarkdown(c.Text), "\n", "<br>"))
		case uischema.CodeComponent:
			fmt.Fprintf(b, "%s<pre class=\"canvas-code\" id=%q data-language=%q><code>%s</code></pre>\n",
				pad, c.ID, c.Language, stdhtml.EscapeString(c.Code))
		case uischema.DiffComponent:
			r.writeDiff(b, c, pad)
		case uischema.FormComponent:
			r.writeForm(b, block, c, pad)
		case uischema.ButtonComponent:
			fmt.Fprintf(b, "%s<button class=\"canvas-button canvas-button--%s\" id=%q data-event-id=%q disabled>%s</button>\n",
				pad, c.Variant, c.ID, c.OutputEventID, stdhtml.EscapeString(c.Label))
		}
		if children := component.ChildComponents(); len(children) > 0 {
			fmt.Fprintf(b, "%s<div class=\"canvas-children\">\n", pad)
			r.writeComponents(b, block, children, indent+1)
			fmt.Fprintf(b, "%s</div>\n", pad)
		}
	}
}

func (r *Renderer) writeDiff(b *strings.Builder, diff uischema.DiffComponent, pad string) {
	fmt.Fprintf(b, "%s<pre class=\"canvas-diff\" id=%q>\n", pad, diff.ID)
	for _, line := range diff.Lines {
		fmt.Fprintf(b, "<span class=\"canvas-diff__line canvas-diff__line--%s\">%s</span>\n",
			line.Kind, stdhtml.EscapeString(line.Text))
	}
	fmt.Fprintf(b, "%s</pre>\n", pad)
}

func (r *Renderer) writeForm(b *strings.Builder, block *workspace.Block, form uischema.FormComponent, pad string) {
	fmt.Fprintf(b, "%s<form class=\"canvas-form\" id=%q>\n", pad, form.ID)
	if form.Title != "" {
		fmt.Fprintf(b, "%s  <legend>%s</legend>\n", pad, stdhtml.EscapeString(form.Title))
	}
	for _, field := range form.Fields {
		current, ok := block.Runtime.FieldValue(form.ID, field.FieldID())
		if !ok {
			current = field.DefaultValue()
		}
		r.writeField(b, field, current, pad+"  ")
	}
	fmt.Fprintf(b, "%s</form>\n", pad)
}

func (r *Renderer) writeField(b *strings.Builder, field uischema.FormField, current uischema.FieldValue, pad string) {
	fmt.Fprintf(b, "%s<label for=%q>%s</label>\n", pad, field.FieldID(), stdhtml.EscapeString(field.FieldLabel()))
	switch f := field.(type) {
	case uischema.TextField:
		fmt.Fprintf(b, "%s<input type=\"text\" id=%q value=%q disabled>\n",
			pad, f.ID, current.Str)
	case uischema.NumberField:
		fmt.Fprintf(b, "%s<input type=\"number\" id=%q value=%q disabled>\n",
			pad, f.ID, strconv.FormatFloat(current.Num, 'f', -1, 64))
	case uischema.SelectField:
		fmt.Fprintf(b, "%s<select id=%q disabled>\n", pad, f.ID)
		for _, option := range f.Options {
			selected := ""
			if option == current.Str {
				selected = " selected"
			}
			fmt.Fprintf(b, "%s  <option value=%q%s>%s</option>\n",
				pad, option, selected, stdhtml.EscapeString(option))
		}
		fmt.Fprintf(b, "%s</select>\n", pad)
	case uischema.CheckboxField:
		checked := ""
		if current.Bool {
			checked = " checked"
		}
		fmt.Fprintf(b, "%s<input type=\"checkbox\" id=%q%s disabled>\n", pad, f.ID, checked)
	}
}
