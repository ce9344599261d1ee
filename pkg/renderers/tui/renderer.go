// Package tui renders a validated canvas schema as a sequence of terminal
// prompts. The renderer performs no validation of its own: it consumes the
// runtime's validated tree and reports every interaction back through the
// runtime's commit and click entry points.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/soyrochus/brownie/pkg/uiruntime"
	"github.com/soyrochus/brownie/pkg/uischema"
)

const doneAction = "Done"

// Renderer walks a validated schema, printing passive components and
// prompting for form fields and button actions.
type Renderer struct {
	driver PromptDriver
	theme  Theme
}

// New constructs a TUI renderer with the survey-backed driver by default.
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver: newSurveyDriver(),
		theme:  DefaultTheme(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render walks the runtime's schema once: passive components print, form
// fields prompt and commit, and buttons are offered as a closing action menu.
// Aborting a prompt surfaces ErrAborted with no partial commits for the
// aborted field.
func (r *Renderer) Render(ctx context.Context, runtime *uiruntime.Runtime) error {
	if runtime == nil || !runtime.HasSchema() {
		return ErrNoSchema
	}
	schema := runtime.Schema()
	if err := r.renderComponents(ctx, runtime, schema.Components); err != nil {
		return err
	}
	return r.promptActions(ctx, runtime, schema.Components)
}

func (r *Renderer) renderComponents(ctx context.Context, runtime *uiruntime.Runtime, components []uischema.Component) error {
	for _, component := range components {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch c := component.(type) {
		case uischema.MarkdownComponent:
			err = r.info(ctx, c.Text)
		case uischema.CodeComponent:
			err = r.renderCode(ctx, c)
		case uischema.DiffComponent:
			err = r.renderDiff(ctx, c)
		case uischema.FormComponent:
			err = r.promptForm(ctx, runtime, c)
		case uischema.ButtonComponent:
			// Buttons render as one action menu after the walk.
		}
		if err != nil {
			return err
		}
		if err := r.renderComponents(ctx, runtime, component.ChildComponents()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderCode(ctx context.Context, code uischema.CodeComponent) error {
	fence := "```"
	if code.Language != "" {
		fence += code.Language
	}
	return r.info(ctx, fence+"\n"+code.Code+"\n```")
}

func (r *Renderer) renderDiff(ctx context.Context, diff uischema.DiffComponent) error {
	var b strings.Builder
	for i, line := range diff.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch line.Kind {
		case uischema.DiffAdded:
			b.WriteString(r.theme.DiffAdded)
		case uischema.DiffRemoved:
			b.WriteString(r.theme.DiffRemoved)
		default:
			b.WriteString(r.theme.DiffContext)
		}
		b.WriteString(line.Text)
	}
	return r.info(ctx, b.String())
}

func (r *Renderer) promptForm(ctx context.Context, runtime *uiruntime.Runtime, form uischema.FormComponent) error {
	if form.Title != "" {
		if err := r.info(ctx, form.Title); err != nil {
			return err
		}
	}
	for _, field := range form.Fields {
		current, ok := runtime.FieldValue(form.ID, field.FieldID())
		if !ok {
			current = field.DefaultValue()
		}
		value, err := r.promptField(ctx, field, current)
		if err != nil {
			return err
		}
		runtime.CommitField(form.ID, field.FieldID(), value)
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, field uischema.FormField, current uischema.FieldValue) (uischema.FieldValue, error) {
	switch f := field.(type) {
	case uischema.TextField:
		text, err := r.driver.Input(ctx, InputConfig{
			Message: f.Label,
			Default: current.Str,
		})
		if err != nil {
			return uischema.FieldValue{}, err
		}
		return uischema.TextValue(text), nil

	case uischema.NumberField:
		text, err := r.driver.Input(ctx, InputConfig{
			Message:   f.Label,
			Default:   strconv.FormatFloat(current.Num, 'f', -1, 64),
			Validator: validateNumber,
		})
		if err != nil {
			return uischema.FieldValue{}, err
		}
		num, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return uischema.FieldValue{}, fmt.Errorf("tui: field %s: %w", f.ID, err)
		}
		return uischema.NumberValue(num), nil

	case uischema.SelectField:
		index, err := r.driver.Select(ctx, SelectConfig{
			Message:      f.Label,
			Options:      f.Options,
			DefaultIndex: indexOf(f.Options, current.Str),
		})
		if err != nil {
			return uischema.FieldValue{}, err
		}
		if index < 0 || index >= len(f.Options) {
			return uischema.FieldValue{}, fmt.Errorf("tui: field %s: selection out of range", f.ID)
		}
		return uischema.SelectValue(f.Options[index]), nil

	case uischema.CheckboxField:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: f.Label,
			Default: current.Bool,
		})
		if err != nil {
			return uischema.FieldValue{}, err
		}
		return uischema.CheckboxValue(checked), nil
	}
	return uischema.FieldValue{}, fmt.Errorf("tui: field %s: unsupported kind %s", field.FieldID(), field.FieldKind())
}

func (r *Renderer) promptActions(ctx context.Context, runtime *uiruntime.Runtime, components []uischema.Component) error {
	var buttons []uischema.ButtonComponent
	uischema.WalkComponents(components, func(component uischema.Component) {
		if button, ok := component.(uischema.ButtonComponent); ok {
			buttons = append(buttons, button)
		}
	})
	if len(buttons) == 0 {
		return nil
	}

	options := make([]string, 0, len(buttons)+1)
	for _, button := range buttons {
		options = append(options, button.Label)
	}
	options = append(options, doneAction)

	index, err := r.driver.Select(ctx, SelectConfig{
		Message: "Action",
		Options: options,
	})
	if err != nil {
		return err
	}
	if index < 0 || index >= len(buttons) {
		return nil
	}
	return runtime.ClickButton(buttons[index].ID)
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if r.theme.InfoPrefix != "" {
		msg = r.theme.InfoPrefix + msg
	}
	return r.driver.Info(ctx, msg)
}

func validateNumber(text string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}
