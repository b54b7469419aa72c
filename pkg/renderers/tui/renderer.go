// Package tui drives a form tree from a terminal. Each field is prompted in
// declaration order and committed to the form as user input, so the form's
// validators and listeners behave as they would behind any other UI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-customerform/pkg/forms"
)

// Renderer prompts the fields of a form.
type Renderer struct {
	driver       PromptDriver
	locker       sync.Locker
	status       func() string
	sanitize     Sanitizer
	errorText    map[string]string
	reviewRounds int
	theme        Theme
}

// New constructs a TUI renderer with defaults (survey driver, strict
// sanitizer, one review round).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       NewSurveyDriver(nil),
		locker:       noopLocker{},
		sanitize:     StrictSanitizer(),
		errorText:    defaultErrorText(),
		reviewRounds: 1,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Render prompts every field of root, then offers to revisit invalid
// controls. It returns nil when the user declines further corrections, so
// callers must check validity themselves.
func (r *Renderer) Render(ctx context.Context, root *forms.Group) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if root == nil {
		return ErrNoForm
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.promptGroup(ctx, root); err != nil {
		return err
	}
	r.locked(root.MarkAllAsTouched)

	for round := 0; round < r.reviewRounds; round++ {
		invalid := r.invalidFields(root)
		if len(invalid) == 0 {
			return nil
		}
		if err := r.showStatus(ctx); err != nil {
			return err
		}
		if err := r.report(ctx, root); err != nil {
			return err
		}
		again, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: r.theme.PromptPrefix + "Fix the invalid fields?",
			Default: true,
		})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		for _, field := range invalid {
			if err := r.promptField(ctx, field); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) promptGroup(ctx context.Context, group *forms.Group) error {
	for _, child := range group.Controls() {
		switch node := child.(type) {
		case *forms.Group:
			if err := r.promptGroup(ctx, node); err != nil {
				return err
			}
			if err := r.showErrors(ctx, node); err != nil {
				return err
			}
		case *forms.Field:
			if err := r.promptField(ctx, node); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, field *forms.Field) error {
	var (
		value   any
		path    string
		label   string
		kind    forms.Kind
		options []string
		null    bool
	)
	r.locked(func() {
		value = field.Value()
		path = field.Path()
		label = field.Label()
		kind = field.Kind()
		options = field.Options()
		null = field.Nullable()
	})
	message := r.theme.PromptPrefix + label

	var answer any
	switch {
	case len(options) > 0:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, fmt.Sprint(value)),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return fmt.Errorf("tui: %s: option index %d out of range", path, idx)
		}
		answer = options[idx]
	case kind == forms.KindBoolean:
		current, _ := value.(bool)
		yes, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current})
		if err != nil {
			return err
		}
		answer = yes
	case kind == forms.KindNumber || kind == forms.KindInteger:
		n, err := r.promptNumber(ctx, message, kind, value, null)
		if err != nil {
			return err
		}
		answer = n
	default:
		text, err := r.driver.Input(ctx, InputConfig{Message: message, Default: stringValue(value)})
		if err != nil {
			return err
		}
		answer = r.sanitize(text)
	}

	r.locked(func() {
		field.Input(answer)
		field.Blur()
	})
	if err := r.showErrors(ctx, field); err != nil {
		return err
	}
	return r.showStatus(ctx)
}

func (r *Renderer) promptNumber(ctx context.Context, message string, kind forms.Kind, value any, nullable bool) (any, error) {
	for {
		text, err := r.driver.Input(ctx, InputConfig{Message: message, Default: stringValue(value)})
		if err != nil {
			return nil, err
		}
		text = r.sanitize(text)
		if text == "" && nullable {
			return nil, nil
		}
		if kind == forms.KindInteger {
			if n, err := strconv.Atoi(text); err == nil {
				return n, nil
			}
		} else if n, err := strconv.ParseFloat(text, 64); err == nil {
			return n, nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+"Please enter a number."); err != nil {
			return nil, err
		}
	}
}

func (r *Renderer) showErrors(ctx context.Context, c forms.Control) error {
	var (
		label string
		errs  forms.Errors
	)
	r.locked(func() {
		label = c.Label()
		errs = c.Errors()
	})
	for _, failure := range errs {
		line := r.theme.ErrorPrefix + label + " " + r.describe(failure)
		if err := r.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) showStatus(ctx context.Context) error {
	if r.status == nil {
		return nil
	}
	if msg := r.status(); msg != "" {
		return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
	}
	return nil
}

// report lists every control that still reports failures.
func (r *Renderer) report(ctx context.Context, root *forms.Group) error {
	var lines []string
	r.locked(func() {
		for _, c := range invalidControls(root) {
			for _, failure := range c.Errors() {
				lines = append(lines, r.theme.ErrorPrefix+c.Label()+" "+r.describe(failure))
			}
		}
	})
	for _, line := range lines {
		if err := r.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// invalidFields returns the fields to prompt again: fields with their own
// failures, and every field of a group whose own validators fail.
func (r *Renderer) invalidFields(root *forms.Group) []*forms.Field {
	var out []*forms.Field
	seen := make(map[*forms.Field]bool)
	add := func(f *forms.Field) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	r.locked(func() {
		for _, c := range invalidControls(root) {
			switch node := c.(type) {
			case *forms.Field:
				add(node)
			case *forms.Group:
				for _, f := range fieldsOf(node) {
					add(f)
				}
			}
		}
	})
	return out
}

func (r *Renderer) describe(failure forms.Failure) string {
	text, ok := r.errorText[failure.Key]
	if !ok {
		return "is invalid (" + failure.Key + ")"
	}
	for name, value := range failure.Params {
		text = strings.ReplaceAll(text, "{"+name+"}", fmt.Sprint(value))
	}
	return text
}

func (r *Renderer) locked(fn func()) {
	r.locker.Lock()
	defer r.locker.Unlock()
	fn()
}

func invalidControls(group *forms.Group) []forms.Control {
	var out []forms.Control
	for _, child := range group.Controls() {
		if len(child.Errors()) > 0 {
			out = append(out, child)
		}
		if nested, ok := child.(*forms.Group); ok {
			out = append(out, invalidControls(nested)...)
		}
	}
	return out
}

func fieldsOf(group *forms.Group) []*forms.Field {
	var out []*forms.Field
	for _, child := range group.Controls() {
		switch node := child.(type) {
		case *forms.Field:
			out = append(out, node)
		case *forms.Group:
			out = append(out, fieldsOf(node)...)
		}
	}
	return out
}

func stringValue(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
