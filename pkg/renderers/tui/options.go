package tui

import (
	"html"
	"maps"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// Sanitizer cleans raw text typed by the user before it reaches the form.
type Sanitizer func(string) string

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithLocker guards every read and write of the form tree. Use it when
// another goroutine observes the same form.
func WithLocker(locker sync.Locker) Option {
	return func(r *Renderer) {
		if locker != nil {
			r.locker = locker
		}
	}
}

// WithStatus registers a callback polled after each answer and again before
// each review round; a non-empty result is shown as an info line. The callback
// runs without the locker held. A source updated asynchronously, such as a
// debounced message, may still report its previous value when polled.
func WithStatus(fn func() string) Option {
	return func(r *Renderer) {
		r.status = fn
	}
}

// WithSanitizer replaces the default input sanitizer.
func WithSanitizer(fn Sanitizer) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.sanitize = fn
		}
	}
}

// WithErrorText adds or overrides the text shown for failure keys. Text may
// reference failure params as {param}.
func WithErrorText(text map[string]string) Option {
	return func(r *Renderer) {
		maps.Copy(r.errorText, text)
	}
}

// WithReviewRounds caps how many times invalid controls are offered for
// correction after the first pass. Zero disables the review.
func WithReviewRounds(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.reviewRounds = n
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// StrictSanitizer strips every HTML tag from s and trims surrounding space.
// Entities are decoded back so "&" stays "&".
func StrictSanitizer() Sanitizer {
	policy := bluemonday.StrictPolicy()
	return func(s string) string {
		return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
	}
}

func defaultErrorText() map[string]string {
	return map[string]string{
		"required":  "is required",
		"minlength": "must be at least {requiredLength} characters",
		"maxlength": "must be at most {requiredLength} characters",
		"email":     "must be a valid email address",
		"pattern":   "has an invalid format",
	}
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}
