package forms

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleEmail     = "email"
	RulePattern   = "pattern"
)

// RuleFactory turns rule params into a validator.
type RuleFactory func(params map[string]string) (ValidatorFunc, error)

// Registry maps rule kinds to validator factories. The zero value is not
// usable; call NewRegistry.
type Registry struct {
	factories map[string]RuleFactory
}

// NewRegistry returns a registry preloaded with the built-in rules:
// required, minLength, maxLength (param "value"), email and pattern
// (param "pattern", anchored to the full value).
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]RuleFactory)}
	r.Register(RuleRequired, func(map[string]string) (ValidatorFunc, error) {
		return Required, nil
	})
	r.Register(RuleEmail, func(map[string]string) (ValidatorFunc, error) {
		return Email, nil
	})
	r.Register(RuleMinLength, func(params map[string]string) (ValidatorFunc, error) {
		n, err := IntParam(params, "value")
		if err != nil {
			return nil, err
		}
		return MinLength(n), nil
	})
	r.Register(RuleMaxLength, func(params map[string]string) (ValidatorFunc, error) {
		n, err := IntParam(params, "value")
		if err != nil {
			return nil, err
		}
		return MaxLength(n), nil
	})
	r.Register(RulePattern, func(params map[string]string) (ValidatorFunc, error) {
		raw := strings.TrimSpace(params["pattern"])
		if raw == "" {
			return nil, fmt.Errorf("forms: param %q is required", "pattern")
		}
		expr, err := regexp.Compile("^(?:" + strings.TrimSuffix(strings.TrimPrefix(raw, "^"), "$") + ")$")
		if err != nil {
			return nil, fmt.Errorf("forms: compile pattern: %w", err)
		}
		return Pattern(expr), nil
	})
	return r
}

// Register adds or replaces a rule factory.
func (r *Registry) Register(kind string, factory RuleFactory) {
	kind = strings.TrimSpace(kind)
	if kind == "" || factory == nil {
		return
	}
	r.factories[kind] = factory
}

// Kinds lists the registered rule kinds, sorted.
func (r *Registry) Kinds() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Resolve builds the validator for a rule.
func (r *Registry) Resolve(rule Rule) (ValidatorFunc, error) {
	factory, ok := r.factories[rule.Kind]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownRule, rule.Kind, strings.Join(r.Kinds(), ", "))
	}
	validate, err := factory(rule.Params)
	if err != nil {
		return nil, fmt.Errorf("forms: rule %q: %w", rule.Kind, err)
	}
	return validate, nil
}

// IntParam reads an integer rule parameter.
func IntParam(params map[string]string, key string) (int, error) {
	raw := strings.TrimSpace(params[key])
	if raw == "" {
		return 0, fmt.Errorf("forms: param %q is required", key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("forms: param %q: %w", key, err)
	}
	return n, nil
}

// FloatParam reads a numeric rule parameter.
func FloatParam(params map[string]string, key string) (float64, error) {
	raw := strings.TrimSpace(params[key])
	if raw == "" {
		return 0, fmt.Errorf("forms: param %q is required", key)
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("forms: param %q: %w", key, err)
	}
	return n, nil
}
