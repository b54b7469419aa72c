package forms

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule references a registered validator by kind. Params carry thresholds
// encoded as strings (for example Params["value"] for length limits) so YAML
// and JSON snapshots stay stable.
type Rule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// UnmarshalYAML accepts either a bare kind ("required") or a mapping with
// kind and params.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = Rule{Kind: strings.TrimSpace(node.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Kind   string            `yaml:"kind"`
			Params map[string]string `yaml:"params"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		*r = Rule{Kind: strings.TrimSpace(raw.Kind), Params: raw.Params}
		return nil
	default:
		return fmt.Errorf("forms: rule must be a string or mapping (line %d)", node.Line)
	}
}

// Spec declares a form tree.
type Spec struct {
	Name     string        `json:"name" yaml:"name"`
	Label    string        `json:"label,omitempty" yaml:"label,omitempty"`
	Controls []ControlSpec `json:"controls" yaml:"controls"`
	// Rules attach to the root group.
	Rules []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// ControlSpec declares a field, or a nested group when Controls is set.
type ControlSpec struct {
	Name     string   `json:"name" yaml:"name"`
	Kind     Kind     `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Default  any      `json:"default,omitempty" yaml:"default,omitempty"`
	Nullable bool     `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Rules    []Rule   `json:"rules,omitempty" yaml:"rules,omitempty"`
	// Validators are appended after the resolved Rules. They cannot be
	// expressed in YAML.
	Validators []ValidatorFunc `json:"-" yaml:"-"`
	Controls   []ControlSpec   `json:"controls,omitempty" yaml:"controls,omitempty"`
}

// LoadSpec decodes a YAML form spec. Unknown keys are rejected.
func LoadSpec(data []byte) (Spec, error) {
	var spec Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return Spec{}, fmt.Errorf("%w: empty document", ErrInvalidSpec)
		}
		return Spec{}, fmt.Errorf("forms: decode spec: %w", err)
	}
	return spec, nil
}

// Build constructs the form tree described by spec. A nil registry uses
// NewRegistry.
func Build(spec Spec, registry *Registry) (*Group, error) {
	if registry == nil {
		registry = NewRegistry()
	}
	children, err := buildControls(spec.Controls, spec.Name, registry)
	if err != nil {
		return nil, err
	}
	validators, err := resolveRules(spec.Rules, spec.Name, registry)
	if err != nil {
		return nil, err
	}
	root := NewGroup(spec.Name, children, validators...)
	root.label = spec.Label
	root.rules = spec.Rules
	return root, nil
}

// MustBuild is Build for specs known at compile time; it panics on error.
func MustBuild(spec Spec, registry *Registry) *Group {
	root, err := Build(spec, registry)
	if err != nil {
		panic(err)
	}
	return root
}

func buildControls(specs []ControlSpec, parent string, registry *Registry) ([]Control, error) {
	seen := make(map[string]struct{}, len(specs))
	out := make([]Control, 0, len(specs))
	for _, cs := range specs {
		name := strings.TrimSpace(cs.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: control without name in %q", ErrInvalidSpec, parent)
		}
		if strings.Contains(name, ".") {
			return nil, fmt.Errorf("%w: control name %q must not contain dots", ErrInvalidSpec, name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate control %q in %q", ErrInvalidSpec, name, parent)
		}
		seen[name] = struct{}{}

		path := joinPath(parent, name)
		built, err := buildControl(cs, name, path, registry)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func buildControl(cs ControlSpec, name, path string, registry *Registry) (Control, error) {
	built, err := buildNode(cs, name, path, registry)
	if err != nil {
		return nil, err
	}
	if extra := compact(cs.Validators); len(extra) > 0 {
		built.AddValidators(Compose(extra...))
		built.UpdateValueAndValidity(OnlySelf(), WithoutEvent())
	}
	return built, nil
}

func buildNode(cs ControlSpec, name, path string, registry *Registry) (Control, error) {
	validators, err := resolveRules(cs.Rules, path, registry)
	if err != nil {
		return nil, err
	}

	if cs.Kind == KindGroup || len(cs.Controls) > 0 {
		if len(cs.Controls) == 0 {
			return nil, fmt.Errorf("%w: group %q has no controls", ErrInvalidSpec, path)
		}
		children, err := buildControls(cs.Controls, path, registry)
		if err != nil {
			return nil, err
		}
		group := NewGroup(name, children, validators...)
		group.label = cs.Label
		group.rules = cs.Rules
		return group, nil
	}

	field := NewField(name, cs.Default, validators...)
	if cs.Kind != "" {
		field.kind = cs.Kind
	}
	field.label = cs.Label
	field.rules = cs.Rules
	field.nullable = cs.Nullable || cs.Default == nil
	field.options = cs.Options
	return field, nil
}

func resolveRules(rules []Rule, path string, registry *Registry) ([]ValidatorFunc, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	out := make([]ValidatorFunc, 0, len(rules))
	for _, rule := range rules {
		validate, err := registry.Resolve(rule)
		if err != nil {
			return nil, fmt.Errorf("forms: control %q: %w", path, err)
		}
		out = append(out, validate)
	}
	return out, nil
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
