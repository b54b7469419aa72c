// Package openapi describes form trees as OpenAPI 3 schemas so submitted
// values can be documented and checked by other services.
package openapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-customerform/pkg/forms"
)

// SchemaFor returns the object schema matching root's value. Rule metadata is
// mapped where OpenAPI has an equivalent: required, minLength, maxLength,
// email (format), pattern, and numeric min/max params. Controls whose
// validators were attached in code only are described by kind.
func SchemaFor(root *forms.Group) *openapi3.Schema {
	if root == nil {
		return openapi3.NewObjectSchema()
	}
	return groupSchema(root)
}

// ValidateValue checks value against schema. The value is normalised through
// JSON first so Go numeric types compare like decoded payloads.
func ValidateValue(schema *openapi3.Schema, value any) error {
	if schema == nil {
		return fmt.Errorf("openapi: schema is nil")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("openapi: encode value: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("openapi: decode value: %w", err)
	}
	if err := schema.VisitJSON(decoded, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("openapi: value does not match schema: %w", err)
	}
	return nil
}

func groupSchema(group *forms.Group) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	if label := group.Label(); label != group.Name() {
		schema.Title = label
	}
	for _, child := range group.Controls() {
		var childSchema *openapi3.Schema
		switch node := child.(type) {
		case *forms.Group:
			childSchema = groupSchema(node)
		case *forms.Field:
			childSchema = fieldSchema(node)
		default:
			continue
		}
		schema.WithProperty(child.Name(), childSchema)
		if hasRule(child, forms.RuleRequired) {
			schema.Required = append(schema.Required, child.Name())
		}
	}
	return schema
}

func fieldSchema(field *forms.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Kind() {
	case forms.KindBoolean:
		schema = openapi3.NewBoolSchema()
	case forms.KindInteger:
		schema = openapi3.NewIntegerSchema()
	case forms.KindNumber:
		schema = openapi3.NewFloat64Schema()
	default:
		schema = openapi3.NewStringSchema()
	}

	if label := field.Label(); label != field.Name() {
		schema.Title = label
	}
	if field.Value() != nil {
		schema.Default = field.Value()
	}
	if field.Nullable() {
		schema.WithNullable()
	}
	if options := field.Options(); len(options) > 0 {
		values := make([]any, 0, len(options))
		for _, option := range options {
			values = append(values, option)
		}
		schema.WithEnum(values...)
	}

	for _, rule := range field.Rules() {
		applyRule(schema, field.Kind(), rule)
	}
	return schema
}

func applyRule(schema *openapi3.Schema, kind forms.Kind, rule forms.Rule) {
	switch rule.Kind {
	case forms.RuleRequired:
		if kind == forms.KindString {
			schema.WithMinLength(1)
		}
	case forms.RuleMinLength:
		if n, ok := intParam(rule.Params, "value"); ok {
			schema.WithMinLength(n)
		}
	case forms.RuleMaxLength:
		if n, ok := intParam(rule.Params, "value"); ok {
			schema.WithMaxLength(n)
		}
	case forms.RuleEmail:
		schema.WithFormat("email")
	case forms.RulePattern:
		if expr := strings.TrimSpace(rule.Params["pattern"]); expr != "" {
			schema.WithPattern("^(?:" + strings.TrimSuffix(strings.TrimPrefix(expr, "^"), "$") + ")$")
		}
	default:
		if kind != forms.KindNumber && kind != forms.KindInteger {
			return
		}
		if n, ok := floatParam(rule.Params, "min"); ok {
			schema.WithMin(n)
		}
		if n, ok := floatParam(rule.Params, "max"); ok {
			schema.WithMax(n)
		}
	}
}

func hasRule(c forms.Control, kind string) bool {
	for _, rule := range c.Rules() {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}

func intParam(params map[string]string, key string) (int64, bool) {
	raw := strings.TrimSpace(params[key])
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	return n, err == nil
}

func floatParam(params map[string]string, key string) (float64, bool) {
	raw := strings.TrimSpace(params[key])
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	return n, err == nil
}
