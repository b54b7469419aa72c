package customer

import (
	_ "embed"
	"fmt"

	"github.com/goliatone/go-customerform/pkg/forms"
)

const (
	RuleEmailMatch  = "emailMatch"
	RuleRatingRange = "ratingRange"
)

//go:embed customer.yaml
var specYAML []byte

// Registry returns the built-in rules plus emailMatch and ratingRange
// (params "min" and "max").
func Registry() *forms.Registry {
	registry := forms.NewRegistry()
	registry.Register(RuleEmailMatch, func(map[string]string) (forms.ValidatorFunc, error) {
		return EmailMatcher, nil
	})
	registry.Register(RuleRatingRange, func(params map[string]string) (forms.ValidatorFunc, error) {
		low, err := forms.FloatParam(params, "min")
		if err != nil {
			return nil, err
		}
		high, err := forms.FloatParam(params, "max")
		if err != nil {
			return nil, err
		}
		if low > high {
			return nil, fmt.Errorf("customer: rating range min %v exceeds max %v", low, high)
		}
		return RatingRange(low, high), nil
	})
	return registry
}

// Spec returns the customer form spec.
func Spec() (forms.Spec, error) {
	spec, err := forms.LoadSpec(specYAML)
	if err != nil {
		return forms.Spec{}, fmt.Errorf("customer: load spec: %w", err)
	}
	return spec, nil
}

// NewControls builds a fresh customer form tree.
func NewControls() (*forms.Group, error) {
	spec, err := Spec()
	if err != nil {
		return nil, err
	}
	controls, err := forms.Build(spec, Registry())
	if err != nil {
		return nil, fmt.Errorf("customer: build form: %w", err)
	}
	return controls, nil
}
