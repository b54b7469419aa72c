package forms

import (
	"reflect"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	formatValidatorOnce sync.Once
	formatValidator     *validator.Validate
)

func formats() *validator.Validate {
	formatValidatorOnce.Do(func() {
		formatValidator = validator.New()
	})
	return formatValidator
}

// Required fails with "required" when the value is nil or has zero length.
func Required(c Control) Errors {
	if isEmptyValue(c.Value()) {
		return Fail("required")
	}
	return nil
}

// MinLength fails with "minlength" when a non-empty string or collection is
// shorter than n. Empty values are left to Required.
func MinLength(n int) ValidatorFunc {
	return func(c Control) Errors {
		value := c.Value()
		if isEmptyValue(value) {
			return nil
		}
		length, ok := lengthOf(value)
		if !ok || length >= n {
			return nil
		}
		return FailWith("minlength", map[string]any{
			"requiredLength": n,
			"actualLength":   length,
		})
	}
}

// MaxLength fails with "maxlength" when a string or collection is longer
// than n.
func MaxLength(n int) ValidatorFunc {
	return func(c Control) Errors {
		length, ok := lengthOf(c.Value())
		if !ok || length <= n {
			return nil
		}
		return FailWith("maxlength", map[string]any{
			"requiredLength": n,
			"actualLength":   length,
		})
	}
}

// Email fails with "email" when a non-empty value is not a well-formed
// address.
func Email(c Control) Errors {
	value := c.Value()
	if isEmptyValue(value) {
		return nil
	}
	text, ok := value.(string)
	if !ok {
		return Fail("email")
	}
	if err := formats().Var(text, "email"); err != nil {
		return Fail("email")
	}
	return nil
}

// Pattern fails with "pattern" when a non-empty string value does not match
// expr. The expression is used as given; anchor it for full-value matches.
func Pattern(expr *regexp.Regexp) ValidatorFunc {
	return func(c Control) Errors {
		value := c.Value()
		if isEmptyValue(value) || expr == nil {
			return nil
		}
		if text, ok := value.(string); ok && expr.MatchString(text) {
			return nil
		}
		return FailWith("pattern", map[string]any{
			"requiredPattern": expr.String(),
			"actualValue":     value,
		})
	}
}

// Compose merges the failures of several validators into one.
func Compose(validators ...ValidatorFunc) ValidatorFunc {
	validators = compact(validators)
	return func(c Control) Errors {
		var errs Errors
		for _, validate := range validators {
			errs = errs.Merge(validate(c))
		}
		return errs
	}
}

func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	length, ok := lengthOf(value)
	return ok && length == 0
}

func lengthOf(value any) (int, bool) {
	if value == nil {
		return 0, false
	}
	if text, ok := value.(string); ok {
		return len([]rune(text)), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}
