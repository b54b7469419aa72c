package customer

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-customerform/pkg/forms"
)

const (
	// FailureMatch is reported by EmailMatcher.
	FailureMatch = "match"
	// FailureRange is reported by RatingRange.
	FailureRange = "range"
)

// EmailMatcher compares the email and confirmEmail children of a group. A
// mismatch is only reported once the user has entered both values.
func EmailMatcher(c forms.Control) forms.Errors {
	group, ok := c.(*forms.Group)
	if !ok {
		return nil
	}
	email := group.Get("email")
	confirm := group.Get("confirmEmail")
	if email == nil || confirm == nil {
		return nil
	}

	if email.Pristine() || confirm.Pristine() {
		return nil
	}
	if email.Value() == confirm.Value() {
		return nil
	}
	return forms.Fail(FailureMatch)
}

// RatingRange returns a validator accepting nil or a number within
// [low, high]. Numeric strings are read as numbers; any other value fails.
func RatingRange(low, high float64) forms.ValidatorFunc {
	return func(c forms.Control) forms.Errors {
		value := c.Value()
		if value == nil {
			return nil
		}
		n, ok := toNumber(value)
		if !ok || n < low || n > high {
			return forms.Fail(FailureRange)
		}
		return nil
	}
}

func toNumber(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case int:
		n = float64(v)
	case int8:
		n = float64(v)
	case int16:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case uint:
		n = float64(v)
	case uint8:
		n = float64(v)
	case uint16:
		n = float64(v)
	case uint32:
		n = float64(v)
	case uint64:
		n = float64(v)
	case float32:
		n = float64(v)
	case float64:
		n = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
