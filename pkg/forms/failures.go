package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Failure is a single validator failure. Key identifies the validator
// ("required", "minlength", "match", ...) and Params carries optional detail
// such as the required length.
type Failure struct {
	Key    string         `json:"key"`
	Params map[string]any `json:"params,omitempty"`
}

// Errors lists validator failures in the order they were reported. A nil or
// empty value means the control passed validation.
type Errors []Failure

// Fail returns Errors holding a single failure without params.
func Fail(key string) Errors {
	return Errors{{Key: key}}
}

// FailWith returns Errors holding a single failure with params.
func FailWith(key string, params map[string]any) Errors {
	return Errors{{Key: key, Params: params}}
}

// Has reports whether a failure with the given key is present.
func (e Errors) Has(key string) bool {
	_, ok := e.Get(key)
	return ok
}

// Get returns the failure recorded under key.
func (e Errors) Get(key string) (Failure, bool) {
	for _, failure := range e {
		if failure.Key == key {
			return failure, true
		}
	}
	return Failure{}, false
}

// Keys returns the failure keys in reporting order.
func (e Errors) Keys() []string {
	if len(e) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e))
	for _, failure := range e {
		keys = append(keys, failure.Key)
	}
	return keys
}

// Merge combines two failure lists. A key reported again keeps its original
// position and takes the newer params.
func (e Errors) Merge(other Errors) Errors {
	if len(other) == 0 {
		return e
	}
	out := make(Errors, len(e), len(e)+len(other))
	copy(out, e)
	for _, failure := range other {
		replaced := false
		for idx := range out {
			if out[idx].Key == failure.Key {
				out[idx].Params = failure.Params
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, failure)
		}
	}
	return out
}

// MarshalJSON renders the failures as an object keyed by failure key, in
// reporting order. Failures without params encode as true.
func (e Errors) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, failure := range e {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(failure.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var detail any = true
		if len(failure.Params) > 0 {
			detail = failure.Params
		}
		value, err := json.Marshal(detail)
		if err != nil {
			return nil, fmt.Errorf("forms: marshal failure %q: %w", failure.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
