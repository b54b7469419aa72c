// Package testsupport holds helpers shared by package tests: building forms
// from inline YAML specs and decoding structured log output.
package testsupport

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/goliatone/go-customerform/pkg/forms"
)

// MustBuildForm loads an inline YAML spec and builds it. A nil registry uses
// the built-in rules. Failures end the test.
func MustBuildForm(t *testing.T, spec string, registry *forms.Registry) *forms.Group {
	t.Helper()

	parsed, err := forms.LoadSpec([]byte(spec))
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	form, err := forms.Build(parsed, registry)
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	return form
}

// DecodeJSONLines decodes a stream of JSON objects, such as the output of a
// JSON slog handler, one record per object.
func DecodeJSONLines(t *testing.T, r io.Reader) []map[string]any {
	t.Helper()

	var records []map[string]any
	dec := json.NewDecoder(r)
	for dec.More() {
		var record map[string]any
		if err := dec.Decode(&record); err != nil {
			t.Fatalf("decode record: %v", err)
		}
		records = append(records, record)
	}
	return records
}
