package openapi_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-customerform/pkg/forms"
	"github.com/goliatone/go-customerform/pkg/openapi"
	"github.com/goliatone/go-customerform/pkg/testsupport"
)

const signupSpec = `
name: signup
label: Sign up
controls:
  - name: name
    label: Full Name
    default: ""
    rules:
      - required
      - kind: maxLength
        params: { value: "20" }
  - name: contact
    controls:
      - name: email
        default: ""
        rules: [required, email]
      - name: code
        default: ""
        rules:
          - kind: pattern
            params: { pattern: "[A-Z]{3}" }
  - name: channel
    default: email
    options: [email, text]
  - name: score
    kind: number
    nullable: true
    rules:
      - kind: between
        params: { min: "1", max: "5" }
  - name: subscribe
    default: true
`

func buildSignup(t *testing.T) *forms.Group {
	t.Helper()
	registry := forms.NewRegistry()
	registry.Register("between", func(map[string]string) (forms.ValidatorFunc, error) {
		return func(forms.Control) forms.Errors { return nil }, nil
	})
	return testsupport.MustBuildForm(t, signupSpec, registry)
}

func TestSchemaFor_MapsKindsAndRules(t *testing.T) {
	schema := openapi.SchemaFor(buildSignup(t))

	if !schema.Type.Is("object") {
		t.Fatalf("expected object schema, got %v", schema.Type)
	}
	if diff := cmp.Diff([]string{"name"}, schema.Required); diff != "" {
		t.Fatalf("root required mismatch (-want +got):\n%s", diff)
	}

	name := schema.Properties["name"].Value
	if name.Title != "Full Name" {
		t.Fatalf("expected title from label, got %q", name.Title)
	}
	if name.MinLength != 1 {
		t.Fatalf("expected required string to get minLength 1, got %d", name.MinLength)
	}
	if name.MaxLength == nil || *name.MaxLength != 20 {
		t.Fatalf("expected maxLength 20, got %v", name.MaxLength)
	}

	contact := schema.Properties["contact"].Value
	if diff := cmp.Diff([]string{"email"}, contact.Required); diff != "" {
		t.Fatalf("contact required mismatch (-want +got):\n%s", diff)
	}
	if got := contact.Properties["email"].Value.Format; got != "email" {
		t.Fatalf("expected email format, got %q", got)
	}
	if got := contact.Properties["code"].Value.Pattern; got != "^(?:[A-Z]{3})$" {
		t.Fatalf("expected anchored pattern, got %q", got)
	}

	channel := schema.Properties["channel"].Value
	if diff := cmp.Diff([]any{"email", "text"}, channel.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	if channel.Default != "email" {
		t.Fatalf("expected default email, got %v", channel.Default)
	}

	score := schema.Properties["score"].Value
	if !score.Type.Is("number") || !score.Nullable {
		t.Fatalf("expected nullable number, got %v nullable=%v", score.Type, score.Nullable)
	}
	if score.Min == nil || *score.Min != 1 || score.Max == nil || *score.Max != 5 {
		t.Fatalf("expected min 1 max 5, got %v %v", score.Min, score.Max)
	}

	if !schema.Properties["subscribe"].Value.Type.Is("boolean") {
		t.Fatalf("expected boolean subscribe")
	}
}

func TestValidateValue(t *testing.T) {
	form := buildSignup(t)
	schema := openapi.SchemaFor(form)

	form.Field("name").Input("Jack")
	form.Field("contact.email").Input("jack@example.com")
	form.Field("contact.code").Input("ABC")
	if err := openapi.ValidateValue(schema, form.Values()); err != nil {
		t.Fatalf("expected value to match schema: %v", err)
	}

	form.Field("score").Input(9)
	if err := openapi.ValidateValue(schema, form.Values()); err == nil {
		t.Fatalf("expected score above max to fail")
	}

	form.Field("score").Input(nil)
	form.Field("channel").Input("pigeon")
	if err := openapi.ValidateValue(schema, form.Values()); err == nil {
		t.Fatalf("expected unknown option to fail")
	}

	if err := openapi.ValidateValue(nil, form.Values()); err == nil {
		t.Fatalf("expected error for nil schema")
	}
}

func TestNewDocument_RoundTrip(t *testing.T) {
	ctx := context.Background()
	form := buildSignup(t)

	doc, err := openapi.NewDocument(ctx, form, openapi.WithVersion("2.0.0"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if doc.Info.Title != "Sign up" || doc.Info.Version != "2.0.0" {
		t.Fatalf("unexpected info: %+v", doc.Info)
	}
	if doc.Paths.Find("/signups") == nil {
		t.Fatalf("expected /signups path")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := openapi.ParseDocument(ctx, raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	body := openapi.RequestSchema(parsed, "saveSignup")
	if body == nil {
		t.Fatalf("expected request schema for saveSignup")
	}
	if _, ok := body.Properties["contact"]; !ok {
		t.Fatalf("expected contact property in parsed schema")
	}
	if openapi.RequestSchema(parsed, "missing") != nil {
		t.Fatalf("expected nil schema for unknown operation")
	}
}

func TestNewDocument_Options(t *testing.T) {
	ctx := context.Background()
	doc, err := openapi.NewDocument(ctx, buildSignup(t),
		openapi.WithTitle("Signups API"),
		openapi.WithOperation("v2/signups", "createSignup"),
		openapi.WithSchemaName("SignupPayload"),
		openapi.WithVersion("  "),
	)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if doc.Info.Title != "Signups API" || doc.Info.Version != "1.0.0" {
		t.Fatalf("unexpected info: %+v", doc.Info)
	}
	if doc.Paths.Find("/v2/signups") == nil || doc.Paths.Find("/signups") != nil {
		t.Fatalf("expected only /v2/signups, got %v", doc.Paths.InMatchingOrder())
	}
	if _, ok := doc.Components.Schemas["SignupPayload"]; !ok {
		t.Fatalf("expected SignupPayload component, got %v", doc.Components.Schemas)
	}
	if openapi.RequestSchema(doc, "createSignup") == nil {
		t.Fatalf("expected request schema for createSignup")
	}

	doc, err = openapi.NewDocument(ctx, buildSignup(t), openapi.WithOperation("", ""))
	if err != nil {
		t.Fatalf("new document with empty operation: %v", err)
	}
	if openapi.RequestSchema(doc, "saveSignup") == nil || doc.Paths.Find("/signups") == nil {
		t.Fatalf("empty operation values should keep the defaults")
	}
}

func TestParseDocument_Empty(t *testing.T) {
	if _, err := openapi.ParseDocument(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}
