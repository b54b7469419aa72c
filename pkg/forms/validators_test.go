package forms_test

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-customerform/pkg/forms"
)

func TestValidators(t *testing.T) {
	cases := []struct {
		name      string
		validator forms.ValidatorFunc
		value     any
		want      []string
	}{
		{name: "required nil", validator: forms.Required, value: nil, want: []string{"required"}},
		{name: "required empty string", validator: forms.Required, value: "", want: []string{"required"}},
		{name: "required empty slice", validator: forms.Required, value: []string{}, want: []string{"required"}},
		{name: "required false is a value", validator: forms.Required, value: false},
		{name: "required set", validator: forms.Required, value: "x"},
		{name: "minlength empty passes", validator: forms.MinLength(3), value: ""},
		{name: "minlength short", validator: forms.MinLength(3), value: "Jo", want: []string{"minlength"}},
		{name: "minlength counts runes", validator: forms.MinLength(3), value: "Zoë"},
		{name: "maxlength long", validator: forms.MaxLength(2), value: "abc", want: []string{"maxlength"}},
		{name: "maxlength ignores numbers", validator: forms.MaxLength(2), value: 12345},
		{name: "email empty passes", validator: forms.Email, value: ""},
		{name: "email valid", validator: forms.Email, value: "jack@example.com"},
		{name: "email invalid", validator: forms.Email, value: "jack.example.com", want: []string{"email"}},
		{name: "email non string", validator: forms.Email, value: 42, want: []string{"email"}},
		{name: "pattern match", validator: forms.Pattern(regexp.MustCompile(`^\d{3}$`)), value: "123"},
		{name: "pattern mismatch", validator: forms.Pattern(regexp.MustCompile(`^\d{3}$`)), value: "12a", want: []string{"pattern"}},
		{
			name:      "compose keeps order",
			validator: forms.Compose(forms.Required, forms.MinLength(3)),
			value:     "ab",
			want:      []string{"minlength"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field := forms.NewField("subject", tc.value)
			got := tc.validator(field).Keys()
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("failure keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMinLengthParams(t *testing.T) {
	field := forms.NewField("firstName", "Jo")
	failure, ok := forms.MinLength(3)(field).Get("minlength")
	if !ok {
		t.Fatalf("expected minlength failure")
	}
	want := map[string]any{"requiredLength": 3, "actualLength": 2}
	if diff := cmp.Diff(want, failure.Params); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsMergeKeepsFirstPosition(t *testing.T) {
	errs := forms.Errors{{Key: "required"}, {Key: "email"}}
	merged := errs.Merge(forms.Errors{{Key: "required", Params: map[string]any{"again": true}}, {Key: "match"}})

	if diff := cmp.Diff([]string{"required", "email", "match"}, merged.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if len(errs[0].Params) != 0 {
		t.Fatalf("merge must not mutate the receiver")
	}
}

func TestErrorsMarshalJSON(t *testing.T) {
	errs := forms.Errors{{Key: "required"}, {Key: "minlength", Params: map[string]any{"requiredLength": 3}}}
	got, err := errs.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"required":true,"minlength":{"requiredLength":3}}`
	if string(got) != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestSetValidatorsTakesEffectOnUpdate(t *testing.T) {
	phone := forms.NewField("phone", "")
	if !phone.Valid() {
		t.Fatalf("phone without validators should be valid")
	}

	phone.SetValidators(forms.Required)
	if !phone.Valid() {
		t.Fatalf("new validators apply only after UpdateValueAndValidity")
	}
	phone.UpdateValueAndValidity()
	if !phone.Errors().Has("required") {
		t.Fatalf("expected required failure, got %v", phone.Errors().Keys())
	}

	phone.ClearValidators()
	phone.UpdateValueAndValidity()
	if !phone.Valid() {
		t.Fatalf("expected valid after clearing validators")
	}
}
