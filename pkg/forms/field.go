package forms

import "slices"

// Field is a leaf control holding a single value.
type Field struct {
	control
	value    any
	initial  any
	nullable bool
	options  []string
}

// NewField creates a standalone field with an initial value and validators.
// Validity is computed immediately without emitting events.
func NewField(name string, value any, validators ...ValidatorFunc) *Field {
	f := &Field{
		value:   value,
		initial: value,
	}
	f.self = f
	f.name = name
	f.kind = inferKind(value)
	f.validators = compact(validators)
	f.UpdateValueAndValidity(OnlySelf(), WithoutEvent())
	return f
}

// Value returns the current value.
func (f *Field) Value() any {
	return f.value
}

// Nullable reports whether nil is an accepted value for the field.
func (f *Field) Nullable() bool {
	return f.nullable
}

// Options lists the allowed values for choice fields.
func (f *Field) Options() []string {
	return slices.Clone(f.options)
}

// SetValue writes a value programmatically. Interaction flags are untouched.
func (f *Field) SetValue(value any, opts ...UpdateOption) {
	f.value = value
	f.UpdateValueAndValidity(opts...)
}

// PatchValue is SetValue for fields; it exists so fields and groups can be
// patched through the same call shape.
func (f *Field) PatchValue(value any, opts ...UpdateOption) {
	f.SetValue(value, opts...)
}

// Input records a value entered by the user: the field becomes dirty before
// the value is written, so validators observe it as non-pristine.
func (f *Field) Input(value any) {
	f.MarkAsDirty()
	f.SetValue(value)
}

// Blur records that the user left the field.
func (f *Field) Blur() {
	f.MarkAsTouched()
}

// Reset restores the initial value and clears the interaction flags.
func (f *Field) Reset(opts ...UpdateOption) {
	o := newUpdateOptions(opts)
	f.value = f.initial
	f.markPristine(o.onlySelf)
	f.markUntouched(o.onlySelf)
	f.UpdateValueAndValidity(opts...)
}

func (f *Field) syncValue() {}

func (f *Field) childControls() []Control {
	return nil
}

func inferKind(value any) Kind {
	switch value.(type) {
	case bool:
		return KindBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32, float64:
		return KindNumber
	default:
		return KindString
	}
}
