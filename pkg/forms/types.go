package forms

// Kind is the simplified enum for form-friendly control kinds.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindGroup   Kind = "group"
)

// Status is the validity status of a control.
type Status string

const (
	StatusValid   Status = "VALID"
	StatusInvalid Status = "INVALID"
)

// ValidatorFunc inspects a control and returns the failures it finds, or nil
// when the control is valid. Validators must be pure: they read control state
// and never mutate it.
type ValidatorFunc func(Control) Errors

// UpdateOption tunes how a value or validity update propagates.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	onlySelf  bool
	emitEvent bool
}

// OnlySelf stops the update from bubbling to ancestors.
func OnlySelf() UpdateOption {
	return func(o *updateOptions) {
		o.onlySelf = true
	}
}

// WithoutEvent suppresses ValueChanges and StatusChanges notifications.
func WithoutEvent() UpdateOption {
	return func(o *updateOptions) {
		o.emitEvent = false
	}
}

func newUpdateOptions(opts []UpdateOption) updateOptions {
	o := updateOptions{emitEvent: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
