package forms

import "errors"

var (
	// ErrUnknownRule is returned when a spec references a rule kind the
	// registry cannot resolve.
	ErrUnknownRule = errors.New("forms: unknown rule")
	// ErrInvalidSpec signals a structurally malformed spec (missing names,
	// duplicates, groups without controls).
	ErrInvalidSpec = errors.New("forms: invalid spec")
	// ErrUnknownControl is returned when a value targets a control that is
	// not part of the group.
	ErrUnknownControl = errors.New("forms: unknown control")
	// ErrMissingValue is returned by Group.SetValue when a child has no value
	// in the provided map.
	ErrMissingValue = errors.New("forms: missing value")
	// ErrInvalidValue is returned when a value has the wrong shape for its
	// control, such as a non-object value for a nested group.
	ErrInvalidValue = errors.New("forms: invalid value")
)
