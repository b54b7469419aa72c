package forms

import (
	"slices"
	"strings"
)

// Control is implemented by *Field and *Group.
type Control interface {
	Name() string
	// Path is the dotted path from the root group ("emailGroup.email").
	Path() string
	Parent() *Group
	Kind() Kind
	Label() string
	// Rules returns the declarative rules the control was built from.
	Rules() []Rule
	Value() any

	Errors() Errors
	Status() Status
	Valid() bool
	Invalid() bool

	Pristine() bool
	Dirty() bool
	Touched() bool
	Untouched() bool
	MarkAsTouched()
	MarkAsUntouched()
	MarkAsDirty()
	MarkAsPristine()

	Validators() []ValidatorFunc
	SetValidators(validators ...ValidatorFunc)
	AddValidators(validators ...ValidatorFunc)
	ClearValidators()
	UpdateValueAndValidity(opts ...UpdateOption)

	ValueChanges(fn func(any)) Subscription
	StatusChanges(fn func(Status)) Subscription

	Reset(opts ...UpdateOption)

	base() *control
	syncValue()
	childControls() []Control
}

// control holds the state shared by fields and groups. self points back at
// the concrete control so shared code can reach overridden behaviour.
type control struct {
	self       Control
	name       string
	kind       Kind
	label      string
	rules      []Rule
	parent     *Group
	validators []ValidatorFunc
	errors     Errors
	status     Status
	dirty      bool
	touched    bool

	valueChanges  emitter[any]
	statusChanges emitter[Status]
}

func (c *control) base() *control {
	return c
}

func (c *control) Name() string {
	return c.name
}

func (c *control) Path() string {
	if c.parent == nil {
		return c.name
	}
	var segments []string
	for node := c; node.parent != nil; node = &node.parent.control {
		segments = append(segments, node.name)
	}
	slices.Reverse(segments)
	return strings.Join(segments, ".")
}

func (c *control) Parent() *Group {
	return c.parent
}

func (c *control) Kind() Kind {
	return c.kind
}

func (c *control) Label() string {
	if c.label != "" {
		return c.label
	}
	return c.name
}

func (c *control) Rules() []Rule {
	return slices.Clone(c.rules)
}

func (c *control) Errors() Errors {
	return c.errors
}

func (c *control) Status() Status {
	return c.status
}

func (c *control) Valid() bool {
	return c.status == StatusValid
}

func (c *control) Invalid() bool {
	return c.status == StatusInvalid
}

func (c *control) Pristine() bool {
	return !c.dirty
}

func (c *control) Dirty() bool {
	return c.dirty
}

func (c *control) Touched() bool {
	return c.touched
}

func (c *control) Untouched() bool {
	return !c.touched
}

// MarkAsTouched flags the control and its ancestors as touched.
func (c *control) MarkAsTouched() {
	c.touched = true
	if c.parent != nil {
		c.parent.MarkAsTouched()
	}
}

// MarkAsUntouched clears the touched flag on the control and its
// descendants; ancestors stay touched while any other child is.
func (c *control) MarkAsUntouched() {
	c.markUntouched(false)
}

func (c *control) markUntouched(onlySelf bool) {
	c.touched = false
	for _, child := range c.self.childControls() {
		child.base().markUntouched(true)
	}
	if c.parent != nil && !onlySelf {
		c.parent.updateTouched()
	}
}

func (c *control) updateTouched() {
	c.touched = slices.ContainsFunc(c.self.childControls(), Control.Touched)
	if c.parent != nil {
		c.parent.updateTouched()
	}
}

// MarkAsDirty flags the control and its ancestors as dirty.
func (c *control) MarkAsDirty() {
	c.dirty = true
	if c.parent != nil {
		c.parent.MarkAsDirty()
	}
}

// MarkAsPristine clears the dirty flag on the control and its descendants;
// ancestors stay dirty while any other child is.
func (c *control) MarkAsPristine() {
	c.markPristine(false)
}

func (c *control) markPristine(onlySelf bool) {
	c.dirty = false
	for _, child := range c.self.childControls() {
		child.base().markPristine(true)
	}
	if c.parent != nil && !onlySelf {
		c.parent.updatePristine()
	}
}

func (c *control) updatePristine() {
	c.dirty = slices.ContainsFunc(c.self.childControls(), Control.Dirty)
	if c.parent != nil {
		c.parent.updatePristine()
	}
}

func (c *control) Validators() []ValidatorFunc {
	return slices.Clone(c.validators)
}

// SetValidators replaces the validator set. The new set takes effect on the
// next UpdateValueAndValidity.
func (c *control) SetValidators(validators ...ValidatorFunc) {
	c.validators = compact(validators)
}

// AddValidators appends to the validator set.
func (c *control) AddValidators(validators ...ValidatorFunc) {
	c.validators = append(c.validators, compact(validators)...)
}

// ClearValidators empties the validator set.
func (c *control) ClearValidators() {
	c.validators = nil
}

// UpdateValueAndValidity recomputes the control value (groups), re-runs its
// validators and status, notifies subscribers, then repeats on ancestors
// unless OnlySelf is given.
func (c *control) UpdateValueAndValidity(opts ...UpdateOption) {
	o := newUpdateOptions(opts)

	c.self.syncValue()
	c.errors = c.runValidators()
	c.status = c.calculateStatus()

	if o.emitEvent {
		c.valueChanges.emit(c.self.Value())
		c.statusChanges.emit(c.status)
	}

	if c.parent != nil && !o.onlySelf {
		c.parent.UpdateValueAndValidity(opts...)
	}
}

// ValueChanges registers fn to run after every value update of the control.
func (c *control) ValueChanges(fn func(any)) Subscription {
	return c.valueChanges.subscribe(fn)
}

// StatusChanges registers fn to run after every validity recalculation.
func (c *control) StatusChanges(fn func(Status)) Subscription {
	return c.statusChanges.subscribe(fn)
}

func (c *control) runValidators() Errors {
	var errs Errors
	for _, validate := range c.validators {
		errs = errs.Merge(validate(c.self))
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (c *control) calculateStatus() Status {
	if len(c.errors) > 0 {
		return StatusInvalid
	}
	if slices.ContainsFunc(c.self.childControls(), Control.Invalid) {
		return StatusInvalid
	}
	return StatusValid
}

func compact(validators []ValidatorFunc) []ValidatorFunc {
	out := make([]ValidatorFunc, 0, len(validators))
	for _, validate := range validators {
		if validate != nil {
			out = append(out, validate)
		}
	}
	return out
}
