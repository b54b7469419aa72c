package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Group aggregates named child controls in declaration order. Its value is a
// map of child values and it is valid only when its own validators pass and
// every child is valid.
type Group struct {
	control
	children []Control
	index    map[string]Control
	value    map[string]any
}

// NewGroup creates a group over the given children. Duplicate or empty child
// names are programmer errors and panic.
func NewGroup(name string, children []Control, validators ...ValidatorFunc) *Group {
	g := &Group{
		index: make(map[string]Control, len(children)),
	}
	g.self = g
	g.name = name
	g.kind = KindGroup
	g.validators = compact(validators)

	for _, child := range children {
		if child == nil {
			continue
		}
		childName := child.Name()
		if strings.TrimSpace(childName) == "" {
			panic("forms: group child name is required")
		}
		if _, exists := g.index[childName]; exists {
			panic(fmt.Sprintf("forms: duplicate control %q in group %q", childName, name))
		}
		child.base().parent = g
		g.children = append(g.children, child)
		g.index[childName] = child
	}

	g.UpdateValueAndValidity(OnlySelf(), WithoutEvent())
	return g
}

// Value returns the aggregated value as map[string]any.
func (g *Group) Value() any {
	return g.Values()
}

// Values returns a copy of the aggregated value map.
func (g *Group) Values() map[string]any {
	return maps.Clone(g.value)
}

// Controls returns the children in declaration order.
func (g *Group) Controls() []Control {
	return slices.Clone(g.children)
}

// Control returns the direct child with the given name, or nil.
func (g *Group) Control(name string) Control {
	return g.index[name]
}

// Get resolves a dotted path ("emailGroup.email") relative to the group.
// It returns nil when any segment is missing.
func (g *Group) Get(path string) Control {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	var current Control = g
	for _, segment := range strings.Split(path, ".") {
		group, ok := current.(*Group)
		if !ok {
			return nil
		}
		current = group.Control(segment)
		if current == nil {
			return nil
		}
	}
	return current
}

// Field resolves a dotted path to a field, or nil when the path is missing
// or points at a group.
func (g *Group) Field(path string) *Field {
	field, _ := g.Get(path).(*Field)
	return field
}

// Group resolves a dotted path to a nested group, or nil.
func (g *Group) Group(path string) *Group {
	group, _ := g.Get(path).(*Group)
	return group
}

// SetValue writes every child. The map must hold a value for each child and
// no unknown keys; nested groups expect map[string]any values. The whole
// tree is checked first, so on error nothing has been written.
func (g *Group) SetValue(values map[string]any, opts ...UpdateOption) error {
	if err := g.checkValues(values); err != nil {
		return err
	}
	g.writeValues(values, opts)
	return nil
}

func (g *Group) checkValues(values map[string]any) error {
	for key := range values {
		if _, ok := g.index[key]; !ok {
			return fmt.Errorf("%w %q in group %q", ErrUnknownControl, key, g.Path())
		}
	}
	for _, child := range g.children {
		value, ok := values[child.Name()]
		if !ok {
			return fmt.Errorf("%w for %q", ErrMissingValue, child.Path())
		}
		nested, isGroup := child.(*Group)
		if !isGroup {
			continue
		}
		object, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: group %q expects an object value", ErrInvalidValue, child.Path())
		}
		if err := nested.checkValues(object); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) writeValues(values map[string]any, opts []UpdateOption) {
	childOpts := append(slices.Clone(opts), OnlySelf())
	for _, child := range g.children {
		switch node := child.(type) {
		case *Field:
			node.SetValue(values[child.Name()], childOpts...)
		case *Group:
			node.writeValues(values[child.Name()].(map[string]any), childOpts)
		}
	}
	g.UpdateValueAndValidity(opts...)
}

// PatchValue writes only the children present in values. Unknown keys and
// non-object values for nested groups are ignored.
func (g *Group) PatchValue(values map[string]any, opts ...UpdateOption) {
	childOpts := append(slices.Clone(opts), OnlySelf())
	for _, child := range g.children {
		value, ok := values[child.Name()]
		if !ok {
			continue
		}
		switch node := child.(type) {
		case *Field:
			node.PatchValue(value, childOpts...)
		case *Group:
			if nested, ok := value.(map[string]any); ok {
				node.PatchValue(nested, childOpts...)
			}
		}
	}
	g.UpdateValueAndValidity(opts...)
}

// Reset restores every descendant to its initial value and clears the
// interaction flags.
func (g *Group) Reset(opts ...UpdateOption) {
	o := newUpdateOptions(opts)
	childOpts := append(slices.Clone(opts), OnlySelf())
	for _, child := range g.children {
		child.Reset(childOpts...)
	}
	g.markPristine(o.onlySelf)
	g.markUntouched(o.onlySelf)
	g.UpdateValueAndValidity(opts...)
}

// MarkAllAsTouched flags the group and every descendant as touched.
func (g *Group) MarkAllAsTouched() {
	g.MarkAsTouched()
	for _, child := range g.children {
		if nested, ok := child.(*Group); ok {
			nested.MarkAllAsTouched()
			continue
		}
		child.MarkAsTouched()
	}
}

// MarshalJSON serialises the value tree preserving declaration order.
func (g *Group) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, child := range g.children {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(child.Name())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var value []byte
		if nested, ok := child.(*Group); ok {
			value, err = nested.MarshalJSON()
		} else {
			value, err = json.Marshal(child.Value())
		}
		if err != nil {
			return nil, fmt.Errorf("forms: marshal %s: %w", child.Path(), err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (g *Group) syncValue() {
	value := make(map[string]any, len(g.children))
	for _, child := range g.children {
		value[child.Name()] = child.Value()
	}
	g.value = value
}

func (g *Group) childControls() []Control {
	return g.children
}

// CollectErrors walks the tree and returns the failures of every control that
// reports its own errors, keyed by dotted path. The root group is keyed by
// its name.
func CollectErrors(root *Group) map[string]Errors {
	out := make(map[string]Errors)
	var walk func(Control)
	walk = func(c Control) {
		if errs := c.Errors(); len(errs) > 0 {
			out[c.Path()] = errs
		}
		for _, child := range c.childControls() {
			walk(child)
		}
	}
	if root != nil {
		walk(root)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
