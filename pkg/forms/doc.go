// Package forms implements a small reactive form-state engine.
//
// A form is a tree of controls: *Field leaves hold a value and *Group nodes
// aggregate named children in declaration order. Every control carries an
// ordered validator set, a validity status and interaction flags
// (touched/dirty; pristine is !dirty). Value updates re-run validators on the
// updated control and on each ancestor, then notify ValueChanges subscribers
// synchronously in subscription order.
//
// Trees are usually declared with a Spec, either in Go or in YAML via
// LoadSpec, and built with Build against a Registry of named rules:
//
//	spec, err := forms.LoadSpec(data)
//	form, err := forms.Build(spec, forms.NewRegistry())
//	form.Field("emailGroup.email").Input("jack@example.com")
//
// The engine is not safe for concurrent use. Callers that mutate a tree from
// more than one goroutine must serialise access themselves.
package forms
