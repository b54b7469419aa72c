package forms

import (
	"slices"
	"sync"
)

// Subscription is a handle on a registered listener.
type Subscription interface {
	// Unsubscribe removes the listener. Calling it more than once is a no-op.
	Unsubscribe()
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

type listener[T any] struct {
	id int
	fn func(T)
}

// emitter fans a value out to listeners in subscription order.
type emitter[T any] struct {
	nextID    int
	listeners []listener[T]
}

func (e *emitter[T]) subscribe(fn func(T)) Subscription {
	if fn == nil {
		return &subscription{cancel: func() {}}
	}
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})
	return &subscription{cancel: func() { e.remove(id) }}
}

func (e *emitter[T]) remove(id int) {
	e.listeners = slices.DeleteFunc(e.listeners, func(l listener[T]) bool {
		return l.id == id
	})
}

func (e *emitter[T]) active(id int) bool {
	return slices.ContainsFunc(e.listeners, func(l listener[T]) bool {
		return l.id == id
	})
}

func (e *emitter[T]) emit(value T) {
	if len(e.listeners) == 0 {
		return
	}
	// Listeners may unsubscribe themselves or others while we iterate.
	snapshot := slices.Clone(e.listeners)
	for _, l := range snapshot {
		if !e.active(l.id) {
			continue
		}
		l.fn(value)
	}
}
