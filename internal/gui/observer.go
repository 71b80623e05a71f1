// Package gui holds the headless widgets hosts render next to the scene:
// buttons, sliders, input fields and legends. Application code observes
// them; hosts feed user input back through Handle.
package gui

import "slices"

// ObserverID identifies a registered observer.
type ObserverID uint64

type observer[T any] struct {
	id ObserverID
	fn func(T)
}

// Observable notifies registered functions in registration order.
type Observable[T any] struct {
	next      ObserverID
	observers []observer[T]
}

// AddObserver registers fn and returns its id for RemoveObserver.
func (o *Observable[T]) AddObserver(fn func(T)) ObserverID {
	o.next++
	o.observers = append(o.observers, observer[T]{id: o.next, fn: fn})
	return o.next
}

// RemoveObserver unregisters id. It reports whether id was registered.
func (o *Observable[T]) RemoveObserver(id ObserverID) bool {
	n := len(o.observers)
	o.observers = slices.DeleteFunc(o.observers, func(ob observer[T]) bool { return ob.id == id })
	return len(o.observers) != n
}

// Observers returns the number of registered observers.
func (o *Observable[T]) Observers() int { return len(o.observers) }

// Notify calls every observer with v. Observers added or removed during
// notification take effect on the next call.
func (o *Observable[T]) Notify(v T) {
	for _, ob := range slices.Clone(o.observers) {
		ob.fn(v)
	}
}
