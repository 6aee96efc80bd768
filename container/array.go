// Package container implements the three ordered/associative container
// shapes a record field may take (§3, §4.6): Array, Map, and IdMap. None
// embeds a builtin slice/map as an exported field — each is a standalone
// generic type exposing its own mutation surface, per the design note in §9
// ("do not sub-class built-in containers; provide standalone ... types with
// documented internal mutators for decoder use").
package container

// Array is an ordered sequence of values (scalars or nested records). It owns
// a `changed` flag: any public mutation sets it; the decoder's XXXAppend
// bypasses it so that a pure decode never marks a record dirty by itself
// (§4.3 — "the decoder uses these to avoid spurious dirtiness").
type Array[T any] struct {
	items   []T
	changed bool
}

// NewArray builds an Array from an existing slice, copying it so the caller's
// backing array is never aliased (§3: "setter ... copied into a new container").
func NewArray[T any](items []T) *Array[T] {
	a := &Array[T]{items: make([]T, len(items))}
	copy(a.items, items)
	return a
}

// Len returns the number of elements.
func (a *Array[T]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Get returns the element at index.
func (a *Array[T]) Get(index int) T {
	return a.items[index]
}

// All returns every element, in order. The returned slice must not be mutated.
func (a *Array[T]) All() []T { return a.items }

// Set replaces the element at index and marks the Array changed.
func (a *Array[T]) Set(index int, v T) {
	a.items[index] = v
	a.changed = true
}

// Append adds v to the end and marks the Array changed.
func (a *Array[T]) Append(v T) {
	a.items = append(a.items, v)
	a.changed = true
}

// Remove deletes the element at index and marks the Array changed.
func (a *Array[T]) Remove(index int) {
	a.items = append(a.items[:index], a.items[index+1:]...)
	a.changed = true
}

// Clear empties the Array and marks it changed.
func (a *Array[T]) Clear() {
	a.items = nil
	a.changed = true
}

// Changed reports whether any public mutation has occurred since the last
// ClearChanged.
func (a *Array[T]) Changed() bool {
	if a == nil {
		return false
	}
	return a.changed
}

// ClearChanged resets the changed flag without touching the elements.
func (a *Array[T]) ClearChanged() {
	if a == nil {
		return
	}
	a.changed = false
}

// XXXAppend appends v without marking the Array changed. Used exclusively by
// the decoder, which rebuilds a fresh Array from wire data (§4.5, §4.7) and
// must not report it as dirty.
func (a *Array[T]) XXXAppend(v T) {
	a.items = append(a.items, v)
}

// EachElem calls fn once per element, in order, boxing each as `any` so the
// codec package can range over an Array[T] without knowing T.
func (a *Array[T]) EachElem(fn func(index int, v any)) {
	if a == nil {
		return
	}
	for i, v := range a.items {
		fn(i, v)
	}
}

// XXXAppendAny is XXXAppend through a type-erased `any`, for the decoder.
func (a *Array[T]) XXXAppendAny(v any) {
	a.XXXAppend(v.(T))
}

// Iface is the type-erased surface the codec package drives to encode/decode
// any Array[T] without importing a concrete instantiation.
type Iface interface {
	Len() int
	Changed() bool
	ClearChanged()
	Clear()
	EachElem(fn func(index int, v any))
	XXXAppendAny(v any)
}
