package reactive

import (
	"fmt"
	"sort"
)

// Array is a reactive sequence. Elements have no slot of their own: every
// read subscribes to the array's dep, which every mutation notifies.
type Array struct {
	ob    observer
	items []any
}

// NewArray creates a reactive sequence holding items. Nested maps and slices
// are wrapped.
func (r *Runtime) NewArray(items ...any) *Array {
	a := &Array{ob: observer{rt: r, dep: newDep(r)}}
	a.items = a.wrapAll(items)
	return a
}

func (a *Array) observer() *observer { return &a.ob }

// Dep returns the array-level dependency.
func (a *Array) Dep() *Dep { return a.ob.dep }

// RootCount returns how many instances use a as root data.
func (a *Array) RootCount() int { return a.ob.rootCount }

func (a *Array) wrapAll(items []any) []any {
	out := make([]any, len(items))
	for i, v := range items {
		out[i], _ = a.ob.rt.wrap(v)
	}
	return out
}

func (a *Array) depend() {
	if a.ob.rt.target == nil {
		return
	}
	a.ob.dep.Depend()
	dependArray(a)
}

// Get returns element i, or nil when i is out of range.
func (a *Array) Get(i int) any {
	a.depend()
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Len returns the number of elements.
func (a *Array) Len() int {
	a.depend()
	return len(a.items)
}

// Slice returns a copy of the elements. Nested containers are shared.
func (a *Array) Slice() []any {
	a.depend()
	out := make([]any, len(a.items))
	copy(out, a.items)
	return out
}

// Raw returns a plain snapshot with nested containers unwrapped. It does not
// subscribe.
func (a *Array) Raw() []any {
	out := make([]any, len(a.items))
	for i, v := range a.items {
		out[i] = unwrap(v)
	}
	return out
}

// Set replaces element i. An index past the end grows the array, filling the
// gap with nil.
func (a *Array) Set(i int, value any) {
	if i < 0 {
		return
	}
	if i >= len(a.items) {
		a.items = append(a.items, make([]any, i-len(a.items)+1)...)
	}
	a.Splice(i, 1, value)
}

// Push appends values and returns the new length.
func (a *Array) Push(values ...any) int {
	a.items = append(a.items, a.wrapAll(values)...)
	a.ob.dep.Notify()
	return len(a.items)
}

// Pop removes and returns the last element.
func (a *Array) Pop() any {
	n := len(a.items)
	if n == 0 {
		a.ob.dep.Notify()
		return nil
	}
	v := a.items[n-1]
	a.items[n-1] = nil
	a.items = a.items[:n-1]
	a.ob.dep.Notify()
	return v
}

// Shift removes and returns the first element.
func (a *Array) Shift() any {
	if len(a.items) == 0 {
		a.ob.dep.Notify()
		return nil
	}
	v := a.items[0]
	a.items = append(a.items[:0:0], a.items[1:]...)
	a.ob.dep.Notify()
	return v
}

// Unshift prepends values and returns the new length.
func (a *Array) Unshift(values ...any) int {
	a.items = append(a.wrapAll(values), a.items...)
	a.ob.dep.Notify()
	return len(a.items)
}

// Splice removes deleteCount elements at start, inserts items in their place
// and returns the removed elements. A negative start counts from the end.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	n := len(a.items)
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > n-start {
		deleteCount = n - start
	}

	removed := make([]any, deleteCount)
	copy(removed, a.items[start:start+deleteCount])

	inserted := a.wrapAll(items)
	next := make([]any, 0, n-deleteCount+len(inserted))
	next = append(next, a.items[:start]...)
	next = append(next, inserted...)
	next = append(next, a.items[start+deleteCount:]...)
	a.items = next

	a.ob.dep.Notify()
	return removed
}

// Sort sorts the elements in place using less. A nil less orders elements
// by their fmt.Sprint form.
func (a *Array) Sort(less func(x, y any) bool) {
	if less == nil {
		less = func(x, y any) bool { return fmt.Sprint(x) < fmt.Sprint(y) }
	}
	sort.SliceStable(a.items, func(i, j int) bool {
		return less(a.items[i], a.items[j])
	})
	a.ob.dep.Notify()
}

// Reverse reverses the elements in place.
func (a *Array) Reverse() {
	for i, j := 0, len(a.items)-1; i < j; i, j = i+1, j-1 {
		a.items[i], a.items[j] = a.items[j], a.items[i]
	}
	a.ob.dep.Notify()
}
