package reactive

import (
	"math"
	"reflect"
	"sort"
)

// Observable is implemented by the reactive containers, Object and Array.
type Observable interface {
	// Dep returns the container-level dependency, notified when keys are
	// added or removed, or when a sequence is mutated.
	Dep() *Dep

	// RootCount returns how many component instances use this container as
	// their root data.
	RootCount() int

	observer() *observer
}

// observer is the state shared by every container.
type observer struct {
	rt        *Runtime
	dep       *Dep
	rootCount int

	// source is the raw value this container was made from, if any.
	source any
}

// RootOwner marks values that own reactive root data, such as component
// instances. They are never wrapped and reject runtime key additions.
type RootOwner interface {
	OwnsReactiveRoot() bool
}

// Raw wraps a value that must never be made reactive.
type Raw struct {
	Value any
}

// MarkRaw returns v wrapped so that Observe leaves it alone.
func MarkRaw(v any) Raw {
	return Raw{Value: v}
}

// Observe returns the reactive container for value. map[string]any becomes
// an *Object and []any an *Array, recursively; the entries are copied into
// the container. A raw map or slice seen before resolves to the same
// container, and containers are returned unchanged. Other values, Raw values,
// RootOwners, and new values while observing is disabled yield nil.
func (r *Runtime) Observe(value any) Observable {
	return r.observe(value, false)
}

// ObserveRoot is Observe for a component's root data: the container's root
// count is incremented.
func (r *Runtime) ObserveRoot(value any) Observable {
	return r.observe(value, true)
}

func (r *Runtime) observe(value any, asRoot bool) Observable {
	var ob Observable
	switch v := value.(type) {
	case *Object:
		if v != nil {
			ob = v
		}
	case *Array:
		if v != nil {
			ob = v
		}
	case Raw, RootOwner:
		return nil
	case map[string]any:
		if v == nil {
			break
		}
		k, o, ok := r.raws.object(v)
		switch {
		case o != nil:
			ob = o
		case r.observing:
			o = r.newObject(len(v))
			o.ob.source = v
			if ok {
				r.raws.putObject(k, o)
			}
			o.fill(v)
			ob = o
		}
	case []any:
		if v == nil {
			break
		}
		k, a, ok := r.raws.array(v)
		switch {
		case a != nil:
			ob = a
		case r.observing:
			a = &Array{ob: observer{rt: r, dep: newDep(r), source: v}}
			if ok {
				r.raws.putArray(k, a)
			}
			a.items = a.wrapAll(v)
			ob = a
		}
	}
	if asRoot && ob != nil {
		ob.observer().rootCount++
	}
	return ob
}

// ReleaseRoot decrements the root count of ob.
func ReleaseRoot(ob Observable) {
	if ob == nil {
		return
	}
	o := ob.observer()
	if o.rootCount > 0 {
		o.rootCount--
	}
}

// wrap returns the container for v if v can be observed, else v itself.
func (r *Runtime) wrap(v any) (stored any, child Observable) {
	child = r.observe(v, false)
	if child != nil {
		return child, child
	}
	return v, nil
}

// dependArray registers the active watcher on every container nested in a,
// since element reads do not pass through a slot.
func dependArray(a *Array) {
	for _, e := range a.items {
		if ob, ok := e.(Observable); ok {
			ob.Dep().Depend()
		}
		if nested, ok := e.(*Array); ok {
			dependArray(nested)
		}
	}
}

// SameValue reports whether writing b over a is a no-op: strict identity,
// with NaN equal to NaN. There is no structural comparison; maps, slices and
// funcs compare by reference.
func SameValue(a, b any) bool {
	if identical(a, b) {
		return true
	}
	return isNaN(a) && isNaN(b)
}

// identical is strict identity without the NaN exception.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	// Non-comparable structs and arrays have no identity of their own.
	return false
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// isContainer reports whether a watcher value may have been mutated in place
// without changing identity.
func isContainer(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case Observable:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Struct, reflect.Array:
		return true
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// unwrap converts containers back into plain maps and slices without
// tracking reads.
func unwrap(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Raw()
	case *Array:
		return t.Raw()
	}
	return v
}
