package reactive

import "fmt"

// SetProperty sets key on target and returns value. Adding a key that did not
// exist notifies watchers of the container, so iteration and Has see it.
//
// target may be an *Object (string key), an *Array (int index) or a plain
// map[string]any, which is assigned without reactivity. Adding keys to the
// root data of a component instance is rejected with a warning, as is a nil
// or primitive target.
func (r *Runtime) SetProperty(target any, key any, value any) any {
	switch t := target.(type) {
	case *Array:
		i, ok := key.(int)
		if !ok || i < 0 {
			r.WarnCode("R004", ErrInvalidTarget, nil, fmt.Sprintf("invalid array index %v", key))
			return value
		}
		t.Set(i, value)
		return value

	case *Object:
		k, ok := key.(string)
		if !ok {
			r.WarnCode("R004", ErrInvalidTarget, nil, fmt.Sprintf("invalid key %v", key))
			return value
		}
		if t.hasKey(k) {
			t.Set(k, value)
			return value
		}
		if t.ob.rootCount > 0 {
			r.WarnCode("R002", ErrRootMutation, nil, fmt.Sprintf("key %q: declare it upfront in the data option", k))
			return value
		}
		t.add(k, value)
		return value

	case map[string]any:
		k, ok := key.(string)
		if ok && t != nil {
			t[k] = value
			return value
		}

	case RootOwner:
		r.WarnCode("R002", ErrRootMutation, nil, fmt.Sprintf("key %v: declare it upfront in the data option", key))
		return value
	}

	r.WarnCode("R004", ErrInvalidTarget, nil, fmt.Sprintf("cannot set reactive property on %T", target))
	return value
}

// DeleteProperty removes key from target and notifies watchers of the
// container. Deleting a missing key is a no-op.
func (r *Runtime) DeleteProperty(target any, key any) {
	switch t := target.(type) {
	case *Array:
		i, ok := key.(int)
		if !ok || i < 0 {
			r.WarnCode("R004", ErrInvalidTarget, nil, fmt.Sprintf("invalid array index %v", key))
			return
		}
		if i < len(t.items) {
			t.Splice(i, 1)
		}
		return

	case *Object:
		k, ok := key.(string)
		if !ok {
			r.WarnCode("R004", ErrInvalidTarget, nil, fmt.Sprintf("invalid key %v", key))
			return
		}
		if t.ob.rootCount > 0 {
			r.WarnCode("R003", ErrRootMutation, nil, fmt.Sprintf("key %q: set it to nil instead", k))
			return
		}
		if !t.hasKey(k) {
			return
		}
		t.remove(k)
		return

	case map[string]any:
		if k, ok := key.(string); ok && t != nil {
			delete(t, k)
			return
		}

	case RootOwner:
		r.WarnCode("R003", ErrRootMutation, nil, fmt.Sprintf("key %v: set it to nil instead", key))
		return
	}

	r.WarnCode("R004", ErrInvalidTarget, nil, fmt.Sprintf("cannot delete reactive property of %T", target))
}
