package reactive

// slot is one observable property of an Object.
type slot struct {
	value   any
	dep     *Dep
	child   Observable
	shallow bool

	// customSetter runs before a changed value is stored.
	customSetter func()
}

// Object is a reactive record. Keys keep their definition order.
type Object struct {
	ob    observer
	keys  []string
	slots map[string]*slot
}

// SlotOption configures a slot created with Define.
type SlotOption func(*slot)

// Shallow stores the value as-is: nested maps and slices are not wrapped and
// reads do not subscribe to their contents.
func Shallow() SlotOption {
	return func(s *slot) {
		s.shallow = true
	}
}

// WithCustomSetter runs fn whenever the slot is written with a new value.
func WithCustomSetter(fn func()) SlotOption {
	return func(s *slot) {
		s.customSetter = fn
	}
}

// NewObject creates a reactive record from init. Keys are defined in sorted
// order; nested maps and slices are wrapped.
func (r *Runtime) NewObject(init map[string]any) *Object {
	o := r.newObject(len(init))
	o.fill(init)
	return o
}

func (r *Runtime) newObject(size int) *Object {
	return &Object{
		ob:    observer{rt: r, dep: newDep(r)},
		slots: make(map[string]*slot, size),
	}
}

func (o *Object) fill(init map[string]any) {
	for _, k := range sortedKeys(init) {
		o.define(k, init[k])
	}
}

func (o *Object) observer() *observer { return &o.ob }

// Dep returns the object-level dependency.
func (o *Object) Dep() *Dep { return o.ob.dep }

// RootCount returns how many instances use o as root data.
func (o *Object) RootCount() int { return o.ob.rootCount }

// Runtime returns the runtime o belongs to.
func (o *Object) Runtime() *Runtime { return o.ob.rt }

func (o *Object) define(key string, value any, opts ...SlotOption) *slot {
	s := &slot{dep: newDep(o.ob.rt)}
	for _, opt := range opts {
		opt(s)
	}
	if s.shallow {
		s.value = value
	} else {
		s.value, s.child = o.ob.rt.wrap(value)
	}
	if _, exists := o.slots[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.slots[key] = s
	return s
}

// Define declares key with a fresh slot, replacing any previous slot for it.
// It does not notify; use SetProperty to add a key reactively.
func (o *Object) Define(key string, value any, opts ...SlotOption) {
	o.define(key, value, opts...)
}

// Get returns the value for key and subscribes the active watcher to it.
// Reading a missing key subscribes to the object itself so that a later
// SetProperty of that key is seen.
func (o *Object) Get(key string) any {
	s, ok := o.slots[key]
	if !ok {
		o.ob.dep.Depend()
		return nil
	}
	if o.ob.rt.target != nil {
		s.dep.Depend()
		if s.child != nil {
			s.child.Dep().Depend()
			if a, ok := s.value.(*Array); ok {
				dependArray(a)
			}
		}
	}
	return s.value
}

// Peek returns the value for key without subscribing.
func (o *Object) Peek(key string) any {
	if s, ok := o.slots[key]; ok {
		return s.value
	}
	return nil
}

// Set writes key. Writing a value identical to the current one is a no-op.
// Setting a key that does not exist goes through SetProperty.
func (o *Object) Set(key string, value any) {
	s, ok := o.slots[key]
	if !ok {
		o.ob.rt.SetProperty(o, key, value)
		return
	}
	if SameValue(value, s.value) {
		return
	}
	if s.customSetter != nil {
		s.customSetter()
	}
	if s.shallow {
		s.value = value
	} else {
		s.value, s.child = o.ob.rt.wrap(value)
	}
	s.dep.Notify()
}

// Has reports whether key exists. It subscribes to key additions and removals.
func (o *Object) Has(key string) bool {
	o.ob.dep.Depend()
	_, ok := o.slots[key]
	return ok
}

// Keys returns the keys in definition order. It subscribes to key additions
// and removals.
func (o *Object) Keys() []string {
	o.ob.dep.Depend()
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Len returns the number of keys. It subscribes like Keys.
func (o *Object) Len() int {
	o.ob.dep.Depend()
	return len(o.keys)
}

// SlotDep returns the dependency of key, or nil.
func (o *Object) SlotDep(key string) *Dep {
	if s, ok := o.slots[key]; ok {
		return s.dep
	}
	return nil
}

// Raw returns a plain map snapshot with nested containers unwrapped. It does
// not subscribe.
func (o *Object) Raw() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = unwrap(o.slots[k].value)
	}
	return out
}

func (o *Object) hasKey(key string) bool {
	_, ok := o.slots[key]
	return ok
}

func (o *Object) add(key string, value any) {
	o.define(key, value)
	o.ob.dep.Notify()
}

func (o *Object) remove(key string) {
	delete(o.slots, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	o.ob.dep.Notify()
}
