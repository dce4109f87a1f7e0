package reactive

import "fmt"

// Getter is the evaluation function of a watcher.
type Getter func() (any, error)

// Callback is invoked with the new and previous value when a watcher's value
// changes.
type Callback func(newValue, oldValue any) error

// Owner is the scope a watcher belongs to, typically a component instance.
type Owner interface {
	AddWatcher(w *Watcher)
	RemoveWatcher(w *Watcher)
	IsBeingDestroyed() bool
}

// PostFlusher is implemented by owners that want to be told, after a flush
// drained the queue, that one of their watchers ran in it.
type PostFlusher interface {
	AfterFlush(w *Watcher)
}

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// Deep subscribes to every value nested in the result.
	Deep bool

	// User marks watchers created by application code. Their getter and
	// callback errors are reported instead of returned.
	User bool

	// Lazy watchers only evaluate on demand. Invalidation marks them dirty.
	Lazy bool

	// Sync watchers run immediately on invalidation instead of being queued.
	Sync bool

	// Before runs ahead of each scheduled run.
	Before func()

	// Expression describes the watcher in error messages.
	Expression string

	// Render marks the render watcher of a component.
	Render bool

	// OnInit is called after the watcher is registered with its owner and
	// before its first evaluation.
	OnInit func(w *Watcher)
}

// Watcher evaluates a getter, tracks the deps it reads and reacts when one of
// them changes. Render functions, computed properties and watches are all
// watchers.
type Watcher struct {
	id     uint64
	rt     *Runtime
	owner  Owner
	getter Getter
	cb     Callback

	deep   bool
	user   bool
	lazy   bool
	sync   bool
	render bool
	before func()
	expr   string

	active bool
	dirty  bool

	deps      []*Dep
	newDeps   []*Dep
	depIDs    map[uint64]struct{}
	newDepIDs map[uint64]struct{}

	value any
}

// NewWatcher creates a watcher owned by owner, which may be nil. A watcher
// that is not lazy evaluates once before NewWatcher returns; if that first
// evaluation of a non-user getter fails the watcher is still returned, already
// registered, together with the error.
func NewWatcher(rt *Runtime, owner Owner, getter Getter, cb Callback, opts WatcherOptions) (*Watcher, error) {
	w := &Watcher{
		id:        NextID(),
		rt:        rt,
		owner:     owner,
		getter:    getter,
		cb:        cb,
		deep:      opts.Deep,
		user:      opts.User,
		lazy:      opts.Lazy,
		sync:      opts.Sync,
		render:    opts.Render,
		before:    opts.Before,
		expr:      opts.Expression,
		active:    true,
		dirty:     opts.Lazy,
		depIDs:    make(map[uint64]struct{}),
		newDepIDs: make(map[uint64]struct{}),
	}
	if w.getter == nil {
		w.getter = func() (any, error) { return nil, nil }
	}
	if owner != nil {
		owner.AddWatcher(w)
	}
	if opts.OnInit != nil {
		opts.OnInit(w)
	}
	if w.lazy {
		return w, nil
	}

	value, err := w.Get()
	if err != nil {
		if w.user {
			return w, nil
		}
		return w, err
	}
	w.value = value
	return w, nil
}

// Get evaluates the getter and re-collects dependencies. Errors of user
// watchers are reported here and also returned. A torn down watcher returns
// its last value without evaluating.
func (w *Watcher) Get() (value any, err error) {
	if !w.active {
		return w.value, nil
	}
	w.rt.pushTarget(w)
	defer func() {
		w.rt.popTarget()
		w.cleanupDeps()
	}()

	value, err = w.rt.call(w.getter)
	if err != nil && w.user {
		w.rt.report("R005", err, w.owner, fmt.Sprintf("getter for watcher %q", w.expr))
	}
	if w.deep {
		traverse(value)
	}
	return value, err
}

// addDep records d as read during the current evaluation.
func (w *Watcher) addDep(d *Dep) {
	id := d.ID()
	if _, ok := w.newDepIDs[id]; ok {
		return
	}
	w.newDepIDs[id] = struct{}{}
	w.newDeps = append(w.newDeps, d)
	if _, ok := w.depIDs[id]; !ok {
		d.Subscribe(w)
	}
}

// cleanupDeps unsubscribes from deps not read by the last evaluation and
// makes the new set current.
func (w *Watcher) cleanupDeps() {
	if len(w.newDeps) != len(w.newDepIDs) {
		w.rt.integrity(fmt.Sprintf("watcher %d collected %d deps but %d ids", w.id, len(w.newDeps), len(w.newDepIDs)))
	}
	for _, d := range w.deps {
		if _, ok := w.newDepIDs[d.ID()]; !ok {
			d.Unsubscribe(w)
		}
	}

	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	clear(w.newDepIDs)

	old := w.deps
	w.deps = w.newDeps
	clear(old)
	w.newDeps = old[:0]
}

// Update is called by a dep when it changes.
func (w *Watcher) Update() error {
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync:
		return w.Run()
	default:
		w.rt.scheduler.Queue(w)
	}
	return nil
}

// Run re-evaluates the watcher and invokes the callback when the value
// changed. Containers and deep watchers always invoke it, since their
// contents may have changed in place. A torn down watcher does nothing.
func (w *Watcher) Run() error {
	if !w.active {
		return nil
	}
	value, err := w.Get()
	if err != nil {
		if w.user {
			return nil
		}
		return err
	}
	if identical(value, w.value) && !isContainer(value) && !w.deep {
		return nil
	}

	old := w.value
	w.value = value
	if w.cb == nil {
		return nil
	}
	if w.user {
		if err := w.rt.call0(func() error { return w.cb(value, old) }); err != nil {
			w.rt.report("R006", err, w.owner, fmt.Sprintf("callback for watcher %q", w.expr))
		}
		return nil
	}
	return w.rt.call0(func() error { return w.cb(value, old) })
}

// Evaluate re-computes a lazy watcher's value and clears its dirty flag.
// On error the watcher stays dirty.
func (w *Watcher) Evaluate() error {
	if !w.active {
		return nil
	}
	value, err := w.Get()
	if err != nil {
		return err
	}
	w.value = value
	w.dirty = false
	return nil
}

// Depend subscribes the active watcher to every dep of w.
func (w *Watcher) Depend() {
	for _, d := range w.deps {
		d.Depend()
	}
}

// Teardown unsubscribes w from all deps and removes it from its owner.
// Teardown is idempotent.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	if w.owner != nil && !w.owner.IsBeingDestroyed() {
		w.owner.RemoveWatcher(w)
	}
	for _, d := range w.deps {
		d.Unsubscribe(w)
	}
	w.deps = nil
	w.newDeps = nil
	clear(w.depIDs)
	w.active = false
}

// ID returns the creation-ordered id of w.
func (w *Watcher) ID() uint64 { return w.id }

// Value returns the last evaluated value.
func (w *Watcher) Value() any { return w.value }

// Active reports whether w has not been torn down.
func (w *Watcher) Active() bool { return w.active }

// Dirty reports whether a lazy watcher needs re-evaluation.
func (w *Watcher) Dirty() bool { return w.dirty }

// Lazy reports whether w only evaluates on demand.
func (w *Watcher) Lazy() bool { return w.lazy }

// User reports whether w was created by application code.
func (w *Watcher) User() bool { return w.user }

// IsRender reports whether w is a component's render watcher.
func (w *Watcher) IsRender() bool { return w.render }

// Expression returns the description given at construction.
func (w *Watcher) Expression() string { return w.expr }

// Owner returns the scope w belongs to, possibly nil.
func (w *Watcher) Owner() Owner { return w.owner }

// DepCount returns the number of deps w is subscribed to.
func (w *Watcher) DepCount() int { return len(w.deps) }

// Deps returns the deps w is subscribed to, in first-read order.
func (w *Watcher) Deps() []*Dep {
	out := make([]*Dep, len(w.deps))
	copy(out, w.deps)
	return out
}
