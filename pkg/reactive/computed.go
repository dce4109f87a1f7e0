package reactive

import "fmt"

// Computed is a cached derived value. The getter only runs when the value is
// read after one of its dependencies changed.
type Computed struct {
	w *Watcher
}

// Computed creates a standalone computed value.
func (r *Runtime) Computed(getter Getter) *Computed {
	return NewComputed(r, nil, "", getter)
}

// NewComputed creates a computed value owned by owner.
func NewComputed(rt *Runtime, owner Owner, name string, getter Getter) *Computed {
	// Lazy watchers do not evaluate at construction, so there is no error.
	w, _ := NewWatcher(rt, owner, getter, nil, WatcherOptions{Lazy: true, Expression: name})
	return &Computed{w: w}
}

// Get returns the cached value, evaluating first if a dependency changed.
// The active watcher subscribes to the computed value's dependencies. A
// disposed computed value returns its last value.
func (c *Computed) Get() (any, error) {
	if !c.w.active {
		return c.w.value, nil
	}
	if c.w.dirty {
		if err := c.w.Evaluate(); err != nil {
			return nil, err
		}
	}
	if c.w.rt.target != nil {
		c.w.Depend()
	}
	return c.w.value, nil
}

// Watcher returns the underlying lazy watcher.
func (c *Computed) Watcher() *Watcher { return c.w }

// Dispose tears the computed value down.
func (c *Computed) Dispose() { c.w.Teardown() }

// WatchOptions configures Watch.
type WatchOptions struct {
	Deep      bool
	Sync      bool
	Immediate bool

	// Expression describes the watch in error messages.
	Expression string
}

// Watch calls cb whenever the value returned by getter changes. It returns a
// function that stops watching.
func (r *Runtime) Watch(getter Getter, cb Callback, opts WatchOptions) func() {
	return WatchOwned(r, nil, getter, cb, opts)
}

// WatchOwned is Watch with an owner, which tears the watch down with itself.
func WatchOwned(rt *Runtime, owner Owner, getter Getter, cb Callback, opts WatchOptions) func() {
	// User watchers report getter errors instead of returning them.
	w, _ := NewWatcher(rt, owner, getter, cb, WatcherOptions{
		User:       true,
		Deep:       opts.Deep,
		Sync:       opts.Sync,
		Expression: opts.Expression,
	})
	if opts.Immediate && cb != nil {
		rt.pushTarget(nil)
		rt.Guard(owner, "R006", fmt.Sprintf("callback for immediate watcher %q", opts.Expression), func() error {
			return cb(w.value, nil)
		})
		rt.popTarget()
	}
	return w.Teardown
}
