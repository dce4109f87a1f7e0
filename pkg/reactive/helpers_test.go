package reactive

import "testing"

// recorder collects errors and warnings sent to a runtime.
type recorder struct {
	errs  []error
	infos []string
	warns []string
}

func (rec *recorder) options() []Option {
	return []Option{
		WithErrorHandler(func(err error, owner Owner, info string) {
			rec.errs = append(rec.errs, err)
			rec.infos = append(rec.infos, info)
		}),
		WithWarnHandler(func(msg string, owner Owner) {
			rec.warns = append(rec.warns, msg)
		}),
	}
}

func newTestRuntime(t *testing.T, opts ...Option) (*Runtime, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(append(rec.options(), opts...)...), rec
}

// testOwner is a minimal watcher scope.
type testOwner struct {
	watchers   []*Watcher
	destroying bool
	flushed    []uint64
}

func (o *testOwner) AddWatcher(w *Watcher) { o.watchers = append(o.watchers, w) }

func (o *testOwner) RemoveWatcher(w *Watcher) {
	for i, x := range o.watchers {
		if x == w {
			o.watchers = append(o.watchers[:i], o.watchers[i+1:]...)
			return
		}
	}
}

func (o *testOwner) IsBeingDestroyed() bool { return o.destroying }

func (o *testOwner) AfterFlush(w *Watcher) { o.flushed = append(o.flushed, w.ID()) }

// funcSub is a Subscriber backed by a function.
type funcSub struct {
	id uint64
	fn func() error
}

func newFuncSub(fn func() error) *funcSub {
	return &funcSub{id: NextID(), fn: fn}
}

func (s *funcSub) ID() uint64    { return s.id }
func (s *funcSub) Update() error { return s.fn() }

// track subscribes the returned watcher to whatever fn reads.
func track(t *testing.T, rt *Runtime, fn func()) *Watcher {
	t.Helper()
	w, err := NewWatcher(rt, nil, func() (any, error) {
		fn()
		return nil, nil
	}, nil, WatcherOptions{Sync: true})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	return w
}
