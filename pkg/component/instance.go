package component

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/telemetry"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// ErrDestroyed is returned when an operation needs a live instance.
var ErrDestroyed = errors.New("component: instance is destroyed")

// ErrNoRuntime is returned by New without a runtime.
var ErrNoRuntime = errors.New("component: nil runtime")

// activation is the keep-alive state of an instance. An instance that was
// never activated or deactivated is unset.
type activation uint8

const (
	activationUnset activation = iota
	activationActive
	activationInactive
)

// Instance is a live component: its state, its render watcher and its place
// in the component tree. The parent owns its children list; children refer
// back to the parent without owning it.
type Instance struct {
	uid     uint64
	rt      *reactive.Runtime
	options Options

	parent   *Instance
	root     *Instance
	children []*Instance

	watcher  *reactive.Watcher
	watchers []*reactive.Watcher

	props    *reactive.Object
	data     *reactive.Object
	computed map[string]*reactive.Computed
	keys     map[string]keyKind

	renderFn      RenderFunc
	staticRenders []RenderFunc
	vnode         *vdom.VNode
	placeholder   *vdom.VNode
	el            vdom.Handle
	staticTrees   []*vdom.VNode

	events       map[string][]*listener
	hasHookEvent bool

	active           activation
	directInactive   bool
	isMounted        bool
	isDestroyed      bool
	isBeingDestroyed bool
	updatingProps    bool
}

// New creates an instance from opts: it links the instance into the tree,
// runs beforeCreate, initializes props, methods, data, computed properties
// and watches, then runs created.
func New(rt *reactive.Runtime, opts Options) (*Instance, error) {
	if rt == nil {
		return nil, ErrNoRuntime
	}
	opts = MergeOptions(Options{}, opts)
	if opts.Parent != nil && opts.Parent.isDestroyed {
		return nil, fmt.Errorf("component %q: parent %s: %w", opts.Name, opts.Parent.Name(), ErrDestroyed)
	}

	vm := &Instance{
		uid:         reactive.NextID(),
		rt:          rt,
		options:     opts,
		placeholder: opts.Placeholder,
	}

	vm.initLifecycle()
	span := vm.startSpan("component.init")
	vm.initEvents()
	vm.callHook(HookBeforeCreate)
	vm.initState()
	vm.callHook(HookCreated)
	span.End(nil)

	rt.Emit(reactive.Event{Kind: reactive.EventCreate, UID: vm.uid, Component: vm.Name()})
	return vm, nil
}

// New creates an instance of d with overrides merged over its options.
func (d *Definition) New(rt *reactive.Runtime, overrides Options) (*Instance, error) {
	return New(rt, MergeOptions(d.options, overrides))
}

// startSpan starts a span when performance tracing is on.
func (vm *Instance) startSpan(name string) telemetry.Span {
	if !vm.rt.Config().Performance {
		return telemetry.Span{}
	}
	_, span := vm.rt.Tracer().Start(context.Background(), name,
		attribute.String("component", vm.Name()),
		attribute.Int64("uid", int64(vm.uid)),
	)
	return span
}

// UID returns the creation-ordered id of vm.
func (vm *Instance) UID() uint64 { return vm.uid }

// Name returns the component name. Unnamed instances are "Root" or
// "Anonymous".
func (vm *Instance) Name() string {
	if vm.options.Name != "" {
		return vm.options.Name
	}
	if vm.root == vm {
		return "Root"
	}
	return "Anonymous"
}

// Runtime returns the runtime vm belongs to.
func (vm *Instance) Runtime() *reactive.Runtime { return vm.rt }

// Options returns the merged options of vm.
func (vm *Instance) Options() Options { return vm.options }

// Parent returns the nearest non-abstract ancestor, or nil.
func (vm *Instance) Parent() *Instance { return vm.parent }

// Root returns the root of vm's tree.
func (vm *Instance) Root() *Instance { return vm.root }

// Children returns a copy of the non-abstract children of vm.
func (vm *Instance) Children() []*Instance {
	out := make([]*Instance, len(vm.children))
	copy(out, vm.children)
	return out
}

// IsMounted reports whether vm has been mounted.
func (vm *Instance) IsMounted() bool { return vm.isMounted }

// IsDestroyed reports whether Destroy has completed its teardown.
func (vm *Instance) IsDestroyed() bool { return vm.isDestroyed }

// IsBeingDestroyed reports whether Destroy has started.
func (vm *Instance) IsBeingDestroyed() bool { return vm.isBeingDestroyed }

// IsInactive reports whether vm is deactivated.
func (vm *Instance) IsInactive() bool { return vm.active == activationInactive }

// Tree returns the last rendered tree.
func (vm *Instance) Tree() *vdom.VNode { return vm.vnode }

// El returns the host handle of the mounted tree.
func (vm *Instance) El() vdom.Handle { return vm.el }

// Placeholder returns the node standing for vm in its parent's tree.
func (vm *Instance) Placeholder() *vdom.VNode { return vm.placeholder }

// RenderWatcher returns the render watcher, nil before Mount.
func (vm *Instance) RenderWatcher() *reactive.Watcher { return vm.watcher }

// Watchers returns a copy of every watcher owned by vm.
func (vm *Instance) Watchers() []*reactive.Watcher {
	out := make([]*reactive.Watcher, len(vm.watchers))
	copy(out, vm.watchers)
	return out
}

// AddWatcher implements reactive.Owner.
func (vm *Instance) AddWatcher(w *reactive.Watcher) {
	vm.watchers = append(vm.watchers, w)
}

// RemoveWatcher implements reactive.Owner.
func (vm *Instance) RemoveWatcher(w *reactive.Watcher) {
	for i, x := range vm.watchers {
		if x == w {
			vm.watchers = append(vm.watchers[:i], vm.watchers[i+1:]...)
			return
		}
	}
}

// AfterFlush implements reactive.PostFlusher: the updated hook runs for a
// mounted, live instance whose render watcher ran in the flush.
func (vm *Instance) AfterFlush(w *reactive.Watcher) {
	if w == vm.watcher && vm.isMounted && !vm.isDestroyed {
		vm.callHook(HookUpdated)
	}
}

// OwnsReactiveRoot implements reactive.RootOwner.
func (vm *Instance) OwnsReactiveRoot() bool { return true }

// NextTick runs fn after the next flush.
func (vm *Instance) NextTick(fn func(vm *Instance) error) {
	vm.rt.NextTick(func() error {
		return fn(vm)
	})
}

// String returns a debug representation.
func (vm *Instance) String() string {
	return fmt.Sprintf("<%s #%d>", vm.Name(), vm.uid)
}
