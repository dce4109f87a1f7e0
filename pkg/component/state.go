package component

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// ErrUnknownMethod is returned by Call for a method that is not declared.
var ErrUnknownMethod = errors.New("component: unknown method")

type keyKind uint8

const (
	keyProp keyKind = iota + 1
	keyData
	keyComputed
	keyMethod
)

func (k keyKind) String() string {
	switch k {
	case keyProp:
		return "prop"
	case keyData:
		return "data"
	case keyComputed:
		return "computed property"
	case keyMethod:
		return "method"
	default:
		return "unknown"
	}
}

// initState declares props, methods, data, computed properties and watches
// in that order. A later key that collides with an earlier one is skipped
// with a warning.
func (vm *Instance) initState() {
	vm.keys = make(map[string]keyKind)
	vm.initProps()
	vm.initMethods()
	vm.initData()
	vm.initComputed()
	vm.initWatch()
}

func (vm *Instance) declare(key string, kind keyKind) bool {
	if prev, ok := vm.keys[key]; ok {
		vm.rt.Warn(fmt.Sprintf("%s %q is already declared as a %s", kind, key, prev), vm)
		return false
	}
	vm.keys[key] = kind
	return true
}

// initProps defines props from PropsData. Values passed down by a parent are
// owned by the parent and are not observed again.
func (vm *Instance) initProps() {
	vm.props = vm.rt.NewObject(nil)
	if len(vm.options.Props) == 0 {
		return
	}
	isRoot := vm.options.Parent == nil
	if !isRoot {
		prev := vm.rt.ToggleObserving(false)
		defer vm.rt.ToggleObserving(prev)
	}
	for _, key := range vm.options.Props {
		if !vm.declare(key, keyProp) {
			continue
		}
		key := key
		var opts []reactive.SlotOption
		if !isRoot {
			opts = append(opts, reactive.WithCustomSetter(func() {
				if !vm.updatingProps {
					vm.rt.WarnCode("R013", nil, vm, fmt.Sprintf("prop %q", key))
				}
			}))
		}
		vm.props.Define(key, vm.options.PropsData[key], opts...)
	}
}

func (vm *Instance) initMethods() {
	for _, name := range sortedNames(vm.options.Methods) {
		if vm.options.Methods[name] == nil {
			vm.rt.Warn(fmt.Sprintf("method %q is nil", name), vm)
			continue
		}
		vm.declare(name, keyMethod)
	}
}

// initData calls the data function untracked and observes the result as the
// instance's root data.
func (vm *Instance) initData() {
	var raw map[string]any
	if fn := vm.options.Data; fn != nil {
		vm.rt.Untracked(func() {
			vm.rt.Guard(vm, "R018", "data()", func() error {
				m, err := fn(vm)
				raw = m
				return err
			})
		})
	}
	if raw == nil {
		raw = map[string]any{}
	}
	for _, key := range sortedNames(raw) {
		if !vm.declare(key, keyData) {
			delete(raw, key)
		}
	}
	data, ok := vm.rt.ObserveRoot(raw).(*reactive.Object)
	if !ok {
		// Observing is off: the root data is still reactive.
		data = vm.rt.NewObject(raw)
		vm.rt.ObserveRoot(data)
	}
	vm.data = data
}

func (vm *Instance) initComputed() {
	vm.computed = make(map[string]*reactive.Computed, len(vm.options.Computed))
	for _, name := range sortedNames(vm.options.Computed) {
		fn := vm.options.Computed[name]
		if fn == nil {
			vm.rt.Warn(fmt.Sprintf("computed property %q has no getter", name), vm)
			continue
		}
		if !vm.declare(name, keyComputed) {
			continue
		}
		vm.computed[name] = reactive.NewComputed(vm.rt, vm, name, func() (any, error) {
			return fn(vm)
		})
	}
}

func (vm *Instance) initWatch() {
	for _, path := range sortedNames(vm.options.Watch) {
		for _, h := range vm.options.Watch[path] {
			// An invalid path is already reported by Watch.
			_, _ = vm.Watch(path, h)
		}
	}
}

// Get reads a prop, data key or computed property, subscribing the active
// watcher to it. A computed property that fails is reported and reads as nil.
func (vm *Instance) Get(key string) any {
	switch vm.keys[key] {
	case keyProp:
		return vm.props.Get(key)
	case keyComputed:
		v, err := vm.Computed(key)
		if err != nil {
			vm.rt.HandleError(err, vm, fmt.Sprintf("computed property %q", key))
			return nil
		}
		return v
	default:
		return vm.data.Get(key)
	}
}

// Set writes a prop or data key. New keys cannot be added to an instance.
func (vm *Instance) Set(key string, value any) {
	switch vm.keys[key] {
	case keyProp:
		vm.props.Set(key, value)
	case keyData:
		vm.data.Set(key, value)
	case keyComputed:
		vm.rt.Warn(fmt.Sprintf("computed property %q was assigned to but it has no setter", key), vm)
	case keyMethod:
		vm.rt.Warn(fmt.Sprintf("method %q cannot be assigned to", key), vm)
	default:
		vm.rt.SetProperty(vm, key, value)
	}
}

// Data returns the root data of vm.
func (vm *Instance) Data() *reactive.Object { return vm.data }

// Props returns the props of vm.
func (vm *Instance) Props() *reactive.Object { return vm.props }

// Computed returns the value of the named computed property.
func (vm *Instance) Computed(name string) (any, error) {
	c, ok := vm.computed[name]
	if !ok {
		return nil, fmt.Errorf("%s: computed property %q is not defined", vm, name)
	}
	return c.Get()
}

// Call invokes a method.
func (vm *Instance) Call(method string, args ...any) (any, error) {
	fn, ok := vm.options.Methods[method]
	if !ok || fn == nil {
		return nil, fmt.Errorf("%s: %q: %w", vm, method, ErrUnknownMethod)
	}
	return fn(vm, args...)
}

// UpdateProps writes new prop values passed down by the parent. Keys that are
// not declared props are ignored.
func (vm *Instance) UpdateProps(values map[string]any) {
	prev := vm.rt.ToggleObserving(false)
	vm.updatingProps = true
	defer func() {
		vm.updatingProps = false
		vm.rt.ToggleObserving(prev)
	}()

	if vm.options.PropsData == nil {
		vm.options.PropsData = make(map[string]any, len(values))
	}
	for _, key := range sortedNames(values) {
		if vm.keys[key] != keyProp {
			continue
		}
		vm.options.PropsData[key] = values[key]
		vm.props.Set(key, values[key])
	}
}

// Watch calls h whenever the value at the dot-delimited path changes. It
// returns a function that stops watching.
func (vm *Instance) Watch(path string, h WatchHandler) (func(), error) {
	getter, err := vm.parsePath(path)
	if err != nil {
		vm.rt.WarnCode("R007", reactive.ErrInvalidPath, vm, fmt.Sprintf("watcher %q", path))
		return func() {}, err
	}
	return vm.WatchFunc(path, getter, h), nil
}

// WatchFunc is Watch with a getter instead of a path. expr names the watch
// in error reports.
func (vm *Instance) WatchFunc(expr string, getter reactive.Getter, h WatchHandler) func() {
	var cb reactive.Callback
	if h.Handler != nil {
		cb = func(newValue, oldValue any) error {
			return h.Handler(vm, newValue, oldValue)
		}
	}
	return reactive.WatchOwned(vm.rt, vm, getter, cb, reactive.WatchOptions{
		Deep:       h.Deep,
		Sync:       h.Sync,
		Immediate:  h.Immediate,
		Expression: expr,
	})
}

var invalidPath = regexp.MustCompile(`[^\p{L}\p{N}_.$]`)

// parsePath builds a getter for a dot-delimited path rooted at vm.
func (vm *Instance) parsePath(path string) (reactive.Getter, error) {
	if path == "" || invalidPath.MatchString(path) {
		return nil, fmt.Errorf("%q: %w", path, reactive.ErrInvalidPath)
	}
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%q: %w", path, reactive.ErrInvalidPath)
		}
	}

	return func() (any, error) {
		head := segments[0]
		var v any
		if vm.keys[head] == keyComputed {
			cv, err := vm.Computed(head)
			if err != nil {
				return nil, err
			}
			v = cv
		} else {
			v = vm.Get(head)
		}
		for _, s := range segments[1:] {
			if v == nil {
				return nil, nil
			}
			v = lookup(v, s)
		}
		return v, nil
	}, nil
}

// lookup reads one path segment from a container.
func lookup(v any, key string) any {
	switch c := v.(type) {
	case *reactive.Object:
		return c.Get(key)
	case *reactive.Array:
		i, err := strconv.Atoi(key)
		if err != nil {
			return nil
		}
		return c.Get(i)
	case map[string]any:
		return c[key]
	case *Instance:
		return c.Get(key)
	}
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
