package component

import (
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Hook names.
const (
	HookBeforeCreate  = "beforeCreate"
	HookCreated       = "created"
	HookBeforeMount   = "beforeMount"
	HookMounted       = "mounted"
	HookBeforeUpdate  = "beforeUpdate"
	HookUpdated       = "updated"
	HookActivated     = "activated"
	HookDeactivated   = "deactivated"
	HookBeforeDestroy = "beforeDestroy"
	HookDestroyed     = "destroyed"
)

// HookFunc is a lifecycle hook. Returned errors and panics are reported and
// do not stop the remaining hooks.
type HookFunc func(vm *Instance) error

// Hooks lists the lifecycle hooks of a component. Each list runs in order.
type Hooks struct {
	BeforeCreate  []HookFunc
	Created       []HookFunc
	BeforeMount   []HookFunc
	Mounted       []HookFunc
	BeforeUpdate  []HookFunc
	Updated       []HookFunc
	Activated     []HookFunc
	Deactivated   []HookFunc
	BeforeDestroy []HookFunc
	Destroyed     []HookFunc
}

func (h *Hooks) list(name string) []HookFunc {
	switch name {
	case HookBeforeCreate:
		return h.BeforeCreate
	case HookCreated:
		return h.Created
	case HookBeforeMount:
		return h.BeforeMount
	case HookMounted:
		return h.Mounted
	case HookBeforeUpdate:
		return h.BeforeUpdate
	case HookUpdated:
		return h.Updated
	case HookActivated:
		return h.Activated
	case HookDeactivated:
		return h.Deactivated
	case HookBeforeDestroy:
		return h.BeforeDestroy
	case HookDestroyed:
		return h.Destroyed
	}
	return nil
}

func mergeHooks(base, override Hooks) Hooks {
	return Hooks{
		BeforeCreate:  concat(base.BeforeCreate, override.BeforeCreate),
		Created:       concat(base.Created, override.Created),
		BeforeMount:   concat(base.BeforeMount, override.BeforeMount),
		Mounted:       concat(base.Mounted, override.Mounted),
		BeforeUpdate:  concat(base.BeforeUpdate, override.BeforeUpdate),
		Updated:       concat(base.Updated, override.Updated),
		Activated:     concat(base.Activated, override.Activated),
		Deactivated:   concat(base.Deactivated, override.Deactivated),
		BeforeDestroy: concat(base.BeforeDestroy, override.BeforeDestroy),
		Destroyed:     concat(base.Destroyed, override.Destroyed),
	}
}

func concat[T any](a, b []T) []T {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// DataFunc returns the initial root data of an instance.
type DataFunc func(vm *Instance) (map[string]any, error)

// ComputedFunc derives a cached value from instance state.
type ComputedFunc func(vm *Instance) (any, error)

// MethodFunc is an instance method.
type MethodFunc func(vm *Instance, args ...any) (any, error)

// RenderFunc produces the virtual tree of an instance.
type RenderFunc func(vm *Instance) (*vdom.VNode, error)

// WatchHandler reacts to a change of a watched path.
type WatchHandler struct {
	Handler   func(vm *Instance, newValue, oldValue any) error
	Deep      bool
	Immediate bool
	Sync      bool
}

// Patcher applies virtual trees to a host. It is called with (nil, tree) to
// mount, (prev, tree) to update and (tree, nil) to tear down.
type Patcher interface {
	Patch(prev, next *vdom.VNode) (vdom.Handle, error)
}

// CompiledTemplate is the output of a Compiler.
type CompiledTemplate struct {
	Render        RenderFunc
	StaticRenders []RenderFunc
}

// Compiler turns a template into render functions.
type Compiler interface {
	Compile(template string) (*CompiledTemplate, error)
}

// Options describes a component.
type Options struct {
	Name     string
	Parent   *Instance
	Abstract bool

	Data      DataFunc
	Props     []string
	PropsData map[string]any
	Computed  map[string]ComputedFunc
	Watch     map[string][]WatchHandler
	Methods   map[string]MethodFunc

	Render        RenderFunc
	StaticRenders []RenderFunc
	Template      string
	Compiler      Compiler
	Patcher       Patcher

	Hooks  Hooks
	Mixins []Options

	// Placeholder is the node standing for this instance in its parent's
	// tree, if any.
	Placeholder *vdom.VNode
}

// MergeOptions combines base and override into a new Options. Mixins of
// override are applied on top of base first. Hooks and watch handlers
// concatenate base first; data merges key by key with override winning;
// computed properties and methods are replaced by key; other fields are
// replaced when set in override.
func MergeOptions(base, override Options) Options {
	for _, mixin := range override.Mixins {
		base = MergeOptions(base, mixin)
	}

	out := Options{
		Name:          pick(base.Name, override.Name),
		Parent:        base.Parent,
		Abstract:      base.Abstract || override.Abstract,
		Data:          mergeDataFuncs(base.Data, override.Data),
		Props:         union(base.Props, override.Props),
		PropsData:     mergeMaps(base.PropsData, override.PropsData),
		Computed:      mergeMaps(base.Computed, override.Computed),
		Watch:         mergeWatch(base.Watch, override.Watch),
		Methods:       mergeMaps(base.Methods, override.Methods),
		Render:        base.Render,
		StaticRenders: base.StaticRenders,
		Template:      pick(base.Template, override.Template),
		Compiler:      base.Compiler,
		Patcher:       base.Patcher,
		Hooks:         mergeHooks(base.Hooks, override.Hooks),
		Placeholder:   base.Placeholder,
	}
	if override.Parent != nil {
		out.Parent = override.Parent
	}
	if override.Render != nil {
		out.Render = override.Render
	}
	if override.StaticRenders != nil {
		out.StaticRenders = override.StaticRenders
	}
	if override.Compiler != nil {
		out.Compiler = override.Compiler
	}
	if override.Patcher != nil {
		out.Patcher = override.Patcher
	}
	if override.Placeholder != nil {
		out.Placeholder = override.Placeholder
	}
	return out
}

func pick(base, override string) string {
	if override != "" {
		return override
	}
	return base
}

func union(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func mergeMaps[V any](base, override map[string]V) map[string]V {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]V, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func mergeWatch(base, override map[string][]WatchHandler) map[string][]WatchHandler {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string][]WatchHandler, len(base)+len(override))
	for k, v := range base {
		out[k] = concat(nil, v)
	}
	for k, v := range override {
		out[k] = concat(out[k], v)
	}
	return out
}

func mergeDataFuncs(base, override DataFunc) DataFunc {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}
	return func(vm *Instance) (map[string]any, error) {
		from, err := base(vm)
		if err != nil {
			return nil, err
		}
		to, err := override(vm)
		if err != nil {
			return nil, err
		}
		return mergeData(to, from), nil
	}
}

// mergeData adds keys of from missing in to, recursing into nested maps.
func mergeData(to, from map[string]any) map[string]any {
	if to == nil {
		to = make(map[string]any, len(from))
	}
	for k, fromVal := range from {
		toVal, ok := to[k]
		if !ok {
			to[k] = fromVal
			continue
		}
		toMap, ok1 := toVal.(map[string]any)
		fromMap, ok2 := fromVal.(map[string]any)
		if ok1 && ok2 {
			to[k] = mergeData(toMap, fromMap)
		}
	}
	return to
}

// Definition is a reusable component description, the result of merging
// options at definition time.
type Definition struct {
	options Options
}

// Define creates a definition from opts.
func Define(opts Options) *Definition {
	return &Definition{options: MergeOptions(Options{}, opts)}
}

// Extend returns a new definition with opts merged over d.
func (d *Definition) Extend(opts Options) *Definition {
	return &Definition{options: MergeOptions(d.options, opts)}
}

// Options returns the merged options.
func (d *Definition) Options() Options {
	return d.options
}
