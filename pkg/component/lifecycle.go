package component

import (
	"errors"
	"fmt"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// ErrMounted is returned by Mount on an instance that is already mounted.
var ErrMounted = errors.New("component: instance is already mounted")

// initLifecycle links vm under its first non-abstract ancestor.
func (vm *Instance) initLifecycle() {
	parent := vm.options.Parent
	if parent != nil && !vm.options.Abstract {
		for parent.options.Abstract && parent.parent != nil {
			parent = parent.parent
		}
		parent.children = append(parent.children, vm)
	}

	vm.parent = parent
	if parent != nil {
		vm.root = parent.root
	} else {
		vm.root = vm
	}
}

// callHook runs every hook registered under name. Reads inside hooks are not
// tracked; a failing hook is reported and the rest still run.
func (vm *Instance) callHook(name string) {
	hooks := vm.options.Hooks.list(name)
	info := name + " hook"
	vm.rt.Untracked(func() {
		for _, h := range hooks {
			vm.rt.Guard(vm, "R008", info, func() error {
				return h(vm)
			})
		}
		if vm.hasHookEvent {
			vm.Emit("hook:" + name)
		}
	})
	vm.rt.Emit(reactive.Event{Kind: reactive.EventHook, UID: vm.uid, Component: vm.Name(), Detail: name})
}

// Mount creates the render watcher, which renders and patches vm against el
// immediately and again whenever state read by the render function changes.
func (vm *Instance) Mount(el vdom.Handle) error {
	if vm.isBeingDestroyed || vm.isDestroyed {
		return fmt.Errorf("mount %s: %w", vm, ErrDestroyed)
	}
	if vm.watcher != nil {
		return fmt.Errorf("mount %s: %w", vm, ErrMounted)
	}
	vm.el = el
	if err := vm.resolveRender(); err != nil {
		return err
	}

	vm.callHook(HookBeforeMount)

	span := vm.startSpan("component.mount")
	_, err := reactive.NewWatcher(vm.rt, vm, vm.renderAndPatch, nil, reactive.WatcherOptions{
		Render:     true,
		Expression: "render",
		Before: func() {
			if vm.isMounted && !vm.isDestroyed {
				vm.callHook(HookBeforeUpdate)
			}
		},
		OnInit: func(w *reactive.Watcher) {
			vm.watcher = w
		},
	})
	span.End(err)
	if err != nil {
		return fmt.Errorf("mount %s: %w", vm, err)
	}

	vm.isMounted = true
	vm.rt.Metrics().ComponentMounted()
	vm.callHook(HookMounted)
	vm.rt.Emit(reactive.Event{Kind: reactive.EventMount, UID: vm.uid, Component: vm.Name()})
	return nil
}

// resolveRender picks the render function: the Render option, then a
// compiled Template. Without either vm renders an empty node.
func (vm *Instance) resolveRender() error {
	if vm.options.Render != nil {
		vm.renderFn = vm.options.Render
		vm.staticRenders = vm.options.StaticRenders
		return nil
	}
	if vm.options.Template != "" && vm.options.Compiler != nil {
		compiled, err := vm.options.Compiler.Compile(vm.options.Template)
		if err != nil {
			return fmt.Errorf("compile template of %s: %w", vm, err)
		}
		vm.renderFn = compiled.Render
		vm.staticRenders = compiled.StaticRenders
		if vm.renderFn != nil {
			return nil
		}
	}

	detail := "render function or template not defined"
	if vm.options.Template != "" {
		detail = "template given without a compiler"
	}
	vm.rt.WarnCode("R010", nil, vm, detail)
	vm.renderFn = func(*Instance) (*vdom.VNode, error) {
		return vdom.Empty(""), nil
	}
	return nil
}

// renderAndPatch is the getter of the render watcher.
func (vm *Instance) renderAndPatch() (any, error) {
	return nil, vm.update(vm.render())
}

// render runs the render function. On failure the previous tree is reused.
func (vm *Instance) render() *vdom.VNode {
	span := vm.startSpan("component.render")
	var tree *vdom.VNode
	err := vm.rt.Guard(vm, "R009", "render", func() error {
		t, err := vm.renderFn(vm)
		tree = t
		return err
	})
	span.End(err)
	if err != nil {
		tree = vm.vnode
	}
	if tree == nil {
		tree = vdom.Empty("")
	}
	tree.Parent = vm.placeholder
	return tree
}

// update hands the previous and next tree to the patcher.
func (vm *Instance) update(tree *vdom.VNode) error {
	prev := vm.vnode
	vm.vnode = tree
	if vm.options.Patcher == nil {
		return nil
	}

	span := vm.startSpan("component.patch")
	el, err := vm.options.Patcher.Patch(prev, tree)
	span.End(err)
	if err != nil {
		return fmt.Errorf("patch %s: %w", vm, err)
	}
	if el != nil {
		vm.el = el
	}
	return nil
}

// Static renders the static subtree i once and returns the cached tree on
// later calls.
func (vm *Instance) Static(i int) (*vdom.VNode, error) {
	if i < 0 || i >= len(vm.staticRenders) {
		return nil, fmt.Errorf("static tree %d of %s: index out of range", i, vm)
	}
	if len(vm.staticTrees) != len(vm.staticRenders) {
		vm.staticTrees = make([]*vdom.VNode, len(vm.staticRenders))
	}
	if tree := vm.staticTrees[i]; tree != nil {
		return tree, nil
	}
	tree, err := vm.staticRenders[i](vm)
	if err != nil {
		return nil, err
	}
	vm.staticTrees[i] = tree
	return tree, nil
}

// ForceUpdate queues the render watcher.
func (vm *Instance) ForceUpdate() error {
	if vm.watcher == nil {
		return nil
	}
	return vm.watcher.Update()
}

// Destroy tears vm down: it leaves its parent, stops every watcher it owns,
// releases its root data and tears down its rendered tree. Children are not
// destroyed. Destroy is idempotent.
func (vm *Instance) Destroy() {
	if vm.isBeingDestroyed {
		return
	}
	vm.callHook(HookBeforeDestroy)
	vm.isBeingDestroyed = true

	parent := vm.parent
	if parent != nil && !parent.isBeingDestroyed && !vm.options.Abstract {
		parent.removeChild(vm)
	}

	if vm.watcher != nil {
		vm.watcher.Teardown()
	}
	for i := len(vm.watchers) - 1; i >= 0; i-- {
		vm.watchers[i].Teardown()
	}
	vm.watchers = nil

	if vm.data != nil {
		reactive.ReleaseRoot(vm.data)
	}
	vm.isDestroyed = true

	if vm.options.Patcher != nil && vm.vnode != nil {
		if _, err := vm.options.Patcher.Patch(vm.vnode, nil); err != nil {
			vm.rt.HandleError(err, vm, "teardown patch")
		}
	}

	vm.callHook(HookDestroyed)
	vm.Off()

	if vm.placeholder != nil {
		vm.placeholder.Parent = nil
	}
	if vm.isMounted {
		vm.rt.Metrics().ComponentDestroyed()
	}
	vm.rt.Emit(reactive.Event{Kind: reactive.EventDestroy, UID: vm.uid, Component: vm.Name()})
}

func (vm *Instance) removeChild(child *Instance) {
	for i, c := range vm.children {
		if c == child {
			vm.children = append(vm.children[:i], vm.children[i+1:]...)
			return
		}
	}
}

// inInactiveTree reports whether an ancestor of vm is inactive.
func (vm *Instance) inInactiveTree() bool {
	for p := vm.parent; p != nil; p = p.parent {
		if p.active == activationInactive {
			return true
		}
	}
	return false
}

// Activate marks vm and its subtree active and fires activated on each
// instance that was not already active. A direct activation clears the
// instance's own deactivation but does nothing under an inactive ancestor;
// an indirect one skips instances deactivated directly.
func (vm *Instance) Activate(direct bool) {
	if direct {
		vm.directInactive = false
		if vm.inInactiveTree() {
			return
		}
	} else if vm.directInactive {
		return
	}
	if vm.active == activationActive {
		return
	}
	vm.active = activationActive
	for _, c := range vm.Children() {
		c.Activate(false)
	}
	vm.callHook(HookActivated)
}

// Deactivate marks vm and its subtree inactive and fires deactivated on each
// instance that was not already inactive.
func (vm *Instance) Deactivate(direct bool) {
	if direct {
		vm.directInactive = true
		if vm.inInactiveTree() {
			return
		}
	}
	if vm.active == activationInactive {
		return
	}
	vm.active = activationInactive
	for _, c := range vm.Children() {
		c.Deactivate(false)
	}
	vm.callHook(HookDeactivated)
}

// QueueActivated marks vm active for the current flush and activates it
// after the flush completes, once every re-render has run.
func (vm *Instance) QueueActivated() {
	vm.active = activationActive
	vm.rt.Scheduler().QueuePostFlush(func() {
		vm.active = activationInactive
		vm.Activate(true)
	})
}
