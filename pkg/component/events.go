package component

import (
	"fmt"
	"strings"
)

// EventHandler handles an instance event.
type EventHandler func(vm *Instance, args ...any) error

type listener struct {
	fn   EventHandler
	once bool
}

func (vm *Instance) initEvents() {
	vm.events = make(map[string][]*listener)
}

// On registers fn for event and returns a function that removes it.
// Listeners on "hook:<name>" run after the named lifecycle hook.
func (vm *Instance) On(event string, fn EventHandler) func() {
	return vm.listen(event, fn, false)
}

// Once is On for a listener that is removed after its first call.
func (vm *Instance) Once(event string, fn EventHandler) func() {
	return vm.listen(event, fn, true)
}

func (vm *Instance) listen(event string, fn EventHandler, once bool) func() {
	l := &listener{fn: fn, once: once}
	vm.events[event] = append(vm.events[event], l)
	if strings.HasPrefix(event, "hook:") {
		vm.hasHookEvent = true
	}
	return func() { vm.removeListener(event, l) }
}

func (vm *Instance) removeListener(event string, l *listener) {
	list := vm.events[event]
	for i, x := range list {
		if x == l {
			vm.events[event] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(vm.events[event]) == 0 {
		delete(vm.events, event)
	}
}

// Off removes every listener of the given events, or of all events when
// none are given.
func (vm *Instance) Off(events ...string) {
	if len(events) == 0 {
		vm.events = make(map[string][]*listener)
		vm.hasHookEvent = false
		return
	}
	for _, e := range events {
		delete(vm.events, e)
	}
}

// Emit calls the listeners of event in registration order. A failing
// listener is reported and the rest still run.
func (vm *Instance) Emit(event string, args ...any) {
	list := vm.events[event]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*listener, len(list))
	copy(snapshot, list)

	info := fmt.Sprintf("event handler for %q", event)
	for _, l := range snapshot {
		if l.once {
			vm.removeListener(event, l)
		}
		vm.rt.Guard(vm, "R017", info, func() error {
			return l.fn(vm, args...)
		})
	}
}
