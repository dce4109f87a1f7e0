// Package component implements component instances on top of the reactive
// runtime.
//
// An Instance is created from merged Options. Creation links it under its
// first non-abstract parent, runs the beforeCreate hook, declares props,
// methods, data, computed properties and watches, then runs created.
//
//	vm, err := component.New(rt, component.Options{
//	    Name: "Counter",
//	    Data: func(*component.Instance) (map[string]any, error) {
//	        return map[string]any{"count": 0}, nil
//	    },
//	    Render: func(vm *component.Instance) (*vdom.VNode, error) {
//	        return vdom.El("p", vdom.Textf("%v", vm.Get("count"))), nil
//	    },
//	    Patcher: host,
//	})
//
// Mount creates the render watcher. Every change to state read during render
// queues it on the runtime's scheduler; parents re-render before children
// and beforeUpdate and updated hooks bracket each re-render. Destroy stops
// every watcher the instance owns and tears its tree down through the
// Patcher.
//
// Activate and Deactivate implement keep-alive: they walk the subtree and
// fire activated and deactivated once per transition.
package component
