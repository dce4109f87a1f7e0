// Package reactive provides the dependency-tracking core of the reactor runtime.
//
// State is held in explicit reactive containers. Reading a container during
// the evaluation of a Watcher subscribes that watcher to the value; writing the
// value notifies every subscriber. There is no transparent field interception:
// all reads and writes go through the container API.
//
// # Core Types
//
// Object is a reactive record and Array a reactive sequence:
//
//	rt := reactive.New()
//	state := rt.NewObject(map[string]any{"count": 0, "todos": []any{}})
//	state.Get("count")            // tracked read
//	state.Set("count", 1)         // write, notifies subscribers
//	state.Get("todos").(*reactive.Array).Push("write docs")
//
// Watcher is a computation unit. It evaluates a getter, records the
// dependencies the getter touched and reacts when one of them changes:
//
//	stop := rt.Watch(func() (any, error) {
//	    return state.Get("count"), nil
//	}, func(newValue, oldValue any) error {
//	    fmt.Println(oldValue, "->", newValue)
//	    return nil
//	}, reactive.WatchOptions{})
//	defer stop()
//
// Computed is a lazy watcher that caches its value until a dependency changes:
//
//	total := rt.Computed(func() (any, error) {
//	    return state.Get("a").(int) + state.Get("b").(int), nil
//	})
//	v, _ := total.Get()
//
// # Scheduling
//
// Watchers that are neither lazy nor sync are queued on the Scheduler. Any
// number of writes before the next tick collapse into one run per watcher,
// executed in ascending creation order:
//
//	state.Set("count", 1)
//	state.Set("count", 2)
//	rt.Tick() // the watcher above runs once and sees 2
//
// The runtime posts flushes to a Dispatcher. The default dispatcher is an
// internal queue drained by Runtime.Tick; a Loop runs posted tasks on its own
// goroutine.
//
// # Threading
//
// A Runtime is single-threaded. Every container, watcher and the scheduler
// must be used from one goroutine at a time, typically the Loop's goroutine.
// The active-watcher stack lives on the Runtime, so independent runtimes may
// run on different goroutines.
package reactive
