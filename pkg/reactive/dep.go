package reactive

// Subscriber is anything a Dep can notify. Watchers are the only subscribers
// created by the runtime.
type Subscriber interface {
	// ID returns a unique identifier used for deduplication.
	ID() uint64

	// Update is called when a dependency changed.
	Update() error
}

// Dep is the subscription list of one reactive value: an object slot, or a
// whole container.
type Dep struct {
	id   uint64
	rt   *Runtime
	subs []Subscriber
}

func newDep(rt *Runtime) *Dep {
	return &Dep{id: NextID(), rt: rt}
}

// ID returns the unique identifier for this dep.
func (d *Dep) ID() uint64 {
	return d.id
}

// Subscribe adds s unless a subscriber with the same ID is already present.
func (d *Dep) Subscribe(s Subscriber) {
	if s == nil {
		return
	}
	id := s.ID()
	for _, existing := range d.subs {
		if existing.ID() == id {
			return
		}
	}
	d.subs = append(d.subs, s)
}

// Unsubscribe removes s, keeping the order of the remaining subscribers.
func (d *Dep) Unsubscribe(s Subscriber) {
	if s == nil {
		return
	}
	id := s.ID()
	for i, existing := range d.subs {
		if existing.ID() == id {
			copy(d.subs[i:], d.subs[i+1:])
			d.subs[len(d.subs)-1] = nil
			d.subs = d.subs[:len(d.subs)-1]
			return
		}
	}
}

// Subscribers returns the number of current subscribers.
func (d *Dep) Subscribers() int {
	return len(d.subs)
}

// Depend registers the active watcher, if any, as a subscriber.
func (d *Dep) Depend() {
	if w := d.rt.target; w != nil {
		w.addDep(d)
	}
}

// Notify calls Update on every subscriber in insertion order. The list is
// copied first so subscription changes made by a subscriber only take effect
// on the next notification. A failing subscriber is reported and the rest are
// still notified.
func (d *Dep) Notify() {
	subs := make([]Subscriber, len(d.subs))
	copy(subs, d.subs)

	for _, sub := range subs {
		if err := d.rt.call0(sub.Update); err != nil {
			var owner Owner
			if w, ok := sub.(*Watcher); ok {
				owner = w.owner
			}
			d.rt.report("R015", err, owner, "dep notify")
		}
	}
}
