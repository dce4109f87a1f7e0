package reactive

// traverse reads every value reachable from v so that the active watcher
// subscribes to all nested deps. Each container is visited once.
func traverse(v any) {
	traverseSeen(v, make(map[uint64]struct{}))
}

func traverseSeen(v any, seen map[uint64]struct{}) {
	switch t := v.(type) {
	case *Object:
		id := t.ob.dep.ID()
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		for _, k := range t.Keys() {
			traverseSeen(t.Get(k), seen)
		}
	case *Array:
		id := t.ob.dep.ID()
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		for i, n := 0, t.Len(); i < n; i++ {
			traverseSeen(t.Get(i), seen)
		}
	}
}
