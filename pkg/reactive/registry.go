package reactive

import (
	"reflect"
	"weak"
)

// rawKey identifies a raw map or slice by its backing storage. Slices also
// key on length so sub-slices of one array are distinct.
type rawKey struct {
	ptr uintptr
	n   int
}

// registry maps raw values to the containers wrapping them. Containers are
// held weakly and keep their source alive, so a live entry never points at a
// reused address.
type registry struct {
	objects map[rawKey]weak.Pointer[Object]
	arrays  map[rawKey]weak.Pointer[Array]
	sweepAt int
}

func keyOf(v any) (rawKey, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return rawKey{ptr: uintptr(rv.UnsafePointer())}, true
	case reflect.Slice:
		// Zero-capacity slices share one address.
		if rv.Cap() == 0 {
			return rawKey{}, false
		}
		return rawKey{ptr: uintptr(rv.UnsafePointer()), n: rv.Len()}, true
	}
	return rawKey{}, false
}

func (g *registry) object(m map[string]any) (rawKey, *Object, bool) {
	k, ok := keyOf(m)
	if !ok {
		return k, nil, false
	}
	if o := g.objects[k].Value(); o != nil {
		return k, o, true
	}
	return k, nil, true
}

func (g *registry) array(s []any) (rawKey, *Array, bool) {
	k, ok := keyOf(s)
	if !ok {
		return k, nil, false
	}
	if a := g.arrays[k].Value(); a != nil {
		return k, a, true
	}
	return k, nil, true
}

func (g *registry) putObject(k rawKey, o *Object) {
	if g.objects == nil {
		g.objects = make(map[rawKey]weak.Pointer[Object])
	}
	g.objects[k] = weak.Make(o)
	g.maybeSweep()
}

func (g *registry) putArray(k rawKey, a *Array) {
	if g.arrays == nil {
		g.arrays = make(map[rawKey]weak.Pointer[Array])
	}
	g.arrays[k] = weak.Make(a)
	g.maybeSweep()
}

// maybeSweep drops collected entries once the registry doubled in size since
// the last sweep.
func (g *registry) maybeSweep() {
	n := len(g.objects) + len(g.arrays)
	if n < g.sweepAt {
		return
	}
	for k, p := range g.objects {
		if p.Value() == nil {
			delete(g.objects, k)
		}
	}
	for k, p := range g.arrays {
		if p.Value() == nil {
			delete(g.arrays, k)
		}
	}
	g.sweepAt = max(64, 2*(len(g.objects)+len(g.arrays)))
}

