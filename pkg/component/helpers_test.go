package component

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// recorder collects errors and warnings sent to a runtime.
type recorder struct {
	errs  []error
	infos []string
	warns []string
}

func newTestRuntime(t *testing.T) (*reactive.Runtime, *recorder) {
	t.Helper()
	rec := &recorder{}
	rt := reactive.New(
		reactive.WithErrorHandler(func(err error, owner reactive.Owner, info string) {
			rec.errs = append(rec.errs, err)
			rec.infos = append(rec.infos, info)
		}),
		reactive.WithWarnHandler(func(msg string, owner reactive.Owner) {
			rec.warns = append(rec.warns, msg)
		}),
	)
	return rt, rec
}

func (rec *recorder) warned(code string) bool {
	for _, w := range rec.warns {
		if strings.Contains(w, code) {
			return true
		}
	}
	return false
}

// hookLog records hook calls as "<name>:<hook>".
type hookLog struct {
	calls []string
}

func (l *hookLog) hook(name string) HookFunc {
	return func(vm *Instance) error {
		l.calls = append(l.calls, fmt.Sprintf("%s:%s", vm.Name(), name))
		return nil
	}
}

// all registers a logging hook for every lifecycle hook.
func (l *hookLog) all() Hooks {
	return Hooks{
		BeforeCreate:  []HookFunc{l.hook(HookBeforeCreate)},
		Created:       []HookFunc{l.hook(HookCreated)},
		BeforeMount:   []HookFunc{l.hook(HookBeforeMount)},
		Mounted:       []HookFunc{l.hook(HookMounted)},
		BeforeUpdate:  []HookFunc{l.hook(HookBeforeUpdate)},
		Updated:       []HookFunc{l.hook(HookUpdated)},
		Activated:     []HookFunc{l.hook(HookActivated)},
		Deactivated:   []HookFunc{l.hook(HookDeactivated)},
		BeforeDestroy: []HookFunc{l.hook(HookBeforeDestroy)},
		Destroyed:     []HookFunc{l.hook(HookDestroyed)},
	}
}

func (l *hookLog) count(entry string) int {
	n := 0
	for _, c := range l.calls {
		if c == entry {
			n++
		}
	}
	return n
}

func (l *hookLog) reset() { l.calls = nil }

func mustNew(t *testing.T, rt *reactive.Runtime, opts Options) *Instance {
	t.Helper()
	vm, err := New(rt, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return vm
}

func dataOf(m map[string]any) DataFunc {
	return func(*Instance) (map[string]any, error) {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
