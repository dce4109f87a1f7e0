package component

import (
	"errors"
	"testing"

	rerrors "github.com/vango-dev/reactor/internal/errors"
)

func TestEvents(t *testing.T) {
	rt, _ := newTestRuntime(t)
	vm := mustNew(t, rt, Options{})

	var got []any
	remove := vm.On("save", func(_ *Instance, args ...any) error {
		got = append(got, args...)
		return nil
	})
	onceCalls := 0
	vm.Once("save", func(*Instance, ...any) error {
		onceCalls++
		return nil
	})

	vm.Emit("save", 1, 2)
	vm.Emit("save", 3)
	if len(got) != 3 || got[2] != 3 {
		t.Errorf("got %v, want [1 2 3]", got)
	}
	if onceCalls != 1 {
		t.Errorf("got %d once calls, want 1", onceCalls)
	}

	remove()
	vm.Emit("save", 4)
	if len(got) != 3 {
		t.Errorf("removed listener ran, got %v", got)
	}
}

func TestOff(t *testing.T) {
	rt, _ := newTestRuntime(t)
	vm := mustNew(t, rt, Options{})

	calls := 0
	count := func(*Instance, ...any) error { calls++; return nil }
	vm.On("a", count)
	vm.On("b", count)
	vm.On("c", count)

	vm.Off("a")
	vm.Emit("a")
	vm.Emit("b")
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}

	vm.Off()
	vm.Emit("b")
	vm.Emit("c")
	if calls != 1 {
		t.Errorf("got %d calls after Off(), want 1", calls)
	}
}

func TestEventHandlerErrorsAreIsolated(t *testing.T) {
	rt, rec := newTestRuntime(t)
	vm := mustNew(t, rt, Options{})

	ran := false
	vm.On("x", func(*Instance, ...any) error { return errors.New("handler failed") })
	vm.On("x", func(*Instance, ...any) error { ran = true; return nil })
	vm.Emit("x")

	if !ran {
		t.Error("second handler should run")
	}
	if len(rec.errs) != 1 || rerrors.CodeOf(rec.errs[0]) != "R017" {
		t.Errorf("got %v, want one R017 error", rec.errs)
	}
}

func TestHookEvents(t *testing.T) {
	rt, _ := newTestRuntime(t)
	log := &hookLog{}
	vm := mustNew(t, rt, Options{Name: "Widget", Hooks: log.all()})

	vm.On("hook:mounted", func(vm *Instance, _ ...any) error {
		log.calls = append(log.calls, "event:mounted")
		return nil
	})
	log.reset()
	if err := vm.Mount(nil); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	want := []string{"Widget:beforeMount", "Widget:mounted", "event:mounted"}
	if !equalStrings(log.calls, want) {
		t.Errorf("got %v, want %v", log.calls, want)
	}
}
