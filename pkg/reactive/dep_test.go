package reactive

import (
	"errors"
	"testing"

	rerrors "github.com/vango-dev/reactor/internal/errors"
)

func TestDepSubscribeDedup(t *testing.T) {
	rt := New()
	d := newDep(rt)
	s := newFuncSub(func() error { return nil })

	d.Subscribe(s)
	d.Subscribe(s)
	if d.Subscribers() != 1 {
		t.Errorf("expected 1 subscriber, got %d", d.Subscribers())
	}

	d.Unsubscribe(s)
	d.Unsubscribe(s)
	if d.Subscribers() != 0 {
		t.Errorf("expected 0 subscribers, got %d", d.Subscribers())
	}
}

func TestDepNotifyOrder(t *testing.T) {
	rt := New()
	d := newDep(rt)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		d.Subscribe(newFuncSub(func() error {
			order = append(order, i)
			return nil
		}))
	}
	d.Notify()

	want := []int{0, 1, 2}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("got %v, want %v", order, want)
			break
		}
	}
}

func TestDepUnsubscribeKeepsOrder(t *testing.T) {
	rt := New()
	d := newDep(rt)

	var order []string
	a := newFuncSub(func() error { order = append(order, "a"); return nil })
	b := newFuncSub(func() error { order = append(order, "b"); return nil })
	c := newFuncSub(func() error { order = append(order, "c"); return nil })
	d.Subscribe(a)
	d.Subscribe(b)
	d.Subscribe(c)
	d.Unsubscribe(b)
	d.Notify()

	if len(order) != 2 || order[0] != "a" || order[1] != "c" {
		t.Errorf("got %v, want [a c]", order)
	}
}

func TestDepNotifySnapshot(t *testing.T) {
	rt := New()
	d := newDep(rt)

	lateCalls := 0
	late := newFuncSub(func() error {
		lateCalls++
		return nil
	})
	var first *funcSub
	first = newFuncSub(func() error {
		d.Subscribe(late)
		d.Unsubscribe(first)
		return nil
	})
	secondCalls := 0
	second := newFuncSub(func() error {
		secondCalls++
		return nil
	})
	d.Subscribe(first)
	d.Subscribe(second)

	d.Notify()
	if lateCalls != 0 {
		t.Errorf("subscriber added during notify should not be called, got %d", lateCalls)
	}
	if secondCalls != 1 {
		t.Errorf("existing subscriber should be called once, got %d", secondCalls)
	}

	d.Notify()
	if lateCalls != 1 {
		t.Errorf("late subscriber should be called on next notify, got %d", lateCalls)
	}
}

func TestDepNotifyIsolatesFailures(t *testing.T) {
	rt, rec := newTestRuntime(t)
	d := newDep(rt)

	d.Subscribe(newFuncSub(func() error { panic("boom") }))
	d.Subscribe(newFuncSub(func() error { return errors.New("failed") }))
	called := false
	d.Subscribe(newFuncSub(func() error {
		called = true
		return nil
	}))

	d.Notify()

	if !called {
		t.Error("subscriber after failing ones should still be notified")
	}
	if len(rec.errs) != 2 {
		t.Fatalf("expected 2 reported errors, got %d", len(rec.errs))
	}
	var pe *PanicError
	if !errors.As(rec.errs[0], &pe) {
		t.Errorf("expected PanicError, got %v", rec.errs[0])
	} else if pe.Value != "boom" {
		t.Errorf("got panic value %v, want boom", pe.Value)
	}
	if code := rerrors.CodeOf(rec.errs[1]); code != "R015" {
		t.Errorf("got code %q, want R015", code)
	}
	if rec.infos[0] != "dep notify" {
		t.Errorf("got info %q, want %q", rec.infos[0], "dep notify")
	}
}

func TestDepDependWithoutTarget(t *testing.T) {
	rt := New()
	d := newDep(rt)
	d.Depend()
	if d.Subscribers() != 0 {
		t.Errorf("Depend without active watcher should not subscribe, got %d", d.Subscribers())
	}
}
