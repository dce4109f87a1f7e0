package reactive

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopRunsFlushes(t *testing.T) {
	loop := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	rt := New(WithDispatcher(loop))
	var obj *Object
	var seen []any

	err := loop.Do(ctx, func() error {
		obj = rt.NewObject(map[string]any{"a": 1})
		rt.Watch(func() (any, error) {
			return obj.Get("a"), nil
		}, func(newValue, _ any) error {
			seen = append(seen, newValue)
			return nil
		}, WatchOptions{})
		obj.Set("a", 2)
		obj.Set("a", 3)
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	// The flush was posted before this task, so it has run.
	var got []any
	if err := loop.Do(ctx, func() error {
		got = append(got, seen...)
		return nil
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("got %v, want [3]", got)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopDoReturnsErrorsAndPanics(t *testing.T) {
	loop := NewLoop(nil)
	ctx := context.Background()
	go loop.Run(ctx)
	defer loop.Close()

	boom := errors.New("boom")
	if err := loop.Do(ctx, func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}

	err := loop.Do(ctx, func() error { panic("bad") })
	var pe *PanicError
	if !errors.As(err, &pe) || pe.Value != "bad" {
		t.Errorf("got %v, want PanicError", err)
	}

	if err := loop.Do(ctx, func() error { return nil }); err != nil {
		t.Errorf("loop should survive a panicking task, got %v", err)
	}
}

func TestLoopClosed(t *testing.T) {
	loop := NewLoop(nil)
	loop.Close()
	loop.Close()

	if err := loop.Do(context.Background(), func() error { return nil }); !errors.Is(err, ErrLoopClosed) {
		t.Errorf("got %v, want ErrLoopClosed", err)
	}
	if err := loop.Run(context.Background()); err != nil {
		t.Errorf("Run on a closed loop should return nil, got %v", err)
	}
}

func TestLoopPostFromTask(t *testing.T) {
	loop := NewLoop(nil)
	ctx := context.Background()
	go loop.Run(ctx)
	defer loop.Close()

	ran := make(chan struct{})
	loop.Post(func() {
		loop.Post(func() { close(ran) })
	})

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("nested task did not run")
	}
}
