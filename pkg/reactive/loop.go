package reactive

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
)

// ErrLoopClosed is returned by Do after the loop stopped.
var ErrLoopClosed = errors.New("reactor: loop closed")

// Loop is a Dispatcher that runs posted tasks on the goroutine calling Run.
// Post never blocks, so a task may post further tasks.
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	wake   chan struct{}
	done   chan struct{}
	closed bool
	logger *slog.Logger
}

// NewLoop creates a loop. A nil logger means slog.Default().
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Post queues task. Tasks posted after the loop stopped are dropped.
func (l *Loop) Post(task func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	l.Post(func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: string(debug.Stack())}
			}
			result <- err
		}()
		err = fn()
	})
	select {
	case err := <-result:
		return err
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes posted tasks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.drain()
		select {
		case <-l.wake:
		case <-l.done:
			return nil
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		}
	}
}

// Close stops the loop. Pending tasks are discarded.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.tasks = nil
	close(l.done)
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return
		}
		task := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		l.execute(task)
	}
}

func (l *Loop) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	task()
}
