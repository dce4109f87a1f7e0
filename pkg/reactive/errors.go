package reactive

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	rerrors "github.com/vango-dev/reactor/internal/errors"
)

// ErrCircularUpdate is reported when a watcher re-queues itself more than
// Config.MaxUpdateCount times within one flush.
var ErrCircularUpdate = errors.New("reactor: circular update")

// ErrRootMutation is reported when a key is added to or deleted from the root
// data of a component instance.
var ErrRootMutation = errors.New("reactor: mutation of root data")

// ErrInvalidTarget is reported when SetProperty or DeleteProperty receives a
// nil or primitive target.
var ErrInvalidTarget = errors.New("reactor: invalid mutation target")

// ErrIntegrity is reported when an internal invariant is violated.
var ErrIntegrity = errors.New("reactor: integrity violation")

// ErrInvalidPath is reported when a watch path is not a dot-delimited key path.
var ErrInvalidPath = errors.New("reactor: invalid watch path")

// PanicError is a recovered panic from user code.
type PanicError struct {
	Value any
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ErrorHandler receives every error reported to the runtime's error channel.
// owner is the component or scope the error belongs to and may be nil.
// info describes what the runtime was doing (e.g. "render", "mounted hook").
type ErrorHandler func(err error, owner Owner, info string)

// WarnHandler receives warnings.
type WarnHandler func(msg string, owner Owner)

// Named is implemented by owners that have a display name.
type Named interface {
	Name() string
}

func ownerName(owner Owner) string {
	if owner == nil {
		return ""
	}
	if n, ok := owner.(Named); ok {
		return n.Name()
	}
	return ""
}

// HandleError is the runtime's single error channel. The configured handler
// is called if present; otherwise the error is logged and execution continues.
func (r *Runtime) HandleError(err error, owner Owner, info string) {
	if err == nil {
		return
	}
	r.metrics.IncError(info)
	r.emit(Event{Kind: EventError, Component: ownerName(owner), UID: ownerUID(owner), Detail: err.Error()})

	if r.errorHandler != nil {
		herr := r.call0(func() error {
			r.errorHandler(err, owner, info)
			return nil
		})
		if herr == nil {
			return
		}
		r.logError(herr, owner, "errorHandler")
	}
	r.logError(err, owner, info)
}

func (r *Runtime) logError(err error, owner Owner, info string) {
	attrs := []any{"context", info, "error", err}
	if name := ownerName(owner); name != "" {
		attrs = append(attrs, "component", name)
	}
	if code := rerrors.CodeOf(err); code != "" {
		attrs = append(attrs, "code", code)
	}
	r.logger.Error("reactor error", attrs...)
}

// report wraps err in a coded error and sends it to the error channel.
func (r *Runtime) report(code string, err error, owner Owner, info string) {
	coded := rerrors.New(code).WithInfo(info).WithComponent(ownerName(owner)).Wrap(err)
	r.HandleError(coded, owner, info)
}

// Warn reports a non-fatal problem unless the runtime is silent.
func (r *Runtime) Warn(msg string, owner Owner) {
	if r.config.Silent {
		return
	}
	r.emit(Event{Kind: EventWarn, Component: ownerName(owner), UID: ownerUID(owner), Detail: msg})
	if r.warnHandler != nil {
		r.warnHandler(msg, owner)
		return
	}
	attrs := []any{"msg", msg}
	if name := ownerName(owner); name != "" {
		attrs = append(attrs, "component", name)
	}
	r.logger.Warn("reactor warning", attrs...)
}

// WarnCode warns with a registered error code. detail is appended in
// parentheses when set.
func (r *Runtime) WarnCode(code string, cause error, owner Owner, detail string) {
	err := rerrors.New(code).WithComponent(ownerName(owner)).Wrap(cause)
	msg := err.Error()
	if detail != "" {
		msg += " (" + detail + ")"
	}
	r.Warn(msg, owner)
}

// integrity reports a violated internal invariant. In strict mode it panics.
func (r *Runtime) integrity(detail string) {
	err := rerrors.New("R011").WithDetail(detail).Wrap(ErrIntegrity)
	if r.config.Strict {
		panic(err)
	}
	r.Warn(err.Error()+": "+detail, nil)
}

// call runs a getter, converting a panic into a *PanicError.
func (r *Runtime) call(fn Getter) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: captureStack()}
		}
	}()
	return fn()
}

// call0 runs fn, converting a panic into a *PanicError.
func (r *Runtime) call0(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: captureStack()}
		}
	}()
	return fn()
}

// Guard runs fn and reports any returned error or panic to the error channel
// with the given context. It returns the error that was reported.
func (r *Runtime) Guard(owner Owner, code, info string, fn func() error) error {
	err := r.call0(fn)
	if err != nil {
		r.report(code, err, owner, info)
	}
	return err
}

// captureStack returns the current call stack, skipping the recovery frames.
func captureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(4, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}

// =============================================================================
// Events
// =============================================================================

// Event kinds emitted to an EventSink.
const (
	EventFlush   = "flush"
	EventHook    = "hook"
	EventError   = "error"
	EventWarn    = "warn"
	EventCreate  = "create"
	EventMount   = "mount"
	EventDestroy = "destroy"
)

// Event is a runtime occurrence reported to an EventSink.
type Event struct {
	Kind      string    `json:"kind"`
	UID       uint64    `json:"uid,omitempty"`
	Component string    `json:"component,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Time      time.Time `json:"time"`
}

// EventSink receives runtime events. Emit is called on the runtime's thread.
type EventSink interface {
	Emit(Event)
}

// Emit sends an event to the attached sink, if any.
func (r *Runtime) Emit(ev Event) {
	r.emit(ev)
}

func (r *Runtime) emit(ev Event) {
	if r.sink == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	r.sink.Emit(ev)
}

// Identified is implemented by owners with a stable numeric id.
type Identified interface {
	UID() uint64
}

func ownerUID(owner Owner) uint64 {
	if owner == nil {
		return 0
	}
	if id, ok := owner.(Identified); ok {
		return id.UID()
	}
	return 0
}
