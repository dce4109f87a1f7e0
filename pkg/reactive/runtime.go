package reactive

import (
	"log/slog"

	"github.com/vango-dev/reactor/pkg/telemetry"
)

// DefaultMaxUpdateCount is the number of times a watcher may re-queue itself
// within one flush before it is dropped as a circular update.
const DefaultMaxUpdateCount = 100

// Config holds runtime behavior switches.
type Config struct {
	// Sync flushes the scheduler queue immediately when a watcher is queued
	// instead of on the next tick. Intended for tests and debugging.
	Sync bool

	// MaxUpdateCount bounds per-flush re-entry of a single watcher.
	// Zero means DefaultMaxUpdateCount.
	MaxUpdateCount int

	// Silent suppresses warnings.
	Silent bool

	// Strict turns runtime integrity violations into panics.
	Strict bool

	// Performance records render and patch spans for every component update.
	Performance bool
}

// DefaultConfig returns the default runtime configuration.
func DefaultConfig() Config {
	return Config{MaxUpdateCount: DefaultMaxUpdateCount}
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithConfig sets the runtime configuration.
func WithConfig(cfg Config) Option {
	return func(r *Runtime) {
		if cfg.MaxUpdateCount <= 0 {
			cfg.MaxUpdateCount = DefaultMaxUpdateCount
		}
		r.config = cfg
	}
}

// WithLogger sets the logger used by the default error and warn handlers.
// If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithErrorHandler overrides the default error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Runtime) {
		r.errorHandler = h
	}
}

// WithWarnHandler overrides the default warn handler.
func WithWarnHandler(h WarnHandler) Option {
	return func(r *Runtime) {
		r.warnHandler = h
	}
}

// WithDispatcher sets where next-tick flushes are posted.
func WithDispatcher(d Dispatcher) Option {
	return func(r *Runtime) {
		r.dispatcher = d
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// WithTracer attaches an OpenTelemetry tracer.
func WithTracer(t *telemetry.Tracer) Option {
	return func(r *Runtime) {
		r.tracer = t
	}
}

// WithEventSink attaches a sink receiving runtime events.
func WithEventSink(s EventSink) Option {
	return func(r *Runtime) {
		r.sink = s
	}
}

// Dispatcher receives tasks to run on a later turn of the host's task queue.
// Post may be called while a previously posted task is running.
type Dispatcher interface {
	Post(task func())
}

// Runtime owns the tracking state, the scheduler and the error channel of one
// reactive world.
type Runtime struct {
	config       Config
	logger       *slog.Logger
	errorHandler ErrorHandler
	warnHandler  WarnHandler
	dispatcher   Dispatcher
	metrics      *telemetry.Metrics
	tracer       *telemetry.Tracer
	sink         EventSink

	// target is the watcher currently evaluating. Reads subscribe it.
	target *Watcher

	// targetStack holds the targets suspended by nested evaluations.
	targetStack []*Watcher

	// observing gates wrapping of new values.
	observing bool

	// raws resolves raw maps and slices to their containers.
	raws registry

	scheduler *Scheduler

	// callbacks are next-tick callbacks waiting for the posted flush.
	callbacks []func() error
	pending   bool

	// tasks is the default dispatcher queue drained by Tick.
	tasks []func()
}

// New creates a runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		config:    DefaultConfig(),
		observing: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.dispatcher == nil {
		r.dispatcher = taskQueue{r}
	}
	r.scheduler = newScheduler(r)
	return r
}

// Config returns the runtime configuration.
func (r *Runtime) Config() Config {
	return r.config
}

// Logger returns the runtime logger.
func (r *Runtime) Logger() *slog.Logger {
	return r.logger
}

// Scheduler returns the runtime's update scheduler.
func (r *Runtime) Scheduler() *Scheduler {
	return r.scheduler
}

// Metrics returns the attached collectors, possibly nil.
func (r *Runtime) Metrics() *telemetry.Metrics {
	return r.metrics
}

// Tracer returns the attached tracer, possibly nil.
func (r *Runtime) Tracer() *telemetry.Tracer {
	return r.tracer
}

// =============================================================================
// Dependency tracking
// =============================================================================

// pushTarget makes w the active watcher, suspending the current one.
// A nil w disables tracking until the matching popTarget.
func (r *Runtime) pushTarget(w *Watcher) {
	r.targetStack = append(r.targetStack, r.target)
	r.target = w
}

// popTarget restores the watcher suspended by the matching pushTarget.
func (r *Runtime) popTarget() {
	n := len(r.targetStack)
	if n == 0 {
		r.integrity("popTarget called with an empty target stack")
		r.target = nil
		return
	}
	r.target = r.targetStack[n-1]
	r.targetStack[n-1] = nil
	r.targetStack = r.targetStack[:n-1]
}

// Tracking reports whether a watcher is currently collecting dependencies.
func (r *Runtime) Tracking() bool {
	return r.target != nil
}

// Untracked runs fn without tracking reads as dependencies.
func (r *Runtime) Untracked(fn func()) {
	r.pushTarget(nil)
	defer r.popTarget()
	fn()
}

// ToggleObserving enables or disables wrapping of newly stored values and
// returns the previous setting.
func (r *Runtime) ToggleObserving(on bool) bool {
	old := r.observing
	r.observing = on
	return old
}

// =============================================================================
// Next tick
// =============================================================================

// NextTick runs fn after the current synchronous work, on the dispatcher's
// next turn. Callbacks queued before that turn run in order in one task.
func (r *Runtime) NextTick(fn func() error) {
	r.callbacks = append(r.callbacks, fn)
	if !r.pending {
		r.pending = true
		r.dispatcher.Post(r.flushCallbacks)
	}
}

func (r *Runtime) flushCallbacks() {
	r.pending = false
	callbacks := r.callbacks
	r.callbacks = nil
	for _, cb := range callbacks {
		if err := r.call0(cb); err != nil {
			r.report("R012", err, nil, "nextTick")
		}
	}
}

// taskQueue is the default dispatcher: tasks wait until Runtime.Tick.
type taskQueue struct {
	r *Runtime
}

func (q taskQueue) Post(task func()) {
	q.r.tasks = append(q.r.tasks, task)
}

// Tick runs tasks posted to the default dispatcher until none remain and
// returns how many ran. With a custom dispatcher it returns 0.
func (r *Runtime) Tick() int {
	n := 0
	for len(r.tasks) > 0 {
		task := r.tasks[0]
		r.tasks[0] = nil
		r.tasks = r.tasks[1:]
		task()
		n++
	}
	return n
}
