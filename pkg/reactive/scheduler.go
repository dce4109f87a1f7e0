package reactive

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Scheduler batches watcher runs. Watchers queued before a flush run once,
// in ascending id order, when the flush task posted on the next tick runs.
type Scheduler struct {
	rt *Runtime

	queue     []*Watcher
	has       map[uint64]bool
	circular  map[uint64]int
	dropped   map[uint64]bool
	postFlush []func()

	// waiting is true from the first Queue call until the flush resets.
	waiting  bool
	flushing bool
	index    int
}

func newScheduler(rt *Runtime) *Scheduler {
	return &Scheduler{
		rt:       rt,
		has:      make(map[uint64]bool),
		circular: make(map[uint64]int),
		dropped:  make(map[uint64]bool),
	}
}

// Queue adds w to the pending flush. A watcher already queued is skipped.
// During a flush, w is inserted by id after the watcher currently running, so
// it still runs in this flush.
func (s *Scheduler) Queue(w *Watcher) {
	id := w.id
	if s.has[id] {
		return
	}
	if s.flushing && s.dropped[id] {
		return
	}
	s.has[id] = true

	if !s.flushing {
		s.queue = append(s.queue, w)
	} else {
		i := len(s.queue) - 1
		for i > s.index && s.queue[i].id > id {
			i--
		}
		s.queue = append(s.queue, nil)
		copy(s.queue[i+2:], s.queue[i+1:])
		s.queue[i+1] = w
	}
	s.schedule()
}

// QueuePostFlush registers fn to run after the next flush drained the queue.
func (s *Scheduler) QueuePostFlush(fn func()) {
	s.postFlush = append(s.postFlush, fn)
	s.schedule()
}

func (s *Scheduler) schedule() {
	if s.waiting {
		return
	}
	s.waiting = true
	if s.rt.config.Sync {
		s.flush()
		return
	}
	s.rt.NextTick(func() error {
		s.flush()
		return nil
	})
}

// Flushing reports whether a flush is in progress.
func (s *Scheduler) Flushing() bool {
	return s.flushing
}

// Pending returns the number of queued watchers that have not run yet.
func (s *Scheduler) Pending() int {
	if s.flushing {
		return len(s.queue) - s.index - 1
	}
	return len(s.queue)
}

func (s *Scheduler) flush() {
	start := time.Now()
	_, span := s.rt.tracer.Start(context.Background(), "reactive.flush")

	s.flushing = true
	sort.SliceStable(s.queue, func(i, j int) bool {
		return s.queue[i].id < s.queue[j].id
	})

	limit := s.rt.config.MaxUpdateCount
	if limit <= 0 {
		limit = DefaultMaxUpdateCount
	}

	runs := 0
	for s.index = 0; s.index < len(s.queue); s.index++ {
		w := s.queue[s.index]
		if w.before != nil {
			if err := s.rt.call0(func() error { w.before(); return nil }); err != nil {
				s.rt.report("R016", err, w.owner, "scheduler flush")
			}
		}
		id := w.id
		delete(s.has, id)
		if err := s.rt.call0(w.Run); err != nil {
			s.rt.report("R016", err, w.owner, "scheduler flush")
		}
		runs++

		if s.has[id] {
			s.circular[id]++
			if s.circular[id] > limit {
				s.drop(w)
			}
		}
	}

	ran := s.queue
	post := s.postFlush
	s.reset()

	s.rt.metrics.ObserveFlush(runs, time.Since(start))
	span.SetInt("reactive.watcher_runs", runs)
	span.End(nil)
	s.rt.emit(Event{Kind: EventFlush, Detail: fmt.Sprintf("%d watcher runs", runs)})

	s.callAfterFlush(ran)
	for _, fn := range post {
		if err := s.rt.call0(func() error { fn(); return nil }); err != nil {
			s.rt.report("R012", err, nil, "post-flush callback")
		}
	}
}

// drop removes w from the rest of the current flush and reports the loop.
func (s *Scheduler) drop(w *Watcher) {
	id := w.id
	s.dropped[id] = true
	delete(s.has, id)

	rest := s.queue[:s.index+1]
	for _, q := range s.queue[s.index+1:] {
		if q.id != id {
			rest = append(rest, q)
		}
	}
	s.queue = rest

	s.rt.metrics.IncCircularUpdate()
	detail := "in a component render function"
	if w.user {
		detail = fmt.Sprintf("in watcher with expression %q", w.expr)
	}
	s.rt.report("R001", fmt.Errorf("%w: %s", ErrCircularUpdate, detail), w.owner, "scheduler flush")
}

// callAfterFlush notifies owners of each watcher that ran, once per watcher
// in ascending id order.
func (s *Scheduler) callAfterFlush(ran []*Watcher) {
	sort.SliceStable(ran, func(i, j int) bool {
		return ran[i].id < ran[j].id
	})
	seen := make(map[uint64]bool, len(ran))
	for _, w := range ran {
		if seen[w.id] {
			continue
		}
		seen[w.id] = true
		pf, ok := w.owner.(PostFlusher)
		if !ok {
			continue
		}
		if err := s.rt.call0(func() error { pf.AfterFlush(w); return nil }); err != nil {
			s.rt.report("R012", err, w.owner, "post-flush callback")
		}
	}
}

func (s *Scheduler) reset() {
	s.queue = nil
	s.postFlush = nil
	s.index = 0
	clear(s.has)
	clear(s.circular)
	clear(s.dropped)
	s.waiting = false
	s.flushing = false
}
