// Package schedule runs periodic background tasks.
//
//	schedule.Hourly().Name("purge-stale-carts").Run(purge)
//	schedule.Every(10).Minutes().Run(sync)
//
//	// Start the dispatcher once at boot:
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/dukaan/pkg/logger"
)

// Task is a scheduled function. Tasks run on the dispatcher's
// goroutines and must handle their own timeouts.
type Task func()

type entry struct {
	id        string
	interval  time.Duration
	task      Task
	lastRun   time.Time
	running   bool
	noOverlap bool
	mu        sync.Mutex
}

var (
	regMu   sync.Mutex
	entries []*entry
)

// Schedule is a fluent builder for a single entry.
type Schedule struct {
	e *entry
}

// Every starts a builder with n units.
func Every(n int) *freqBuilder { return &freqBuilder{n: n} }

// EveryMinute schedules the task every 60 seconds.
func EveryMinute() *Schedule { return Every(1).Minutes() }

// Hourly schedules the task every hour.
func Hourly() *Schedule { return Every(1).Hours() }

// Daily schedules the task every 24 hours.
func Daily() *Schedule { return Every(24).Hours() }

type freqBuilder struct{ n int }

func (f *freqBuilder) Seconds() *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * time.Second}}
}
func (f *freqBuilder) Minutes() *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * time.Minute}}
}
func (f *freqBuilder) Hours() *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * time.Hour}}
}

// WithoutOverlapping skips a tick while the previous run is still
// executing.
func (s *Schedule) WithoutOverlapping() *Schedule {
	s.e.noOverlap = true
	return s
}

// Name gives the entry an identifier for logging.
func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// Run registers the task. Call Start to begin dispatching.
func (s *Schedule) Run(fn Task) {
	s.e.task = fn
	if s.e.id == "" {
		s.e.id = "task"
	}
	regMu.Lock()
	entries = append(entries, s.e)
	regMu.Unlock()
}

// Start launches the dispatcher. It checks due tasks once per second
// and returns when ctx is cancelled.
func Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				dispatch(now)
			}
		}
	}()
	logger.Info("schedule: dispatcher started", "tasks", len(entries))
}

func dispatch(now time.Time) {
	regMu.Lock()
	due := make([]*entry, 0, len(entries))
	for _, e := range entries {
		if now.Sub(e.lastRun) >= e.interval {
			e.lastRun = now
			due = append(due, e)
		}
	}
	regMu.Unlock()

	for _, e := range due {
		go run(e)
	}
}

func run(e *entry) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("schedule: task panicked", "task", e.id, "panic", r)
		}
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()
	e.task()
}

// Flush removes all entries. For tests.
func Flush() {
	regMu.Lock()
	defer regMu.Unlock()
	entries = nil
}
