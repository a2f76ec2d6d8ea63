// Package queue provides background job processing.
//
//	// Define a job
//	type ConfirmationEmailJob struct { OrderID string }
//	func (j ConfirmationEmailJob) Handle() error { ... }
//
//	// Register the type at boot, then dispatch from anywhere
//	queue.Register("ConfirmationEmailJob", func() queue.Job { return &ConfirmationEmailJob{} })
//	queue.Dispatch(ConfirmationEmailJob{OrderID: id})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/shashiranjanraj/dukaan/pkg/logger"
)

// Job is the interface every queued job must satisfy. Jobs are
// serialised to JSON, so exported fields only.
type Job interface {
	Handle() error
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// FailedJob records a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Payload  string
	Err      string
	Attempts int
	FailedAt time.Time
}

type manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
}

var def = &manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the storage backend. Call at boot before StartWorkers.
func SetDriver(d Driver) {
	def.mu.Lock()
	defer def.mu.Unlock()
	def.driver = d
}

// Register makes a job type reconstructable by name. Call once at boot
// for every job type.
func Register(name string, factory func() Job) {
	def.mu.Lock()
	defer def.mu.Unlock()
	def.registry[name] = factory
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes the job onto the queue.
func Dispatch(job Job) error {
	name := typeName(job)

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", name, err)
	}
	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	def.mu.RLock()
	d := def.driver
	def.mu.RUnlock()
	return d.Push(env)
}

// StartWorkers launches n workers that process jobs until ctx is
// cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go def.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func (m *manager) work(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		m.process(raw)
	}
}

func (m *manager) process(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if err := job.Handle(); err != nil {
			lastErr = err
			logger.Warn("queue: job failed, retrying",
				"type", env.Type, "attempt", attempt, "error", err)
			time.Sleep(time.Duration(attempt) * time.Second)
			continue
		}
		logger.Info("queue: job processed", "type", env.Type)
		return
	}

	m.persistFailed(env.Type, string(env.Payload), lastErr, m.maxRetry)
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}

// FailedJobs returns a snapshot of jobs that exhausted their retries.
func FailedJobs() []FailedJob {
	def.mu.RLock()
	defer def.mu.RUnlock()
	out := make([]FailedJob, len(def.failed))
	copy(out, def.failed)
	return out
}

func typeName(job Job) string {
	t := reflect.TypeOf(job)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
