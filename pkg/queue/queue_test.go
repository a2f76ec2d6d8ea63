package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shashiranjanraj/dukaan/pkg/queue"
)

var handled = make(chan string, 10)

type greetJob struct {
	Who string `json:"who"`
}

func (j *greetJob) Handle() error {
	handled <- j.Who
	return nil
}

func TestDispatchAndProcess(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())
	queue.Register("greetJob", func() queue.Job { return &greetJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 2)

	if err := queue.Dispatch(&greetJob{Who: "asha"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	select {
	case who := <-handled:
		if who != "asha" {
			t.Errorf("handled job for %q, want asha", who)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job was never processed")
	}
}

func TestWorkersStopOnCancel(t *testing.T) {
	queue.SetDriver(queue.NewMemoryDriver())

	ctx, cancel := context.WithCancel(context.Background())
	queue.StartWorkers(ctx, 1)
	cancel()

	// A job dispatched after cancellation must stay in the queue
	// untouched.
	time.Sleep(50 * time.Millisecond)
	if err := queue.Dispatch(&greetJob{Who: "late"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	select {
	case who := <-handled:
		t.Errorf("cancelled worker still processed job for %q", who)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestMemoryDriverBackpressure(t *testing.T) {
	d := queue.NewMemoryDriver()

	var err error
	for i := 0; i < 2000; i++ {
		if err = d.Push([]byte("x")); err != nil {
			break
		}
	}
	if !errors.Is(err, queue.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull once the buffer fills, got %v", err)
	}

	payload, err := d.Pop(context.Background())
	if err != nil || string(payload) != "x" {
		t.Errorf("Pop = (%q, %v), want (x, nil)", payload, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Pop(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Pop on cancelled context = %v, want context.Canceled", err)
	}
}
