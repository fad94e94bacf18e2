package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerRunsJobs(t *testing.T) {
	w := NewWorker(2, 10)
	w.Start(context.Background())
	defer w.Stop()

	var count atomic.Int32
	done := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		err := w.EnqueueJob(func(ctx context.Context) {
			count.Add(1)
			done <- struct{}{}
		})
		if err != nil {
			t.Fatalf("EnqueueJob() error = %v", err)
		}
	}

	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Timed out waiting for jobs")
		}
	}
	if count.Load() != 5 {
		t.Errorf("Expected 5 jobs, got %d", count.Load())
	}
}

func TestWorkerRejectsAfterStop(t *testing.T) {
	w := NewWorker(1, 1)
	w.Start(context.Background())
	w.Stop()
	w.Stop()

	err := w.EnqueueJob(func(ctx context.Context) {})
	if !errors.Is(err, ErrWorkerStopped) {
		t.Errorf("Expected ErrWorkerStopped, got %v", err)
	}
}

func TestWorkerStopCancelsRunningJob(t *testing.T) {
	w := NewWorker(1, 1)
	w.Start(context.Background())

	started := make(chan struct{})
	cancelled := make(chan struct{})
	if err := w.EnqueueJob(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	}); err != nil {
		t.Fatalf("EnqueueJob() error = %v", err)
	}

	<-started
	w.Stop()

	select {
	case <-cancelled:
	default:
		t.Error("Expected running job to observe cancellation before Stop returns")
	}
}

func TestWorkerSurvivesPanic(t *testing.T) {
	w := NewWorker(1, 2)
	w.Start(context.Background())
	defer w.Stop()

	done := make(chan struct{})
	_ = w.EnqueueJob(func(ctx context.Context) { panic("boom") })
	_ = w.EnqueueJob(func(ctx context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Worker did not recover from panic")
	}
}

func TestWorkerRejectsWhenQueueFull(t *testing.T) {
	w := NewWorker(1, 1)

	if err := w.EnqueueJob(func(ctx context.Context) {}); err != nil {
		t.Fatalf("EnqueueJob() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- w.EnqueueJob(func(ctx context.Context) {})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrQueueFull) {
			t.Errorf("Expected ErrQueueFull, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("EnqueueJob blocked on a full queue")
	}
}
