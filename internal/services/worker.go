package services

import (
	"context"
	"errors"
	"log"
	"sync"
)

var (
	ErrWorkerStopped = errors.New("worker stopped")
	ErrQueueFull     = errors.New("job queue is full")
)

// Job is one unit of analysis work. The context is cancelled when the
// worker stops.
type Job func(ctx context.Context)

type JobRunner interface {
	EnqueueJob(job Job) error
}

type Worker interface {
	JobRunner
	Start(ctx context.Context)
	Stop()
}

type worker struct {
	jobQueue    chan Job
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	cancel      context.CancelFunc
}

func NewWorker(concurrency, queueSize int) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &worker{
		jobQueue:    make(chan Job, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	ctx, w.cancel = context.WithCancel(ctx)
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements Worker. Running jobs see their context cancelled; queued
// jobs are dropped.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		if w.cancel != nil {
			w.cancel()
		}
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob implements JobRunner. It never blocks: a full queue is
// reported as ErrQueueFull.
func (w *worker) EnqueueJob(job Job) error {
	select {
	case <-w.stopChan:
		return ErrWorkerStopped
	default:
	}

	select {
	case w.jobQueue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case job := <-w.jobQueue:
			w.run(ctx, workerID, job)
		}
	}
}

func (w *worker) run(ctx context.Context, workerID int, job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("❌ Worker #%d recovered from panic: %v\n", workerID, rec)
		}
	}()
	job(ctx)
}
