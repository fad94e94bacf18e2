package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"alfredoptarigan/scholarcheck/internal/models"
)

// Controller owns the review state of one session and is the only writer of
// it. A new submission cancels any analysis still in flight, and outcomes of
// superseded submissions are discarded.
type Controller struct {
	analyzer Analyzer
	runner   JobRunner
	timeout  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	state   models.SessionState
	cancel  context.CancelFunc
	settled chan struct{}
}

func NewController(analyzer Analyzer, runner JobRunner, timeout time.Duration) *Controller {
	c := &Controller{
		analyzer: analyzer,
		runner:   runner,
		timeout:  timeout,
		now:      time.Now,
		settled:  closedChan(),
	}
	c.state = models.SessionState{Phase: models.PhaseIdle, UpdatedAt: c.now()}
	return c
}

// State returns a snapshot. The result pointer is shared but never mutated
// after it is stored.
func (c *Controller) State() models.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit moves the controller to analyzing and schedules the read and the
// provider call. It returns the generation of the new submission.
func (c *Controller) Submit(ctx context.Context, source ManuscriptSource) uint64 {
	c.mu.Lock()
	if c.state.Phase == models.PhaseAnalyzing {
		log.Printf("⚠️  Generation %d superseded by a new upload\n", c.state.Generation)
	}
	c.finishLocked()

	now := c.now()
	gen := c.state.Generation + 1
	c.state = models.SessionState{
		Phase:      models.PhaseAnalyzing,
		Generation: gen,
		FileName:   source.Name(),
		StartedAt:  &now,
		UpdatedAt:  now,
	}
	c.settled = make(chan struct{})

	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if c.timeout > 0 {
		jobCtx, cancel = withTimeout(jobCtx, cancel, c.timeout)
	}
	c.cancel = cancel
	c.mu.Unlock()

	job := func(workerCtx context.Context) {
		stop := context.AfterFunc(workerCtx, cancel)
		defer stop()
		c.run(jobCtx, gen, source)
	}

	if err := c.runner.EnqueueJob(job); err != nil {
		cancel()
		c.settle(gen, nil, newAnalysisError(ErrTransport, fmt.Errorf("failed to schedule analysis: %w", err)))
	}

	return gen
}

// Reset returns to idle from any phase, cancelling in-flight work.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.finishLocked()
	c.state = models.SessionState{
		Phase:      models.PhaseIdle,
		Generation: c.state.Generation,
		UpdatedAt:  c.now(),
	}
}

// Wait blocks until the controller is no longer analyzing.
func (c *Controller) Wait(ctx context.Context) (models.SessionState, error) {
	for {
		c.mu.Lock()
		if c.state.Settled() {
			state := c.state
			c.mu.Unlock()
			return state, nil
		}
		settled := c.settled
		c.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
}

func (c *Controller) run(ctx context.Context, gen uint64, source ManuscriptSource) {
	defer func() {
		if rec := recover(); rec != nil {
			c.settle(gen, nil, fmt.Errorf("analysis panicked: %v", rec))
		}
	}()

	manuscript, err := readManuscript(source)
	if err != nil {
		c.settle(gen, nil, err)
		return
	}
	if ctx.Err() != nil {
		c.settle(gen, nil, newAnalysisError(ErrTransport, ctx.Err()))
		return
	}

	result, err := c.analyzer.AnalyzeManuscript(ctx, manuscript)
	if err == nil && result == nil {
		err = newAnalysisError(ErrEmptyResponse, nil)
	}
	c.settle(gen, result, err)
}

func (c *Controller) settle(gen uint64, result *models.AnalysisResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.state.Generation || c.state.Phase != models.PhaseAnalyzing {
		log.Printf("🗑️  Discarding stale outcome of generation %d\n", gen)
		return
	}

	if err != nil {
		c.failLocked(gen, err)
		return
	}

	c.state.Phase = models.PhaseReported
	c.state.Result = result
	c.state.Error = ""
	c.state.ErrorKind = ""
	c.state.UpdatedAt = c.now()
	c.finishLocked()
	log.Printf("✅ Generation %d reported for %q\n", gen, c.state.FileName)
}

func (c *Controller) failLocked(gen uint64, err error) {
	kind := ErrorKind(err)
	log.Printf("❌ Generation %d failed (%s): %v\n", gen, kind, err)

	c.state.Phase = models.PhaseFailed
	c.state.Result = nil
	c.state.Error = DisplayMessage(err)
	c.state.ErrorKind = kind
	c.state.UpdatedAt = c.now()
	c.finishLocked()
}

// finishLocked releases the current job context and wakes waiters.
func (c *Controller) finishLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	select {
	case <-c.settled:
	default:
		close(c.settled)
	}
}

func readManuscript(source ManuscriptSource) (models.Manuscript, error) {
	rc, err := source.Open()
	if err != nil {
		return models.Manuscript{}, newAnalysisError(ErrFileRead, fmt.Errorf("failed to open %q: %w", source.Name(), err))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return models.Manuscript{}, newAnalysisError(ErrFileRead, fmt.Errorf("failed to read %q: %w", source.Name(), err))
	}
	if len(data) == 0 {
		return models.Manuscript{}, newAnalysisError(ErrFileRead, fmt.Errorf("%q is empty", source.Name()))
	}

	return models.Manuscript{
		FileName: source.Name(),
		MimeType: DetectMimeType(data, source.Name()),
		Data:     data,
	}, nil
}

func withTimeout(parent context.Context, parentCancel context.CancelFunc, d time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		cancel()
		parentCancel()
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
