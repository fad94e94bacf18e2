package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/scholarcheck/internal/models"
	"alfredoptarigan/scholarcheck/internal/services"
)

type blockingAnalyzer struct{}

func (blockingAnalyzer) AnalyzeManuscript(ctx context.Context, m models.Manuscript) (*models.AnalysisResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type goRunner struct{}

func (goRunner) EnqueueJob(job services.Job) error {
	go job(context.Background())
	return nil
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestRepository(maxSessions int) (*sessionRepository, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := NewSessionRepository(maxSessions).(*sessionRepository)
	repo.now = clock.Now
	return repo, clock
}

func newSession() *Session {
	return &Session{
		ID:         uuid.New(),
		Controller: services.NewController(blockingAnalyzer{}, goRunner{}, time.Minute),
	}
}

func TestSessionRepositoryCRUD(t *testing.T) {
	repo, clock := newTestRepository(10)

	session := newSession()
	if err := repo.Create(session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !session.CreatedAt.Equal(clock.now) {
		t.Errorf("Expected CreatedAt to be set, got %v", session.CreatedAt)
	}

	found, err := repo.FindByID(session.ID)
	if err != nil || found != session {
		t.Fatalf("FindByID() = %v, %v", found, err)
	}

	clock.Advance(time.Minute)
	if err := repo.Touch(session.ID); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if !found.LastSeenAt.Equal(clock.now) {
		t.Errorf("Expected LastSeenAt to advance, got %v", found.LastSeenAt)
	}

	if repo.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", repo.Count())
	}

	if err := repo.Delete(session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.FindByID(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if err := repo.Delete(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
	if err := repo.Touch(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on touch, got %v", err)
	}
}

func TestSessionRepositoryRejectsMissingController(t *testing.T) {
	repo, _ := newTestRepository(10)

	if err := repo.Create(&Session{ID: uuid.New()}); err == nil {
		t.Error("Expected error for session without controller")
	}
	if err := repo.Create(nil); err == nil {
		t.Error("Expected error for nil session")
	}
}

func TestDeleteCancelsRunningAnalysis(t *testing.T) {
	repo, _ := newTestRepository(10)
	session := newSession()
	_ = repo.Create(session)

	session.Controller.Submit(context.Background(), services.NewBytesSource("paper.txt", []byte("text")))
	if session.Controller.State().Phase != models.PhaseAnalyzing {
		t.Fatalf("Expected analyzing, got %s", session.Controller.State().Phase)
	}

	if err := repo.Delete(session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if session.Controller.State().Phase != models.PhaseIdle {
		t.Errorf("Expected controller to be reset, got %s", session.Controller.State().Phase)
	}
}

func TestSessionRepositoryEvictsOverflow(t *testing.T) {
	repo, clock := newTestRepository(2)

	oldest := newSession()
	middle := newSession()
	newest := newSession()

	_ = repo.Create(oldest)
	clock.Advance(time.Second)
	_ = repo.Create(middle)
	clock.Advance(time.Second)
	_ = repo.Create(newest)

	if repo.Count() != 2 {
		t.Fatalf("Expected 2 sessions, got %d", repo.Count())
	}
	if _, err := repo.FindByID(oldest.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected the least recently seen session to be evicted")
	}
	for _, s := range []*Session{middle, newest} {
		if _, err := repo.FindByID(s.ID); err != nil {
			t.Errorf("Expected session %s to survive, got %v", s.ID, err)
		}
	}
}

func TestSessionRepositoryEvictsIdle(t *testing.T) {
	repo, clock := newTestRepository(10)

	stale := newSession()
	fresh := newSession()

	_ = repo.Create(stale)
	clock.Advance(30 * time.Minute)
	_ = repo.Create(fresh)
	clock.Advance(45 * time.Minute)

	if n := repo.evictIdle(time.Hour); n != 1 {
		t.Errorf("Expected 1 eviction, got %d", n)
	}
	if _, err := repo.FindByID(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected stale session to be evicted")
	}
	if _, err := repo.FindByID(fresh.ID); err != nil {
		t.Errorf("Expected fresh session to survive, got %v", err)
	}
}

func TestStartEvictionStops(t *testing.T) {
	repo := NewSessionRepository(10)
	repo.StartEviction(context.Background(), time.Hour, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		repo.Stop()
		repo.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() did not return")
	}
}
