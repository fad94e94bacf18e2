package repositories

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/scholarcheck/internal/services"
)

var ErrSessionNotFound = errors.New("session not found")

// Session binds one review controller to an ID handed to the browser.
type Session struct {
	ID         uuid.UUID
	Controller *services.Controller
	CreatedAt  time.Time
	LastSeenAt time.Time
}

type SessionRepository interface {
	Create(session *Session) error
	FindByID(id uuid.UUID) (*Session, error)
	Touch(id uuid.UUID) error
	Delete(id uuid.UUID) error
	FindIdleSince(cutoff time.Time) []*Session
	Count() int
	StartEviction(ctx context.Context, ttl, interval time.Duration)
	Stop()
}

// sessionRepository keeps sessions in memory only. Evicted or deleted
// sessions have their controller reset, which cancels any running analysis.
type sessionRepository struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*Session
	maxSessions int
	now         func() time.Time

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewSessionRepository(maxSessions int) SessionRepository {
	if maxSessions < 0 {
		maxSessions = 0
	}
	return &sessionRepository{
		sessions:    make(map[uuid.UUID]*Session),
		maxSessions: maxSessions,
		now:         time.Now,
		stopChan:    make(chan struct{}),
	}
}

// Create implements SessionRepository.
func (r *sessionRepository) Create(session *Session) error {
	if session == nil || session.Controller == nil {
		return errors.New("session requires a controller")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.LastSeenAt = now
	r.sessions[session.ID] = session

	r.evictOverflowLocked(session.ID)
	return nil
}

// FindByID implements SessionRepository.
func (r *sessionRepository) FindByID(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Touch implements SessionRepository.
func (r *sessionRepository) Touch(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.LastSeenAt = r.now()
	return nil
}

// Delete implements SessionRepository.
func (r *sessionRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.Controller.Reset()
	return nil
}

// FindIdleSince implements SessionRepository.
func (r *sessionRepository) FindIdleSince(cutoff time.Time) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var idle []*Session
	for _, s := range r.sessions {
		if s.LastSeenAt.Before(cutoff) {
			idle = append(idle, s)
		}
	}
	return idle
}

// Count implements SessionRepository.
func (r *sessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartEviction implements SessionRepository.
func (r *sessionRepository) StartEviction(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		log.Println("⚠️  Session eviction disabled")
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Printf("🔄 Session eviction running every %s (ttl %s)\n", interval, ttl)

		for {
			select {
			case <-r.stopChan:
				log.Println("🔄 Session eviction stopped")
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.evictIdle(ttl); n > 0 {
					log.Printf("🧹 Evicted %d idle sessions\n", n)
				}
			}
		}
	}()
}

// Stop implements SessionRepository.
func (r *sessionRepository) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
	})
}

func (r *sessionRepository) evictIdle(ttl time.Duration) int {
	idle := r.FindIdleSince(r.now().Add(-ttl))
	evicted := 0
	for _, s := range idle {
		if err := r.Delete(s.ID); err == nil {
			evicted++
		}
	}
	return evicted
}

// evictOverflowLocked drops the least recently seen sessions beyond
// maxSessions, never the one just created. Must be called with the lock held.
func (r *sessionRepository) evictOverflowLocked(keep uuid.UUID) {
	if r.maxSessions <= 0 || len(r.sessions) <= r.maxSessions {
		return
	}

	sessions := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		if id != keep {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastSeenAt.Before(sessions[j].LastSeenAt)
	})

	removeCount := len(r.sessions) - r.maxSessions
	for i := 0; i < removeCount; i++ {
		log.Printf("🧹 Evicting session %s (registry full)\n", sessions[i].ID)
		delete(r.sessions, sessions[i].ID)
		sessions[i].Controller.Reset()
	}
}
