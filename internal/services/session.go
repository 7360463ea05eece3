package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-ace/internal/models"
)

// Session binds one transcript to an opaque handle. The mutex serializes
// turns on the same handle.
type Session struct {
	Handle        string
	Transcript    *models.Transcript
	Difficulty    string
	InterviewType string
	CreatedAt     time.Time

	mu         sync.Mutex
	lastActive time.Time
	// report survives a failed archive so a retry does not ask the model again.
	report *models.FeedbackReport
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create registers a new session whose transcript starts with seed.
func (m *SessionManager) Create(seed models.Turn) *Session {
	now := m.now()
	session := &Session{
		Handle:     uuid.New().String(),
		Transcript: models.NewTranscript(seed),
		CreatedAt:  now,
		lastActive: now,
	}

	m.mu.Lock()
	m.sessions[session.Handle] = session
	m.mu.Unlock()

	return session
}

// Get resolves a handle, failing with ErrSessionNotFound for unknown or
// destroyed handles.
func (m *SessionManager) Get(handle string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[handle]
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.lastActive = m.now()
	return session, nil
}

func (m *SessionManager) Destroy(handle string) {
	m.mu.Lock()
	delete(m.sessions, handle)
	m.mu.Unlock()
}

func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep destroys sessions idle for longer than maxIdle and returns how many
// were removed.
func (m *SessionManager) Sweep(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for handle, session := range m.sessions {
		if session.lastActive.Before(cutoff) {
			delete(m.sessions, handle)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps idle sessions every interval until ctx is done.
func (m *SessionManager) StartJanitor(ctx context.Context, maxIdle, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := m.Sweep(maxIdle); removed > 0 {
					log.Printf("🧹 Expired %d idle interview sessions\n", removed)
				}
			}
		}
	}()
}
