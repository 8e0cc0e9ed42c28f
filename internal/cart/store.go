package cart

import (
	"sync"
	"time"
)

const (
	// SessionTTL is how long an idle cart survives before the cleanup
	// reclaims it. Carts live in process memory only; they are never
	// synchronized to the database.
	SessionTTL = 24 * time.Hour

	// CleanupInterval is how often the background cleanup runs.
	CleanupInterval = 5 * time.Minute
)

type sessionEntry struct {
	ledger   *Ledger
	lastSeen time.Time
}

// SessionStore owns every session's ledger. It is the single writer of cart
// state; handlers obtain a ledger handle per session and views read
// snapshots from it.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewSessionStore() *SessionStore {
	s := &SessionStore{
		sessions:    make(map[string]*sessionEntry),
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *SessionStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *SessionStore) expireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-SessionTTL)
	for id, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// Ledger returns the session's ledger, creating an empty one on first use,
// and refreshes the session's idle timer.
func (s *SessionStore) Ledger(sessionID string) *Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		entry = &sessionEntry{ledger: NewLedger()}
		s.sessions[sessionID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.ledger
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the cleanup goroutine and waits for it to exit.
func (s *SessionStore) Close() {
	close(s.stopCleanup)
	s.wg.Wait()
}
