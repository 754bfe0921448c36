package session

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultMaxSessions = 4096
	defaultTTL         = 30 * time.Minute
)

// Store keeps sessions in an expiring LRU and serializes all mutation
// per session id: two turns for the same session never interleave, turns
// for different sessions proceed independently. An optional postgres
// backend persists snapshots across restarts.
type Store struct {
	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	sessions *expirable.LRU[string, *Session]
	db       *pgBackend
}

// New creates an in-memory store with the default TTL and capacity.
func New() *Store {
	return NewWithLimits(defaultMaxSessions, defaultTTL)
}

func NewWithLimits(maxSessions int, ttl time.Duration) *Store {
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	s := &Store{locks: make(map[string]*sync.Mutex)}
	s.sessions = expirable.NewLRU[string, *Session](maxSessions, func(id string, _ *Session) {
		s.releaseLock(id)
	}, ttl)
	return s
}

// NewFromEnv selects the postgres snapshot backend when a DSN is set
// (SESSION_STORE_PG_DSN) and falls back to memory-only otherwise.
func NewFromEnv() *Store {
	s := New()
	if db, err := newPGBackendFromEnv(); err == nil && db != nil {
		s.db = db
	}
	return s
}

func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	return mu
}

// releaseLock drops an evicted session's mutex so the lock map shrinks
// with the LRU. A mutex held by a live turn is left in place; that turn
// keeps its serialization guarantee and the entry goes with a later
// eviction.
func (s *Store) releaseLock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.locks[id]
	if !ok {
		return
	}
	if mu.TryLock() {
		delete(s.locks, id)
		mu.Unlock()
	}
}

// WithSession runs fn with exclusive ownership of the session, creating
// it on first use. The lock spans the whole callback, so a turn that
// wraps its processing in one WithSession call is fully ordered against
// other turns for the same id.
func (s *Store) WithSession(id string, fn func(*Session)) {
	id = strings.TrimSpace(id)
	if s == nil || id == "" || fn == nil {
		return
	}
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	sess, ok := s.sessions.Get(id)
	if !ok {
		if s.db != nil {
			sess, ok = s.db.load(id)
		}
		if !ok {
			sess = newSession(id)
		}
	}
	fn(sess)
	sess.UpdatedAt = time.Now()
	s.sessions.Add(id, sess)
	if s.db != nil {
		s.db.save(sess)
	}
}

// Snapshot returns a copy of the session for read-only use.
func (s *Store) Snapshot(id string) (*Session, bool) {
	id = strings.TrimSpace(id)
	if s == nil || id == "" {
		return nil, false
	}
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()
	sess, ok := s.sessions.Get(id)
	if !ok && s.db != nil {
		sess, ok = s.db.load(id)
		if ok {
			s.sessions.Add(id, sess)
		}
	}
	if !ok {
		return nil, false
	}
	return sess.clone(), true
}

// Len reports the number of resident sessions.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return s.sessions.Len()
}

// Close releases the optional backend.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.close()
}
