package state

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Access to one user id is
// serialized through Lock; the map itself is guarded separately so different
// users never wait on each other.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	locks    map[string]*keyLock

	now func() time.Time
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

type StoreOption func(*MemoryStore)

func WithClock(now func() time.Time) StoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		locks:    make(map[string]*keyLock),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Lock blocks until the caller owns userID and returns the release func.
func (s *MemoryStore) Lock(userID string) func() {
	key := strings.TrimSpace(userID)

	s.mu.Lock()
	kl, ok := s.locks[key]
	if !ok {
		kl = &keyLock{}
		s.locks[key] = kl
	}
	kl.refs++
	s.mu.Unlock()

	kl.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			kl.mu.Unlock()

			s.mu.Lock()
			kl.refs--
			if kl.refs == 0 {
				delete(s.locks, key)
			}
			s.mu.Unlock()
		})
	}
}

// Get returns a copy of the session.
func (s *MemoryStore) Get(userID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[strings.TrimSpace(userID)]
	if !ok {
		return Session{}, false
	}
	return sess.Clone(), true
}

// GetOrCreate returns the live session, creating an empty one when missing.
// The caller must hold Lock(userID) while mutating it.
func (s *MemoryStore) GetOrCreate(userID string) *Session {
	key := strings.TrimSpace(userID)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		sess = NewSession(key, nil, now)
		s.sessions[key] = sess
	}
	return sess
}

// Reset replaces any existing session with a fresh one holding profile.
func (s *MemoryStore) Reset(userID string, profile map[string]any) *Session {
	key := strings.TrimSpace(userID)
	sess := NewSession(key, profile, s.now())

	s.mu.Lock()
	s.sessions[key] = sess
	s.mu.Unlock()
	return sess
}

// Drain removes the session and returns its final contents. A missing
// session drains as an empty one.
func (s *MemoryStore) Drain(userID string) Session {
	key := strings.TrimSpace(userID)

	s.mu.Lock()
	sess, ok := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()

	if !ok {
		return *NewSession(key, nil, s.now())
	}
	return sess.Clone()
}

func (s *MemoryStore) Touch(userID string) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[strings.TrimSpace(userID)]; ok {
		sess.Touch(now)
	}
}

// Reap removes sessions idle for longer than ttl whose user id is not locked,
// and returns the removed ids sorted.
func (s *MemoryStore) Reap(ttl time.Duration) []string {
	if ttl <= 0 {
		return nil
	}
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for key, sess := range s.sessions {
		if kl, busy := s.locks[key]; busy && kl.refs > 0 {
			continue
		}
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, key)
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
