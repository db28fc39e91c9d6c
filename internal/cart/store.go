package cart

import (
	"sync"
	"time"
)

// session holds one client's cart and the last time it was touched.
type session struct {
	items    map[string]Item
	lastSeen time.Time
}

// Store keeps carts in process memory, keyed by session id. Carts are
// ephemeral; the definitive stock check happens at checkout, so losing a
// cart on restart is acceptable. Idle sessions are evicted to prevent
// unbounded growth.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	idleTTL  time.Duration
}

func NewStore(idleTTL time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*session),
		idleTTL:  idleTTL,
	}
	go s.cleanupLoop()
	return s
}

func (s *Store) cleanupLoop() {
	for {
		time.Sleep(time.Minute)

		s.mu.Lock()
		for id, sess := range s.sessions {
			if time.Since(sess.lastSeen) > s.idleTTL {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}

func (s *Store) touch(sessionID string) *session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{items: make(map[string]Item)}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = time.Now()
	return sess
}

// Snapshot returns a copy of the session's items.
func (s *Store) Snapshot(sessionID string) map[string]Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Item)
	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastSeen = time.Now()
		for k, v := range sess.items {
			out[k] = v
		}
	}
	return out
}

func (s *Store) Get(sessionID, key string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return Item{}, false
	}
	item, ok := sess.items[key]
	return item, ok
}

func (s *Store) Put(sessionID, key string, item Item) Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.touch(sessionID)
	sess.items[key] = item
	return totalsOf(sess.items)
}

// Remove deletes a key. The second return reports whether the key existed;
// removing an absent key leaves the cart untouched.
func (s *Store) Remove(sessionID, key string) (Totals, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return Totals{}, false
	}
	if _, ok := sess.items[key]; !ok {
		return totalsOf(sess.items), false
	}
	delete(sess.items, key)
	return totalsOf(sess.items), true
}

func (s *Store) Totals(sessionID string) Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		return totalsOf(sess.items)
	}
	return Totals{}
}

func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
