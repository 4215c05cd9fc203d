package client

import "sync"

// TokenKey is the key the session token is stored under.
const TokenKey = "token"

// TokenStore holds the session token and notifies subscribers when it
// changes, like browser storage events.
type TokenStore interface {
	Get() (string, bool)
	Set(token string)
	Clear()
	// Subscribe registers fn and returns a func that removes it.
	Subscribe(fn func(key string)) (unsubscribe func())
}

type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	ok    bool
	next  int
	subs  map[int]func(string)
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{subs: make(map[int]func(string))}
}

func (s *MemoryTokenStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.ok
}

func (s *MemoryTokenStore) Set(token string) {
	s.mu.Lock()
	changed := !s.ok || s.token != token
	s.token, s.ok = token, true
	subs := s.snapshot()
	s.mu.Unlock()
	if changed {
		notify(subs)
	}
}

func (s *MemoryTokenStore) Clear() {
	s.mu.Lock()
	changed := s.ok
	s.token, s.ok = "", false
	subs := s.snapshot()
	s.mu.Unlock()
	if changed {
		notify(subs)
	}
}

func (s *MemoryTokenStore) Subscribe(fn func(string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *MemoryTokenStore) snapshot() []func(string) {
	out := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

// subscribers run outside the lock so they may call back into the store
func notify(subs []func(string)) {
	for _, fn := range subs {
		fn(TokenKey)
	}
}
