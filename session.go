package main

import "sync"

// Session is the injectable viewer-identity context handed to the
// view-model components. It mirrors what an auth provider exposes:
// current-identity-or-none plus a change notification stream. An empty
// identity means anonymous.
type Session struct {
	mu       sync.RWMutex
	identity string
	subs     []func(identity string)
}

func NewSession() *Session { return &Session{} }

func (s *Session) Identity() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// SetIdentity switches the current viewer and notifies subscribers.
// Subscribers run synchronously on the caller's goroutine.
func (s *Session) SetIdentity(id string) {
	s.mu.Lock()
	if s.identity == id {
		s.mu.Unlock()
		return
	}
	s.identity = id
	subs := append([]func(string){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}

func (s *Session) Clear() { s.SetIdentity("") }

func (s *Session) Subscribe(fn func(identity string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
