// Package identity resolves the contact identity stamped on outgoing events.
package identity

import (
	"context"
	"slices"
	"sync"
)

// State is a snapshot of a session's authentication.
type State struct {
	Authenticated bool
	Email         string
	OpaqueID      string
}

// Provider exposes only the authentication facts the resolver needs.
// Settled delivers at most one State: the next change after the call.
type Provider interface {
	IsAuthenticated() bool
	CachedEmail() string
	CachedOpaqueID() string
	Settled(ctx context.Context) <-chan State
}

// SessionAuth is the Provider of one browser session. The HTTP layer calls
// Update with what each request carries.
type SessionAuth struct {
	mu      sync.Mutex
	state   State
	waiters []chan State
}

var _ Provider = (*SessionAuth)(nil)

func NewSessionAuth(initial State) *SessionAuth {
	return &SessionAuth{state: initial}
}

func (a *SessionAuth) IsAuthenticated() bool { return a.snapshot().Authenticated }
func (a *SessionAuth) CachedEmail() string   { return a.snapshot().Email }
func (a *SessionAuth) CachedOpaqueID() string {
	return a.snapshot().OpaqueID
}

func (a *SessionAuth) snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Update replaces the state. Blank fields of an authenticated update keep
// their cached value; an unauthenticated update clears everything.
// Pending Settled waiters are released only when the state changes.
func (a *SessionAuth) Update(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !s.Authenticated {
		s = State{}
	} else {
		if s.Email == "" {
			s.Email = a.state.Email
		}
		if s.OpaqueID == "" {
			s.OpaqueID = a.state.OpaqueID
		}
	}
	if s == a.state {
		return
	}
	a.state = s
	for _, w := range a.waiters {
		w <- s
		close(w)
	}
	a.waiters = nil
}

func (a *SessionAuth) Settled(ctx context.Context) <-chan State {
	ch := make(chan State, 1)
	a.mu.Lock()
	a.waiters = append(a.waiters, ch)
	a.mu.Unlock()

	context.AfterFunc(ctx, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.waiters = slices.DeleteFunc(a.waiters, func(w chan State) bool { return w == ch })
	})
	return ch
}
