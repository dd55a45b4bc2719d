package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"example.com/travelanalytics/internal/dispatch"
	"example.com/travelanalytics/internal/identity"
	"example.com/travelanalytics/internal/purchase"
	"example.com/travelanalytics/internal/upstream"
)

// Session pairs a tracker with the auth state its identity resolver reads.
type Session struct {
	ID      string
	Auth    *identity.SessionAuth
	Tracker *Tracker

	lastSeen time.Time // guarded by Sessions.mu
}

// Sessions hands out one Session per id, created on first use. Sessions
// idle longer than the configured TTL are dropped by Sweep.
type Sessions struct {
	mu         sync.Mutex
	byID       map[string]*Session
	directory  upstream.UserDirectory
	dispatcher *dispatch.Dispatcher
	assembler  *purchase.Assembler
	opts       Options
	now        func() time.Time
}

func NewSessions(dir upstream.UserDirectory, d *dispatch.Dispatcher, a *purchase.Assembler, opts Options) *Sessions {
	return &Sessions{
		byID:       make(map[string]*Session),
		directory:  dir,
		dispatcher: d,
		assembler:  a,
		opts:       opts,
		now:        time.Now,
	}
}

func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byID[id]; ok {
		sess.lastSeen = s.now()
		return sess
	}
	auth := identity.NewSessionAuth(identity.State{})
	sess := &Session{
		ID:       id,
		Auth:     auth,
		Tracker:  New(identity.NewResolver(auth, s.directory).WithSettleWait(s.opts.IdentityWait), s.dispatcher, s.assembler, s.opts),
		lastSeen: s.now(),
	}
	s.byID[id] = sess
	return sess
}

// Lookup returns the session without creating it.
func (s *Sessions) Lookup(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

// End drops the session and its dedup history. It reports whether the
// session existed.
func (s *Sessions) End(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	delete(s.byID, id)
	return ok
}

// Sweep drops every session not seen for longer than idle and returns how
// many were dropped. Jobs already holding a tracker keep running.
func (s *Sessions) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idle)
	n := 0
	for id, sess := range s.byID {
		if sess.lastSeen.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
	}
	return n
}

// StartJanitor sweeps every interval until ctx is done. A non-positive
// idle disables it.
func (s *Sessions) StartJanitor(ctx context.Context, idle, interval time.Duration) {
	if idle <= 0 || interval <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := s.Sweep(idle); n > 0 {
					log.Debug().Int("evicted", n).Int("remaining", s.Len()).Msg("idle sessions swept")
				}
			}
		}
	}()
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
