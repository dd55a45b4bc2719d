// Package dedup gates list and item view events so each logical key fires
// at most once per session.
package dedup

import "sync"

// Store holds the two disjoint "already fired" key sets of one session.
// There is no expiry and no rollback: a key stays marked after a failed dispatch.
type Store struct {
	mu    sync.Mutex
	lists map[string]struct{}
	items map[string]struct{}
}

func NewStore() *Store {
	return &Store{
		lists: make(map[string]struct{}),
		items: make(map[string]struct{}),
	}
}

// ShouldFireList reports whether the list-view for listID has not fired yet,
// marking it as fired.
func (s *Store) ShouldFireList(listID string) bool {
	return s.checkAndSet(s.lists, ListKey(listID))
}

// ShouldFireItem reports whether the item-view for (listID, itemID) has not
// fired yet, marking it as fired.
func (s *Store) ShouldFireItem(listID, itemID string) bool {
	return s.checkAndSet(s.items, ItemKey(listID, itemID))
}

// Reset clears both key spaces.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.lists)
	clear(s.items)
}

// Len returns the number of keys held in each space.
func (s *Store) Len() (lists, items int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lists), len(s.items)
}

func (s *Store) checkAndSet(set map[string]struct{}, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := set[key]; ok {
		return false
	}
	set[key] = struct{}{}
	return true
}
