// Package sink holds the process-wide append-only event queue the
// dispatcher pushes into.
package sink

import (
	"context"
	"sync"
)

// Record is one entry of the queue: a clear marker or a full event.
type Record map[string]any

// ClearMarker resets the sink's transient ecommerce slot.
func ClearMarker() Record { return Record{"ecommerce": nil} }

// IsClear reports whether r is a clear marker.
func (r Record) IsClear() bool {
	v, ok := r["ecommerce"]
	return ok && v == nil && len(r) == 1
}

// Event returns the event name, empty for a clear marker.
func (r Record) Event() string {
	s, _ := r["event"].(string)
	return s
}

type Sink interface {
	Push(ctx context.Context, r Record) error
}

// Queue is the in-memory dataLayer.
type Queue struct {
	mu      sync.Mutex
	records []Record
}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Push(_ context.Context, r Record) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.records = append(q.records, r)
	return nil
}

// Records returns a snapshot of everything pushed so far.
func (q *Queue) Records() []Record {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Record, len(q.records))
	copy(out, q.records)
	return out
}

// Events returns the pushed records that are not clear markers, optionally
// filtered by name.
func (q *Queue) Events(name string) []Record {
	var out []Record
	for _, r := range q.Records() {
		if r.IsClear() {
			continue
		}
		if name == "" || r.Event() == name {
			out = append(out, r)
		}
	}
	return out
}
