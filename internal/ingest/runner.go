// Package ingest runs purchase assembly off the request path. Purchases
// fan out to many collaborators, so the HTTP handler only enqueues them.
package ingest

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"example.com/travelanalytics/internal/tracker"
)

// Purchaser is the slice of a tracker a job needs.
type Purchaser interface {
	Purchase(ctx context.Context, req tracker.PurchaseRequest)
}

// Job is one queued purchase for one session.
type Job struct {
	SessionID string
	Tracker   Purchaser
	Request   tracker.PurchaseRequest
}

type Runner struct {
	queue   chan Job
	workers int
	wg      sync.WaitGroup

	// wrap decorates the worker context per job; used to attach the session.
	wrap func(ctx context.Context, j Job) context.Context
}

func NewRunner(queueMaxSize, workers int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		queue:   make(chan Job, queueMaxSize),
		workers: workers,
		wrap:    func(ctx context.Context, _ Job) context.Context { return ctx },
	}
}

// WithJobContext sets a per-job context decorator. Call before Start.
func (r *Runner) WithJobContext(f func(ctx context.Context, j Job) context.Context) *Runner {
	r.wrap = f
	return r
}

// Start launches the workers. When ctx is done they finish every job
// already queued, then exit; Wait blocks until that drain completes.
func (r *Runner) Start(ctx context.Context) {
	// Jobs run detached from ctx so a shutdown does not abort an assembly
	// halfway through its fan-out.
	jobCtx := context.WithoutCancel(ctx)
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go func(worker int) {
			defer r.wg.Done()
			for {
				select {
				case j := <-r.queue:
					r.run(jobCtx, worker, j)
				case <-ctx.Done():
					r.drain(jobCtx, worker)
					return
				}
			}
		}(i)
	}
}

func (r *Runner) drain(ctx context.Context, worker int) {
	for {
		select {
		case j := <-r.queue:
			r.run(ctx, worker, j)
		default:
			return
		}
	}
}

func (r *Runner) run(ctx context.Context, worker int, j Job) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("session_id", j.SessionID).Msg("purchase job panicked")
		}
	}()
	j.Tracker.Purchase(r.wrap(ctx, j), j.Request)
	log.Debug().
		Int("worker", worker).
		Str("session_id", j.SessionID).
		Int64("reservation_id", j.Request.ReservationID).
		Msg("purchase dispatched")
}

// Enqueue reports false when the queue is full.
func (r *Runner) Enqueue(j Job) bool {
	select {
	case r.queue <- j:
		return true
	default:
		return false
	}
}

// Wait blocks until every worker has exited.
func (r *Runner) Wait() { r.wg.Wait() }

// Len is the number of jobs waiting.
func (r *Runner) Len() int { return len(r.queue) }
