package ingest

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/travelanalytics/internal/tracker"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	os.Exit(m.Run())
}

type recorder struct {
	mu      sync.Mutex
	got     []int64
	panicOn int64
}

func (r *recorder) Purchase(_ context.Context, req tracker.PurchaseRequest) {
	if req.ReservationID == r.panicOn {
		panic("assembly bug")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, req.ReservationID)
}

func (r *recorder) ids() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.got...)
}

func job(rec *recorder, id int64) Job {
	return Job{SessionID: "s", Tracker: rec, Request: tracker.PurchaseRequest{ReservationID: id}}
}

func TestEnqueue_FullQueueRejects(t *testing.T) {
	r := NewRunner(2, 1)
	rec := &recorder{}

	assert.True(t, r.Enqueue(job(rec, 1)))
	assert.True(t, r.Enqueue(job(rec, 2)))
	assert.False(t, r.Enqueue(job(rec, 3)))
	assert.Equal(t, 2, r.Len())
}

func TestRunner_ProcessesJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRunner(10, 3)
	rec := &recorder{}
	r.Start(ctx)

	for i := int64(1); i <= 5; i++ {
		require.True(t, r.Enqueue(job(rec, i)))
	}

	assert.Eventually(t, func() bool { return len(rec.ids()) == 5 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5}, rec.ids())
}

func TestRunner_DrainsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	r := NewRunner(10, 1)
	for i := int64(1); i <= 4; i++ {
		require.True(t, r.Enqueue(job(rec, i)))
	}
	cancel()
	r.Start(ctx)
	r.Wait()

	assert.Len(t, rec.ids(), 4)
	assert.Zero(t, r.Len())
}

func TestRunner_PanicDoesNotKillWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{panicOn: 1}
	r := NewRunner(10, 1)
	r.Start(ctx)

	require.True(t, r.Enqueue(job(rec, 1)))
	require.True(t, r.Enqueue(job(rec, 2)))

	assert.Eventually(t, func() bool { return len(rec.ids()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestRunner_JobContextDecorator(t *testing.T) {
	type key struct{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan string, 1)
	r := NewRunner(1, 1).WithJobContext(func(ctx context.Context, j Job) context.Context {
		return context.WithValue(ctx, key{}, j.SessionID)
	})
	r.Start(ctx)
	require.True(t, r.Enqueue(Job{SessionID: "abc", Tracker: purchaseFunc(func(ctx context.Context, _ tracker.PurchaseRequest) {
		seen <- ctx.Value(key{}).(string)
	})}))

	select {
	case s := <-seen:
		assert.Equal(t, "abc", s)
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
}

type purchaseFunc func(ctx context.Context, req tracker.PurchaseRequest)

func (f purchaseFunc) Purchase(ctx context.Context, req tracker.PurchaseRequest) { f(ctx, req) }
