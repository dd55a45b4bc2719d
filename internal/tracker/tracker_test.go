package tracker

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/travelanalytics/internal/dispatch"
	"example.com/travelanalytics/internal/domain"
	"example.com/travelanalytics/internal/identity"
	"example.com/travelanalytics/internal/legacy"
	"example.com/travelanalytics/internal/normalize"
	"example.com/travelanalytics/internal/purchase"
	"example.com/travelanalytics/internal/sink"
	"example.com/travelanalytics/internal/upstream"
	"example.com/travelanalytics/internal/upstream/upstreamtest"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	os.Exit(m.Run())
}

func intp(n int) *int { return &n }

// bookedTour is reservation 501 for tour 42: one five-day itinerary, one
// child and one adult, insurance on the reservation and no flight pack.
func bookedTour() *upstreamtest.Fake {
	f := upstreamtest.New()
	f.Users = []upstream.User{{ID: 1, Email: "ana@example.com", Phone: "+51999", OpaqueID: "sub-ana"}}
	f.ReservationsByID[501] = &upstream.Reservation{
		ID:              501,
		TourID:          42,
		TotalPassengers: 2,
		InsuranceName:   "Seguro Premium",
	}
	f.TravelersByRes[501] = []upstream.Traveler{
		{ID: 1, ReservationID: 501, AgeGroupID: 10},
		{ID: 2, ReservationID: 501, AgeGroupID: 20},
	}
	f.Groups = []upstream.AgeGroup{
		{ID: 10, Name: "Niño", UpperAge: intp(10)},
		{ID: 20, Name: "Adulto"},
	}
	f.ItinerariesBy[42] = []upstream.Itinerary{{ID: 8, TourID: 42, Visible: true, Bookable: true}}
	f.DaysBy[8] = []upstream.ItineraryDay{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}
	f.ToursByID[42] = &upstream.Tour{ID: 42, Code: "TK-42", Name: "Perú Mágico", TripTypeID: 2}
	return f
}

type harness struct {
	fake  *upstreamtest.Fake
	queue *sink.Queue
	auth  *identity.SessionAuth
	tr    *Tracker
}

func newHarness(t *testing.T, initial identity.State) *harness {
	t.Helper()
	f := bookedTour()
	q := sink.NewQueue()
	auth := identity.NewSessionAuth(initial)
	tr := New(
		identity.NewResolver(auth, f).WithSettleWait(50*time.Millisecond),
		dispatch.New(q, legacy.Notifiers{}),
		purchase.NewAssembler(f, f),
		Options{},
	)
	return &harness{fake: f, queue: q, auth: auth, tr: tr}
}

// decode round-trips a sink record through JSON the way a consumer sees it.
func decode(t *testing.T, r sink.Record) map[string]any {
	t.Helper()
	b, err := json.Marshal(r)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestPurchase_EndToEnd(t *testing.T) {
	h := newHarness(t, identity.State{Authenticated: true, Email: "ana@example.com", OpaqueID: "sub-ana"})

	h.tr.Purchase(context.Background(), PurchaseRequest{
		ReservationID: 501,
		TourID:        42,
		Payment:       domain.PaymentInfo{TransactionID: "TX1", PaymentType: "Transfer", TotalValue: 1200},
	})

	recs := h.queue.Records()
	require.Len(t, recs, 2)
	assert.True(t, recs[0].IsClear())

	ev := decode(t, recs[1])
	assert.Equal(t, domain.EventPurchase, ev["event"])
	ecom := ev["ecommerce"].(map[string]any)
	assert.Equal(t, "TX1", ecom["transaction_id"])
	assert.Equal(t, 0.0, ecom["tax"])
	assert.Equal(t, 0.0, ecom["shipping"])
	assert.Equal(t, 1200.0, ecom["value"])

	items := ecom["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "5 días, 4 noches", item["duracion"])
	assert.Equal(t, "1", item["pasajeros_niños"])
	assert.Equal(t, "1", item["pasajeros_adultos"])
	assert.Equal(t, "Sin vuelo", item["vuelo"])
	assert.Equal(t, "Seguro Premium", item["seguros"])

	user := ev["user_data"].(map[string]any)
	assert.Equal(t, "ana@example.com", user["email_address"])
	assert.Equal(t, "+51999", user["phone_number"])
}

var oneItem = []domain.Item{{ID: 1}}

func TestViewItemList_EmptyRenderDoesNotMarkList(t *testing.T) {
	h := newHarness(t, identity.State{})
	ctx := context.Background()

	assert.False(t, h.tr.ViewItemList(ctx, "home", "Home", nil))
	assert.False(t, h.tr.ViewItemList(ctx, "home", "Home", []domain.Item{}))
	assert.Empty(t, h.queue.Records())

	assert.True(t, h.tr.ViewItemList(ctx, "home", "Home", oneItem))
	ev := decode(t, h.queue.Events(domain.EventViewItemList)[0])
	assert.Len(t, ev["ecommerce"].(map[string]any)["items"], 1)
}

func TestPurchase_PassengersFromTravelersWhenReservationOmitsTotal(t *testing.T) {
	h := newHarness(t, identity.State{})
	h.fake.ReservationsByID[501].TotalPassengers = 0

	h.tr.Purchase(context.Background(), PurchaseRequest{
		ReservationID: 501,
		TourID:        42,
		Payment:       domain.PaymentInfo{TransactionID: "TX1", TotalValue: 1200},
	})

	ev := decode(t, h.queue.Events(domain.EventPurchase)[0])
	item := ev["ecommerce"].(map[string]any)["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "1", item["pasajeros_niños"])
	assert.Equal(t, "1", item["pasajeros_adultos"])
}

func TestViewItemList_FiresOncePerList(t *testing.T) {
	h := newHarness(t, identity.State{})
	ctx := context.Background()
	items := []domain.Item{{ID: 1}, {ID: 2}}

	assert.True(t, h.tr.ViewItemList(ctx, "home", "Destacados", items))
	assert.False(t, h.tr.ViewItemList(ctx, "home", "Destacados", items))
	assert.True(t, h.tr.ViewItemList(ctx, "search", "Resultados", items))

	assert.Len(t, h.queue.Events(domain.EventViewItemList), 2)
	assert.Len(t, h.queue.Records(), 4)
}

func TestViewItem_GatedPerListAndItem(t *testing.T) {
	h := newHarness(t, identity.State{})
	ctx := context.Background()

	assert.True(t, h.tr.ViewItem(ctx, "home", "Destacados", domain.Item{ID: 42}))
	assert.False(t, h.tr.ViewItem(ctx, "home", "Destacados", domain.Item{ID: 42}))
	assert.True(t, h.tr.ViewItem(ctx, "search", "Resultados", domain.Item{ID: 42}))
	assert.True(t, h.tr.ViewItem(ctx, "home", "Destacados", domain.Item{ID: 43}))

	assert.Len(t, h.queue.Events(domain.EventViewItem), 3)
}

func TestSkippedEventTouchesNothing(t *testing.T) {
	h := newHarness(t, identity.State{Authenticated: true, Email: "ana@example.com", OpaqueID: "sub-ana"})
	ctx := context.Background()

	h.tr.ViewItemList(ctx, "home", "", oneItem)
	calls := h.fake.CallCount("ByEmail")
	records := len(h.queue.Records())

	assert.False(t, h.tr.ViewItemList(ctx, "home", "", oneItem))
	assert.Equal(t, calls, h.fake.CallCount("ByEmail"))
	assert.Len(t, h.queue.Records(), records)
}

func TestReset_FiresAgain(t *testing.T) {
	h := newHarness(t, identity.State{})
	ctx := context.Background()

	require.True(t, h.tr.ViewItemList(ctx, "home", "", oneItem))
	require.True(t, h.tr.ViewItem(ctx, "home", "", domain.Item{ID: 1}))
	h.tr.Reset()

	assert.True(t, h.tr.ViewItemList(ctx, "home", "", oneItem))
	assert.True(t, h.tr.ViewItem(ctx, "home", "", domain.Item{ID: 1}))
}

func TestInteractionEvent_CarriesParamsAndEmptyUser(t *testing.T) {
	h := newHarness(t, identity.State{})

	h.tr.Search(context.Background(), normalize.SearchParams{Term: "cusco", Destination: "Perú"})

	recs := h.queue.Events(domain.EventSearch)
	require.Len(t, recs, 1)
	ev := decode(t, recs[0])
	assert.Equal(t, "cusco", ev["search_term"])
	assert.Equal(t, "", ev["trip_type"])
	assert.NotContains(t, ev, "ecommerce")
	assert.Equal(t, map[string]any{"email_address": "", "phone_number": "", "user_id": ""}, ev["user_data"])
}

func TestCheckout_DefaultsCurrency(t *testing.T) {
	h := newHarness(t, identity.State{})
	h.tr.opts.Currency = "PEN"

	h.tr.BeginCheckout(context.Background(), normalize.Checkout{Items: []domain.Item{{ID: 1, Price: 10}}})

	ev := decode(t, h.queue.Events(domain.EventBeginCheckout)[0])
	assert.Equal(t, "PEN", ev["ecommerce"].(map[string]any)["currency"])
}

func TestIdentityWait_BoundedByOption(t *testing.T) {
	// Authenticated with an email but no opaque id, and no update ever
	// arrives: the resolver waits for a settle that never comes.
	h := newHarness(t, identity.State{Authenticated: true, Email: "ana@example.com"})

	start := time.Now()
	h.tr.Login(context.Background(), "google")

	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, h.queue.Events(domain.EventLogin), 1)
}

func TestSessions_OnePerID(t *testing.T) {
	f := bookedTour()
	s := NewSessions(f, dispatch.New(sink.NewQueue(), legacy.Notifiers{}), purchase.NewAssembler(f, f), Options{})

	var wg sync.WaitGroup
	got := make([]*Session, 20)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = s.Get("abc")
		}(i)
	}
	wg.Wait()

	for _, sess := range got {
		assert.Same(t, got[0], sess)
	}
	assert.Equal(t, 1, s.Len())

	ctx := context.Background()
	assert.True(t, got[0].Tracker.ViewItemList(ctx, "home", "", oneItem))
	assert.True(t, s.Get("other").Tracker.ViewItemList(ctx, "home", "", oneItem))

	s.End("abc")
	_, ok := s.Lookup("abc")
	assert.False(t, ok)
	assert.True(t, s.Get("abc").Tracker.ViewItemList(ctx, "home", "", oneItem))
}

func TestSessions_SweepDropsIdle(t *testing.T) {
	f := bookedTour()
	s := NewSessions(f, dispatch.New(sink.NewQueue(), legacy.Notifiers{}), purchase.NewAssembler(f, f), Options{})
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		s.Get("anon-" + strconv.Itoa(i))
	}
	now = now.Add(20 * time.Minute)
	s.Get("active")
	now = now.Add(15 * time.Minute)
	s.Get("anon-7")

	assert.Equal(t, 99, s.Sweep(30*time.Minute))
	assert.Equal(t, 2, s.Len())
	_, ok := s.Lookup("active")
	assert.True(t, ok)
	_, ok = s.Lookup("anon-7")
	assert.True(t, ok)
}

func TestSessions_JanitorSweeps(t *testing.T) {
	f := bookedTour()
	s := NewSessions(f, dispatch.New(sink.NewQueue(), legacy.Notifiers{}), purchase.NewAssembler(f, f), Options{})
	s.Get("a")
	s.Get("b")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartJanitor(ctx, time.Nanosecond, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}
