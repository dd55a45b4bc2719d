package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/travelanalytics/internal/domain"
	"example.com/travelanalytics/internal/legacy"
	"example.com/travelanalytics/internal/normalize"
	"example.com/travelanalytics/internal/sink"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	os.Exit(m.Run())
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, name string, payload map[string]any) error {
	args := m.Called(ctx, name, payload)
	return args.Error(0)
}

type failingSink struct{ calls int }

func (f *failingSink) Push(context.Context, sink.Record) error {
	f.calls++
	return errors.New("sink unavailable")
}

var user = domain.UserIdentity{EmailAddress: "ana@example.com", UserID: "sub-ana"}

func TestDispatch_ClearsThenPushes(t *testing.T) {
	q := sink.NewQueue()
	d := New(q, legacy.Notifiers{})

	d.Dispatch(context.Background(), normalize.ViewItemList("l", "L", []domain.Item{{ID: 1}}), user)

	recs := q.Records()
	require.Len(t, recs, 2)
	assert.True(t, recs[0].IsClear())
	assert.Equal(t, domain.EventViewItemList, recs[1].Event())
	assert.Equal(t, user, recs[1]["user_data"])
	assert.NotNil(t, recs[1]["ecommerce"])
}

func TestDispatch_NonEcommerceFlattensParams(t *testing.T) {
	q := sink.NewQueue()
	d := New(q, legacy.Notifiers{})

	d.Dispatch(context.Background(), normalize.FilterOrder("price_asc"), domain.UserIdentity{})

	rec := q.Events(domain.EventFilterOrder)[0]
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"event": "filter_order",
		"order_by": "price_asc",
		"user_data": {"email_address": "", "phone_number": "", "user_id": ""}
	}`, string(b))
}

func TestDispatch_SinkFailureDoesNotPanic(t *testing.T) {
	fs := &failingSink{}
	pixel := new(MockNotifier)
	pixel.On("Notify", mock.Anything, "ViewContent", mock.Anything).Return(nil)
	d := New(fs, legacy.Notifiers{Pixel: pixel})

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), normalize.ViewItem("l", "L", domain.Item{ID: 1}, "USD"), user)
	})
	assert.Equal(t, 2, fs.calls)
	pixel.AssertExpectations(t)
}

func TestDispatch_NonMilestoneSkipsLegacy(t *testing.T) {
	pixel := new(MockNotifier)
	d := New(sink.NewQueue(), legacy.Notifiers{Pixel: pixel})

	d.Dispatch(context.Background(), normalize.AddToCart(domain.Item{ID: 1}, ""), user)

	pixel.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_PurchaseNotifiesEveryLegacySink(t *testing.T) {
	pixel, tx, conv, rev := new(MockNotifier), new(MockNotifier), new(MockNotifier), new(MockNotifier)
	pixel.On("Notify", mock.Anything, "Purchase", mock.Anything).Return(nil)
	tx.On("Notify", mock.Anything, "transaction", mock.MatchedBy(func(p map[string]any) bool {
		return p["id"] == "TX1" && p["tax"] == 0.0
	})).Return(nil)
	tx.On("Notify", mock.Anything, "line_item", mock.MatchedBy(func(p map[string]any) bool {
		return p["sku"] == "TK-42"
	})).Return(nil)
	conv.On("Notify", mock.Anything, "purchase", mock.Anything).Return(errors.New("down"))
	conv.On("Notify", mock.Anything, "conversion", mock.Anything).Return(nil)
	rev.On("Notify", mock.Anything, "revenue", map[string]any{"value": 1200.0, "currency": "USD"}).Return(nil)

	q := sink.NewQueue()
	d := New(q, legacy.Notifiers{Pixel: pixel, Transaction: tx, Conversion: conv, Revenue: rev})
	ev := normalize.Purchase(domain.Item{Code: "TK-42", Name: "Perú"}, domain.PaymentInfo{TransactionID: "TX1", TotalValue: 1200}, "", "", "")

	d.Dispatch(context.Background(), ev, user)

	assert.Len(t, q.Events(domain.EventPurchase), 1)
	pixel.AssertExpectations(t)
	tx.AssertExpectations(t)
	conv.AssertExpectations(t)
	rev.AssertExpectations(t)
}

func TestDispatch_LegacyPanicIsContained(t *testing.T) {
	pixel := new(MockNotifier)
	pixel.On("Notify", mock.Anything, "InitiateCheckout", mock.Anything).Run(func(mock.Arguments) {
		panic("legacy sdk blew up")
	}).Return(nil)
	q := sink.NewQueue()
	d := New(q, legacy.Notifiers{Pixel: pixel})

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), normalize.BeginCheckout(normalize.Checkout{Items: []domain.Item{{ID: 1}}}), user)
	})
	assert.Len(t, q.Events(domain.EventBeginCheckout), 1)
}
