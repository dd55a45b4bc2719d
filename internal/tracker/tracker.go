// Package tracker is the public face of the analytics pipeline. Each UI
// action maps to one method: the list and item views pass the dedup gate
// first, identity is resolved, the payload normalized and dispatched.
package tracker

import (
	"context"
	"time"

	"example.com/travelanalytics/internal/dedup"
	"example.com/travelanalytics/internal/dispatch"
	"example.com/travelanalytics/internal/domain"
	"example.com/travelanalytics/internal/identity"
	"example.com/travelanalytics/internal/normalize"
	"example.com/travelanalytics/internal/purchase"
)

// Options tune a tracker. The zero value uses DefaultCurrency and an
// identity wait bounded only by the single settle event.
// IdentityWait is applied by the Sessions registry when it builds resolvers.
type Options struct {
	Currency     string
	IdentityWait time.Duration
}

func (o Options) currency() string {
	if o.Currency == "" {
		return domain.DefaultCurrency
	}
	return o.Currency
}

// Tracker is scoped to one browsing session. The dispatcher and assembler
// are shared; the dedup store and identity resolver are its own.
type Tracker struct {
	gate       *dedup.Store
	resolver   *identity.Resolver
	dispatcher *dispatch.Dispatcher
	assembler  *purchase.Assembler
	opts       Options
}

func New(resolver *identity.Resolver, d *dispatch.Dispatcher, a *purchase.Assembler, opts Options) *Tracker {
	return &Tracker{
		gate:       dedup.NewStore(),
		resolver:   resolver,
		dispatcher: d,
		assembler:  a,
		opts:       opts,
	}
}

// Reset forgets every list and item already reported, so a re-rendered
// view fires again.
func (t *Tracker) Reset() { t.gate.Reset() }

func (t *Tracker) send(ctx context.Context, ev normalize.Event) {
	t.dispatcher.Dispatch(ctx, ev, t.resolver.Resolve(ctx))
}

// ViewItemList reports whether the list event was sent. A list already
// seen in this session is skipped without touching any collaborator, and
// an empty render neither sends nor marks the list.
func (t *Tracker) ViewItemList(ctx context.Context, listID, listName string, items []domain.Item) bool {
	if len(items) == 0 {
		return false
	}
	if !t.gate.ShouldFireList(listID) {
		return false
	}
	t.send(ctx, normalize.ViewItemList(listID, listName, items))
	return true
}

func (t *Tracker) SelectItem(ctx context.Context, listID, listName string, item domain.Item) {
	t.send(ctx, normalize.SelectItem(listID, listName, item))
}

// ViewItem is gated on the list and item pair.
func (t *Tracker) ViewItem(ctx context.Context, listID, listName string, item domain.Item) bool {
	if !t.gate.ShouldFireItem(listID, item.ItemID()) {
		return false
	}
	t.send(ctx, normalize.ViewItem(listID, listName, item, t.opts.currency()))
	return true
}

func (t *Tracker) AddToWishlist(ctx context.Context, item domain.Item) {
	t.send(ctx, normalize.AddToWishlist(item, t.opts.currency()))
}

func (t *Tracker) AddToCart(ctx context.Context, item domain.Item) {
	t.send(ctx, normalize.AddToCart(item, t.opts.currency()))
}

func (t *Tracker) checkout(c normalize.Checkout) normalize.Checkout {
	if c.Currency == "" {
		c.Currency = t.opts.currency()
	}
	return c
}

func (t *Tracker) ViewCart(ctx context.Context, c normalize.Checkout) {
	t.send(ctx, normalize.ViewCart(t.checkout(c)))
}

func (t *Tracker) BeginCheckout(ctx context.Context, c normalize.Checkout) {
	t.send(ctx, normalize.BeginCheckout(t.checkout(c)))
}

func (t *Tracker) ViewFlightsInfo(ctx context.Context, c normalize.Checkout) {
	t.send(ctx, normalize.ViewFlightsInfo(t.checkout(c)))
}

func (t *Tracker) AddFlightsInfo(ctx context.Context, c normalize.Checkout) {
	t.send(ctx, normalize.AddFlightsInfo(t.checkout(c)))
}

func (t *Tracker) ViewPersonalInfo(ctx context.Context, c normalize.Checkout) {
	t.send(ctx, normalize.ViewPersonalInfo(t.checkout(c)))
}

func (t *Tracker) AddPersonalInfo(ctx context.Context, c normalize.Checkout) {
	t.send(ctx, normalize.AddPersonalInfo(t.checkout(c)))
}

func (t *Tracker) ViewPaymentInfo(ctx context.Context, c normalize.Checkout) {
	t.send(ctx, normalize.ViewPaymentInfo(t.checkout(c)))
}

func (t *Tracker) AddPaymentInfo(ctx context.Context, c normalize.Checkout) {
	t.send(ctx, normalize.AddPaymentInfo(t.checkout(c)))
}

// PurchaseRequest names the completed booking.
type PurchaseRequest struct {
	ReservationID int64
	TourID        int64
	Payment       domain.PaymentInfo
	ListID        string
	ListName      string
}

// Purchase assembles the booked tour from the collaborators, then sends
// one purchase event. It never fails: missing data degrades to defaults.
func (t *Tracker) Purchase(ctx context.Context, req PurchaseRequest) {
	item := t.assembler.Assemble(ctx, purchase.Request{
		ReservationID: req.ReservationID,
		TourID:        req.TourID,
		Payment:       req.Payment,
		ListID:        req.ListID,
		ListName:      req.ListName,
	})
	cur := req.Payment.CurrencyOrDefault(t.opts.currency())
	t.send(ctx, normalize.Purchase(item, req.Payment, cur, req.ListID, req.ListName))
}
