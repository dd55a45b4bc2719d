package transporthttp

import (
	"context"
	"strconv"

	"example.com/travelanalytics/internal/domain"
	"example.com/travelanalytics/internal/normalize"
	"example.com/travelanalytics/internal/tracker"
)

// eventRequest is the body of POST /v1/events/{name}. Which fields matter
// depends on the event.
type eventRequest struct {
	ListID      string            `json:"list_id"`
	ListName    string            `json:"list_name"`
	Items       []domain.Item     `json:"items"`
	Item        *domain.Item      `json:"item"`
	Currency    string            `json:"currency"`
	Value       float64           `json:"value"`
	Coupon      string            `json:"coupon"`
	PaymentType string            `json:"payment_type"`
	Params      map[string]string `json:"params"`
}

func (r eventRequest) checkout() normalize.Checkout {
	return normalize.Checkout{
		Items:       r.Items,
		Currency:    r.Currency,
		Value:       r.Value,
		Coupon:      r.Coupon,
		PaymentType: r.PaymentType,
	}
}

func (r eventRequest) item() domain.Item {
	if r.Item == nil {
		return domain.Item{}
	}
	return *r.Item
}

func (r eventRequest) param(k string) string { return r.Params[k] }

// shape says which body fields an event requires.
type shape int

const (
	shapeList shape = iota
	shapeListItem
	shapeItem
	shapeCheckout
	shapeParams
)

// route sends one event and reports whether it passed the dedup gate.
type route struct {
	shape shape
	send  func(ctx context.Context, t *tracker.Tracker, r eventRequest) bool
}

func always(f func(ctx context.Context, t *tracker.Tracker, r eventRequest)) func(context.Context, *tracker.Tracker, eventRequest) bool {
	return func(ctx context.Context, t *tracker.Tracker, r eventRequest) bool {
		f(ctx, t, r)
		return true
	}
}

func checkoutRoute(f func(t *tracker.Tracker, ctx context.Context, c normalize.Checkout)) route {
	return route{shape: shapeCheckout, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		f(t, ctx, r.checkout())
	})}
}

var routes = map[string]route{
	domain.EventViewItemList: {shape: shapeList, send: func(ctx context.Context, t *tracker.Tracker, r eventRequest) bool {
		return t.ViewItemList(ctx, r.ListID, r.ListName, r.Items)
	}},
	domain.EventSelectItem: {shape: shapeListItem, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.SelectItem(ctx, r.ListID, r.ListName, r.item())
	})},
	domain.EventViewItem: {shape: shapeListItem, send: func(ctx context.Context, t *tracker.Tracker, r eventRequest) bool {
		return t.ViewItem(ctx, r.ListID, r.ListName, r.item())
	}},
	domain.EventAddToWishlist: {shape: shapeItem, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.AddToWishlist(ctx, r.item())
	})},
	domain.EventAddToCart: {shape: shapeItem, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.AddToCart(ctx, r.item())
	})},

	domain.EventViewCart:         checkoutRoute((*tracker.Tracker).ViewCart),
	domain.EventBeginCheckout:    checkoutRoute((*tracker.Tracker).BeginCheckout),
	domain.EventViewFlightsInfo:  checkoutRoute((*tracker.Tracker).ViewFlightsInfo),
	domain.EventAddFlightsInfo:   checkoutRoute((*tracker.Tracker).AddFlightsInfo),
	domain.EventViewPersonalInfo: checkoutRoute((*tracker.Tracker).ViewPersonalInfo),
	domain.EventAddPersonalInfo:  checkoutRoute((*tracker.Tracker).AddPersonalInfo),
	domain.EventViewPaymentInfo:  checkoutRoute((*tracker.Tracker).ViewPaymentInfo),
	domain.EventAddPaymentInfo:   checkoutRoute((*tracker.Tracker).AddPaymentInfo),

	domain.EventSignUp: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.SignUp(ctx, r.param("method"))
	})},
	domain.EventLogin: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.Login(ctx, r.param("method"))
	})},
	domain.EventMenuInteraction: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.MenuClick(ctx, r.param("menu_section"), r.param("menu_option"))
	})},
	domain.EventFooterInteraction: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.FooterClick(ctx, r.param("footer_section"), r.param("footer_option"))
	})},
	domain.EventTripType: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.TripTypeClick(ctx, r.param("trip_type"), r.param("click_location"))
	})},
	domain.EventClickContact: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.ContactClick(ctx, r.param("contact_method"), r.param("click_location"))
	})},
	domain.EventClickLogo: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.LogoClick(ctx, r.param("click_location"))
	})},
	domain.EventGeneratedLead: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.LeadGenerated(ctx, r.param("form_name"), r.param("lead_type"))
	})},
	domain.EventSearch: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.Search(ctx, normalize.SearchParams{
			Term:          r.param("search_term"),
			Destination:   r.param("destination"),
			DepartureDate: r.param("departure_date"),
			TripType:      r.param("trip_type"),
		})
	})},
	domain.EventFilter: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.Filter(ctx, r.param("filter_name"), r.param("filter_value"))
	})},
	domain.EventFilterOrder: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.FilterOrder(ctx, r.param("order_by"))
	})},
	domain.EventFileDownload: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.FileDownload(ctx, r.param("file_name"), r.param("file_extension"), r.param("link_url"))
	})},
	domain.EventShare: {shape: shapeParams, send: always(func(ctx context.Context, t *tracker.Tracker, r eventRequest) {
		t.Share(ctx, r.param("method"), r.param("content_type"), r.param("item_id"))
	})},
}

// validate checks the body against the fields the event's shape needs.
func (rt route) validate(r *eventRequest) map[string][]string {
	var prob map[string][]string
	switch rt.shape {
	case shapeList:
		prob = fieldProblems("", domain.ValidateListID(r.ListID), prob)
		prob = itemProblems(r.Items, true, prob)
	case shapeListItem:
		prob = fieldProblems("", domain.ValidateListID(r.ListID), prob)
		prob = singleItemProblems(r.Item, prob)
	case shapeItem:
		prob = singleItemProblems(r.Item, prob)
	case shapeCheckout:
		prob = itemProblems(r.Items, true, prob)
	case shapeParams:
		prob = fieldProblems("params", domain.ValidateParams(r.Params), prob)
	}
	if len(prob) == 0 {
		return nil
	}
	return prob
}

func singleItemProblems(it *domain.Item, into map[string][]string) map[string][]string {
	if it == nil {
		return fieldProblems("", []domain.FieldError{{Field: "item", Msg: "required"}}, into)
	}
	return fieldProblems("item", domain.ValidateItem(it), into)
}

func itemProblems(items []domain.Item, required bool, into map[string][]string) map[string][]string {
	all, top := domain.ValidateItems(items, required)
	if top == nil {
		return into
	}
	if all == nil {
		return fieldProblems("", []domain.FieldError{{Field: "items", Msg: top.Error()}}, into)
	}
	for i, errs := range all {
		into = fieldProblems("items["+strconv.Itoa(i)+"]", errs, into)
	}
	return into
}
