package normalize

import "example.com/travelanalytics/internal/domain"

// Event is one normalized sink event. Ecommerce events set Ecommerce and
// leave Params nil; the others do the reverse.
type Event struct {
	Name      string
	Ecommerce any
	Params    map[string]any
}

// ListEnvelope is the ecommerce object of list-level events.
type ListEnvelope[T any] struct {
	ItemListID   string `json:"item_list_id"`
	ItemListName string `json:"item_list_name"`
	Items        []T    `json:"items"`
}

// ValueEnvelope is the ecommerce object of item and cart events.
type ValueEnvelope[T any] struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
	Items    []T     `json:"items"`
}

// CheckoutEnvelope is the ecommerce object of the checkout funnel.
type CheckoutEnvelope[T any] struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
	Coupon   string  `json:"coupon"`
	Items    []T     `json:"items"`
}

// PaymentEnvelope adds the payment type to a checkout envelope.
type PaymentEnvelope struct {
	Currency    string       `json:"currency"`
	Value       float64      `json:"value"`
	Coupon      string       `json:"coupon"`
	PaymentType string       `json:"payment_type"`
	Items       []FlightItem `json:"items"`
}

// PurchaseEnvelope is the ecommerce object of purchase.
type PurchaseEnvelope struct {
	TransactionID string       `json:"transaction_id"`
	Value         float64      `json:"value"`
	Tax           float64      `json:"tax"`
	Shipping      float64      `json:"shipping"`
	Currency      string       `json:"currency"`
	Coupon        string       `json:"coupon"`
	PaymentType   string       `json:"payment_type"`
	Items         []FlightItem `json:"items"`
}

// Checkout is the caller input shared by funnel steps from view_cart on.
type Checkout struct {
	Items       []domain.Item
	Currency    string
	Value       float64
	Coupon      string
	PaymentType string
}

func (c Checkout) value() float64 {
	if c.Value > 0 {
		return roundMoney(c.Value)
	}
	return itemsValue(c.Items)
}

func (c Checkout) currency() string {
	if c.Currency == "" {
		return domain.DefaultCurrency
	}
	return c.Currency
}

func ViewItemList(listID, listName string, items []domain.Item) Event {
	lc := listContext{listID, listName}
	return Event{Name: domain.EventViewItemList, Ecommerce: ListEnvelope[DisplayItem]{
		ItemListID:   listID,
		ItemListName: listName,
		Items:        mapItems(items, lc, displayItem),
	}}
}

func SelectItem(listID, listName string, item domain.Item) Event {
	lc := listContext{listID, listName}
	return Event{Name: domain.EventSelectItem, Ecommerce: ListEnvelope[DisplayItem]{
		ItemListID:   listID,
		ItemListName: listName,
		Items:        []DisplayItem{displayItem(item, lc)},
	}}
}

func singleValue(name string, item domain.Item, currency string, lc listContext) Event {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return Event{Name: name, Ecommerce: ValueEnvelope[DisplayItem]{
		Currency: currency,
		Value:    itemsValue([]domain.Item{item}),
		Items:    []DisplayItem{displayItem(item, lc)},
	}}
}

func ViewItem(listID, listName string, item domain.Item, currency string) Event {
	return singleValue(domain.EventViewItem, item, currency, listContext{listID, listName})
}

func AddToWishlist(item domain.Item, currency string) Event {
	return singleValue(domain.EventAddToWishlist, item, currency, listContext{})
}

func AddToCart(item domain.Item, currency string) Event {
	return singleValue(domain.EventAddToCart, item, currency, listContext{})
}

func ViewCart(c Checkout) Event {
	return Event{Name: domain.EventViewCart, Ecommerce: ValueEnvelope[CartItem]{
		Currency: c.currency(),
		Value:    c.value(),
		Items:    mapItems(c.Items, listContext{}, cartItem),
	}}
}

func checkoutStep(name string, c Checkout) Event {
	return Event{Name: name, Ecommerce: CheckoutEnvelope[CheckoutItem]{
		Currency: c.currency(),
		Value:    c.value(),
		Coupon:   c.Coupon,
		Items:    mapItems(c.Items, listContext{}, checkoutItem),
	}}
}

func flightStep(name string, c Checkout) Event {
	return Event{Name: name, Ecommerce: CheckoutEnvelope[FlightItem]{
		Currency: c.currency(),
		Value:    c.value(),
		Coupon:   c.Coupon,
		Items:    mapItems(c.Items, listContext{}, flightItem),
	}}
}

func BeginCheckout(c Checkout) Event   { return checkoutStep(domain.EventBeginCheckout, c) }
func ViewFlightsInfo(c Checkout) Event { return checkoutStep(domain.EventViewFlightsInfo, c) }

func AddFlightsInfo(c Checkout) Event   { return flightStep(domain.EventAddFlightsInfo, c) }
func ViewPersonalInfo(c Checkout) Event { return flightStep(domain.EventViewPersonalInfo, c) }
func AddPersonalInfo(c Checkout) Event  { return flightStep(domain.EventAddPersonalInfo, c) }
func ViewPaymentInfo(c Checkout) Event  { return flightStep(domain.EventViewPaymentInfo, c) }

func AddPaymentInfo(c Checkout) Event {
	return Event{Name: domain.EventAddPaymentInfo, Ecommerce: PaymentEnvelope{
		Currency:    c.currency(),
		Value:       c.value(),
		Coupon:      c.Coupon,
		PaymentType: c.PaymentType,
		Items:       mapItems(c.Items, listContext{}, flightItem),
	}}
}

// Purchase builds the purchase event for a single assembled item.
// Tax and shipping are always sent as zero.
func Purchase(item domain.Item, p domain.PaymentInfo, currency string, listID, listName string) Event {
	value := roundMoney(p.TotalValue)
	if value <= 0 {
		value = itemsValue([]domain.Item{item})
	}
	coupon := p.Coupon
	if coupon == "" {
		coupon = item.Coupon
	}
	return Event{Name: domain.EventPurchase, Ecommerce: PurchaseEnvelope{
		TransactionID: p.TransactionID,
		Value:         value,
		Tax:           0,
		Shipping:      0,
		Currency:      p.CurrencyOrDefault(currency),
		Coupon:        coupon,
		PaymentType:   p.PaymentType,
		Items:         []FlightItem{flightItem(item, listContext{listID, listName})},
	}}
}
