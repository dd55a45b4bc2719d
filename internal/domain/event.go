package domain

import "strconv"

// Event names pushed to the sink.
const (
	EventViewItemList     = "view_item_list"
	EventSelectItem       = "select_item"
	EventViewItem         = "view_item"
	EventAddToWishlist    = "add_to_wishlist"
	EventAddToCart        = "add_to_cart"
	EventViewCart         = "view_cart"
	EventBeginCheckout    = "begin_checkout"
	EventViewFlightsInfo  = "view_flights_info"
	EventAddFlightsInfo   = "add_flights_info"
	EventViewPersonalInfo = "view_personal_info"
	EventAddPersonalInfo  = "add_personal_info"
	EventViewPaymentInfo  = "view_payment_info"
	EventAddPaymentInfo   = "add_payment_info"
	EventPurchase         = "purchase"

	EventSignUp            = "sign_up"
	EventLogin             = "login"
	EventMenuInteraction   = "menu_interaction"
	EventFooterInteraction = "footer_interaction"
	EventTripType          = "trip_type"
	EventClickContact      = "click_contact"
	EventClickLogo         = "click_logo"
	EventGeneratedLead     = "generated_lead"
	EventSearch            = "search"
	EventFilter            = "filter"
	EventFilterOrder       = "filter_order"
	EventFileDownload      = "file_download"
	EventShare             = "share"
)

// DefaultCurrency is used when a caller leaves the currency blank.
const DefaultCurrency = "USD"

// UserIdentity is stamped on every outgoing record as user_data.
// Fields are never absent, only empty.
type UserIdentity struct {
	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number"`
	UserID       string `json:"user_id"`
}

// Item is the raw, caller-supplied description of one tour inside an event.
// The normalizer decides which of these fields reach the sink.
type Item struct {
	ID       int64  `json:"id,omitempty"`
	Code     string `json:"code,omitempty"`
	Name     string `json:"name,omitempty"`
	ListID   string `json:"list_id,omitempty"`
	ListName string `json:"list_name,omitempty"`
	Index    int    `json:"index,omitempty"`

	Continent string `json:"continent,omitempty"`
	Country   string `json:"country,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Months    string `json:"months,omitempty"`
	TripType  string `json:"trip_type,omitempty"`

	Price    float64 `json:"price,omitempty"`
	Quantity int     `json:"quantity,omitempty"`
	Discount float64 `json:"discount,omitempty"`
	Coupon   string  `json:"coupon,omitempty"`
	Variant  string  `json:"variant,omitempty"`

	// Rating accepts a number or a numeric string.
	Rating any `json:"rating,omitempty"`
	// Duration is a preformatted "N días, M noches" label; Days is used when empty.
	Duration string `json:"duration,omitempty"`
	Days     int    `json:"days,omitempty"`

	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	Adults     int    `json:"adults,omitempty"`
	Children   int    `json:"children,omitempty"`
	Activities string `json:"activities,omitempty"`
	Insurance  string `json:"insurance,omitempty"`
	Flight     string `json:"flight,omitempty"`
}

// ItemID is the external code when present, the numeric id otherwise.
func (it Item) ItemID() string {
	if it.Code != "" {
		return it.Code
	}
	if it.ID != 0 {
		return strconv.FormatInt(it.ID, 10)
	}
	return ""
}

// PaymentInfo is the commercial part of a checkout step supplied by the caller.
type PaymentInfo struct {
	TransactionID string  `json:"transaction_id,omitempty"`
	PaymentType   string  `json:"payment_type,omitempty"`
	TotalValue    float64 `json:"total_value,omitempty"`
	Tax           float64 `json:"tax,omitempty"`
	Shipping      float64 `json:"shipping,omitempty"`
	Coupon        string  `json:"coupon,omitempty"`
	Currency      string  `json:"currency,omitempty"`

	// StoredInsurance is the insurance label remembered by the checkout flow,
	// used when neither the reservation nor its summary name one.
	StoredInsurance string `json:"stored_insurance,omitempty"`
}

// CurrencyOrDefault returns the currency, falling back to def and then DefaultCurrency.
func (p PaymentInfo) CurrencyOrDefault(def string) string {
	switch {
	case p.Currency != "":
		return p.Currency
	case def != "":
		return def
	default:
		return DefaultCurrency
	}
}
