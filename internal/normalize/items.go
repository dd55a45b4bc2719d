// Package normalize shapes caller input into the exact payload each sink
// event accepts. Every function is a pure transform.
package normalize

import (
	"strings"

	"example.com/travelanalytics/internal/domain"
)

// DisplayItem carries catalog display fields only. Early-funnel events
// (list, select, item view, wishlist, cart add) send this shape.
type DisplayItem struct {
	ItemID        string  `json:"item_id"`
	ItemName      string  `json:"item_name"`
	Coupon        string  `json:"coupon"`
	Discount      float64 `json:"discount"`
	Index         int     `json:"index"`
	ItemCategory  string  `json:"item_category"`
	ItemCategory2 string  `json:"item_category2"`
	ItemCategory3 string  `json:"item_category3"`
	ItemCategory4 string  `json:"item_category4"`
	ItemCategory5 string  `json:"item_category5"`
	ItemListID    string  `json:"item_list_id"`
	ItemListName  string  `json:"item_list_name"`
	ItemVariant   string  `json:"item_variant"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Rating        string  `json:"puntuacion"`
	Duration      string  `json:"duracion"`
}

// CartItem adds trip dates and passenger counts (view_cart onward).
type CartItem struct {
	DisplayItem
	StartDate string `json:"fecha_inicio"`
	EndDate   string `json:"fecha_fin"`
	Adults    string `json:"pasajeros_adultos"`
	Children  string `json:"pasajeros_niños"`
}

// CheckoutItem adds activities and insurance (begin_checkout onward).
type CheckoutItem struct {
	CartItem
	Activities string `json:"actividades"`
	Insurance  string `json:"seguros"`
}

// FlightItem adds the flight label (add_flights_info onward).
type FlightItem struct {
	CheckoutItem
	Flight string `json:"vuelo"`
}

// listContext is the list an item was shown in, used when the item itself
// does not carry one.
type listContext struct {
	id   string
	name string
}

func displayItem(it domain.Item, lc listContext) DisplayItem {
	d := DisplayItem{
		ItemID:        it.ItemID(),
		ItemName:      strings.TrimSpace(it.Name),
		Coupon:        it.Coupon,
		Discount:      roundMoney(it.Discount),
		Index:         it.Index,
		ItemCategory:  it.Continent,
		ItemCategory2: it.Country,
		ItemCategory3: strings.TrimSpace(it.Tag),
		ItemCategory4: it.Months,
		ItemCategory5: it.TripType,
		ItemListID:    it.ListID,
		ItemListName:  it.ListName,
		ItemVariant:   it.Variant,
		Price:         roundMoney(it.Price),
		Quantity:      it.Quantity,
		Rating:        FormatRating(it.Rating, ""),
		Duration:      it.Duration,
	}
	if d.ItemListID == "" {
		d.ItemListID = lc.id
	}
	if d.ItemListName == "" {
		d.ItemListName = lc.name
	}
	if d.Quantity <= 0 {
		d.Quantity = 1
	}
	if d.Duration == "" {
		d.Duration = FormatDuration(it.Days)
	}
	return d
}

func cartItem(it domain.Item, lc listContext) CartItem {
	return CartItem{
		DisplayItem: displayItem(it, lc),
		StartDate:   it.StartDate,
		EndDate:     it.EndDate,
		Adults:      FormatCount(it.Adults),
		Children:    FormatCount(it.Children),
	}
}

func checkoutItem(it domain.Item, lc listContext) CheckoutItem {
	return CheckoutItem{
		CartItem:   cartItem(it, lc),
		Activities: it.Activities,
		Insurance:  it.Insurance,
	}
}

func flightItem(it domain.Item, lc listContext) FlightItem {
	return FlightItem{
		CheckoutItem: checkoutItem(it, lc),
		Flight:       it.Flight,
	}
}

func mapItems[T any](items []domain.Item, lc listContext, f func(domain.Item, listContext) T) []T {
	out := make([]T, 0, len(items))
	for i, it := range items {
		if it.Index == 0 {
			it.Index = i
		}
		out = append(out, f(it, lc))
	}
	return out
}

// itemsValue sums (price - discount) * quantity over the items.
func itemsValue(items []domain.Item) float64 {
	var total float64
	for _, it := range items {
		q := it.Quantity
		if q <= 0 {
			q = 1
		}
		total += (it.Price - it.Discount) * float64(q)
	}
	return roundMoney(total)
}
