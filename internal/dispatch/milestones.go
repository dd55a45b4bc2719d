package dispatch

import (
	"context"

	"example.com/travelanalytics/internal/domain"
	"example.com/travelanalytics/internal/legacy"
	"example.com/travelanalytics/internal/normalize"
)

// Pixel event names per milestone.
var pixelEvents = map[string]string{
	domain.EventViewItem:        "ViewContent",
	domain.EventBeginCheckout:   "InitiateCheckout",
	domain.EventViewPaymentInfo: "AddPaymentInfo",
	domain.EventPurchase:        "Purchase",
}

// summary is what the legacy destinations need from an envelope.
type summary struct {
	currency      string
	value         float64
	transactionID string
	tax           float64
	shipping      float64
	items         []normalize.DisplayItem
}

func summarize(ecommerce any) summary {
	switch e := ecommerce.(type) {
	case normalize.ValueEnvelope[normalize.DisplayItem]:
		return summary{currency: e.Currency, value: e.Value, items: e.Items}
	case normalize.CheckoutEnvelope[normalize.CheckoutItem]:
		s := summary{currency: e.Currency, value: e.Value}
		for _, it := range e.Items {
			s.items = append(s.items, it.DisplayItem)
		}
		return s
	case normalize.CheckoutEnvelope[normalize.FlightItem]:
		s := summary{currency: e.Currency, value: e.Value}
		for _, it := range e.Items {
			s.items = append(s.items, it.DisplayItem)
		}
		return s
	case normalize.PurchaseEnvelope:
		s := summary{
			currency:      e.Currency,
			value:         e.Value,
			transactionID: e.TransactionID,
			tax:           e.Tax,
			shipping:      e.Shipping,
		}
		for _, it := range e.Items {
			s.items = append(s.items, it.DisplayItem)
		}
		return s
	default:
		return summary{}
	}
}

func (d *Dispatcher) notifyLegacy(ctx context.Context, ev normalize.Event) {
	pixel, ok := pixelEvents[ev.Name]
	if !ok {
		return
	}
	s := summarize(ev.Ecommerce)
	legacy.Notify(ctx, "pixel", d.legacy.Pixel, pixel, pixelPayload(s))

	if ev.Name != domain.EventPurchase {
		return
	}
	legacy.Notify(ctx, "transaction", d.legacy.Transaction, "transaction", map[string]any{
		"id":       s.transactionID,
		"revenue":  s.value,
		"tax":      s.tax,
		"shipping": s.shipping,
		"currency": s.currency,
	})
	for _, it := range s.items {
		legacy.Notify(ctx, "transaction", d.legacy.Transaction, "line_item", map[string]any{
			"id":       s.transactionID,
			"sku":      it.ItemID,
			"name":     it.ItemName,
			"category": it.ItemCategory5,
			"price":    it.Price,
			"quantity": it.Quantity,
		})
	}
	legacy.Notify(ctx, "conversion", d.legacy.Conversion, "purchase", map[string]any{
		"transaction_id": s.transactionID,
		"value":          s.value,
		"currency":       s.currency,
		"items":          contentIDs(s.items),
	})
	legacy.Notify(ctx, "conversion", d.legacy.Conversion, "conversion", map[string]any{
		"transaction_id": s.transactionID,
		"value":          s.value,
		"currency":       s.currency,
	})
	legacy.Notify(ctx, "revenue", d.legacy.Revenue, "revenue", map[string]any{
		"value":    s.value,
		"currency": s.currency,
	})
}

func pixelPayload(s summary) map[string]any {
	name := ""
	if len(s.items) > 0 {
		name = s.items[0].ItemName
	}
	return map[string]any{
		"content_ids":  contentIDs(s.items),
		"content_name": name,
		"content_type": "product",
		"value":        s.value,
		"currency":     s.currency,
	}
}

func contentIDs(items []normalize.DisplayItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ItemID)
	}
	return ids
}
