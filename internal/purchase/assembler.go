// Package purchase assembles the single item of a purchase event from the
// catalog and booking collaborators, falling back to the data embedded on
// the reservation when the catalog path fails.
package purchase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"example.com/travelanalytics/internal/domain"
	"example.com/travelanalytics/internal/normalize"
	"example.com/travelanalytics/internal/upstream"
)

// Request identifies the purchase to assemble.
type Request struct {
	ReservationID int64
	TourID        int64
	Payment       domain.PaymentInfo
	ListID        string
	ListName      string
}

// Assembler fans out to the collaborators. It holds no per-call state.
type Assembler struct {
	booking upstream.Booking
	catalog upstream.Catalog
}

func NewAssembler(booking upstream.Booking, catalog upstream.Catalog) *Assembler {
	return &Assembler{booking: booking, catalog: catalog}
}

// tourContext is everything gathered about the purchased tour before it is
// folded into one item.
type tourContext struct {
	tourID   int64
	code     string
	name     string
	tripType string

	continent string
	country   string
	days      int
	rating    float64
	months    string
	tag       string

	flight     string
	insurance  string
	activities string

	totalPassengers int
	children        int
	childrenKnown   bool

	startDate string
	endDate   string
	price     float64
	coupon    string
}

// Assemble always returns an item: when both paths fail it is built from
// whatever was gathered plus defaults.
func (a *Assembler) Assemble(ctx context.Context, req Request) domain.Item {
	tc, err := a.primary(ctx, req)
	if err != nil {
		log.Warn().Err(err).Int64("reservation_id", req.ReservationID).Msg("catalog assembly failed, using reservation data")
		fb, ferr := a.fallback(ctx, req)
		if ferr != nil {
			log.Error().Err(ferr).Int64("reservation_id", req.ReservationID).Msg("fallback assembly failed, sending partial purchase")
		} else {
			tc = fb
		}
	}
	if tc.tourID == 0 {
		tc.tourID = req.TourID
	}
	if tc.flight == "" {
		tc.flight = NoFlightLabel
	}
	tc.tag = a.visibleTag(ctx, tc.tourID)
	return buildItem(tc, req)
}

// visibleTag names the first tag linked to the tour as visible.
func (a *Assembler) visibleTag(ctx context.Context, tourID int64) string {
	links, err := a.catalog.TourTags(ctx, tourID, upstream.TagVisible)
	if err != nil {
		log.Warn().Err(err).Int64("tour_id", tourID).Msg("tour tags unavailable")
		return ""
	}
	if len(links) == 0 {
		return ""
	}
	tag, err := a.catalog.Tag(ctx, links[0].TagID)
	if err != nil || tag == nil {
		return ""
	}
	return strings.TrimSpace(tag.Name)
}

func buildItem(tc tourContext, req Request) domain.Item {
	it := domain.Item{
		ID:       tc.tourID,
		Code:     tc.code,
		Name:     tc.name,
		ListID:   req.ListID,
		ListName: req.ListName,

		Continent: tc.continent,
		Country:   tc.country,
		Tag:       tc.tag,
		Months:    tc.months,
		TripType:  category5(tc.tripType),

		Price:    firstPositive(tc.price, req.Payment.TotalValue),
		Quantity: 1,
		Coupon:   firstNonEmpty(req.Payment.Coupon, tc.coupon),

		Duration:   normalize.FormatDuration(tc.days),
		StartDate:  tc.startDate,
		EndDate:    tc.endDate,
		Adults:     adultCount(tc.totalPassengers, tc.children, tc.childrenKnown),
		Children:   tc.children,
		Activities: tc.activities,
		Insurance:  tc.insurance,
		Flight:     tc.flight,
	}
	if tc.rating > 0 {
		it.Rating = tc.rating
	}
	code := it.ItemID()
	if code == "" {
		code = strconv.FormatInt(req.TourID, 10)
	}
	it.Variant = fmt.Sprintf("%s - %s", code, tc.flight)
	return it
}
