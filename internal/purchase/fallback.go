package purchase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"example.com/travelanalytics/internal/upstream"
)

// fallback rebuilds the context from the reservation alone, reading the
// tour from its embedded snapshot. Unknown geography and day count stay blank.
func (a *Assembler) fallback(ctx context.Context, req Request) (tourContext, error) {
	tc := tourContext{tourID: req.TourID, flight: NoFlightLabel, insurance: req.Payment.StoredInsurance}

	var (
		res     *upstream.Reservation
		summary *upstream.Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(required(gctx, "reservation", &res, func(ctx context.Context) (*upstream.Reservation, error) {
		return a.booking.Reservation(ctx, req.ReservationID)
	}))
	g.Go(optional(gctx, "summary", &summary, nil, func(ctx context.Context) (*upstream.Summary, error) {
		return a.booking.Summary(ctx, req.ReservationID)
	}))
	if err := g.Wait(); err != nil {
		return tc, fmt.Errorf("fallback: %w", err)
	}

	applyReservation(&tc, res, summary, req)
	if et := res.Tour; et != nil {
		if et.ID != 0 {
			tc.tourID = et.ID
		}
		tc.continent = et.Continent
		tc.country = et.Country
		tc.days = et.Days
		if et.Rating != nil {
			tc.rating = *et.Rating
		}
	}
	tc.insurance = firstNonEmpty(
		res.InsuranceName,
		summaryLabel(summary, insuranceWords),
		req.Payment.StoredInsurance,
	)
	tc.activities = firstNonEmpty(
		summaryLabel(summary, activityWords),
		reservationActivities(res),
	)
	return tc, nil
}
