package purchase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"example.com/travelanalytics/internal/upstream"
)

// firstReads is the first fan-out: reads that need only the request ids.
// Itineraries and the reservation are required; everything else defaults.
type firstReads struct {
	itineraries []upstream.Itinerary
	reservation *upstream.Reservation
	summary     *upstream.Summary
	flightPack  *upstream.FlightPack

	travelers   []upstream.Traveler
	travelersOK bool
	ageGroups   []upstream.AgeGroup
	ageGroupsOK bool
}

// detailReads is the second fan-out, dependent on the itinerary and the
// reservation's departure. Every field defaults on its own failure except
// the tour when no itinerary exists.
type detailReads struct {
	days      int
	continent string
	country   string
	months    []int
	tour      *upstream.Tour
	rating    float64
	departure *upstream.Departure
	// assigned is the label built from per-traveler activity assignments.
	assigned string
}

func (a *Assembler) readFirst(ctx context.Context, req Request) (firstReads, error) {
	var r firstReads
	g, gctx := errgroup.WithContext(ctx)

	g.Go(required(gctx, "itineraries", &r.itineraries, func(ctx context.Context) ([]upstream.Itinerary, error) {
		return a.catalog.Itineraries(ctx, req.TourID)
	}))
	g.Go(required(gctx, "reservation", &r.reservation, func(ctx context.Context) (*upstream.Reservation, error) {
		return a.booking.Reservation(ctx, req.ReservationID)
	}))
	g.Go(optional(gctx, "summary", &r.summary, nil, func(ctx context.Context) (*upstream.Summary, error) {
		return a.booking.Summary(ctx, req.ReservationID)
	}))
	g.Go(optional(gctx, "flight_pack", &r.flightPack, nil, func(ctx context.Context) (*upstream.FlightPack, error) {
		return a.booking.SelectedFlightPack(ctx, req.ReservationID)
	}))
	g.Go(optional(gctx, "travelers", &r.travelers, nil, func(ctx context.Context) ([]upstream.Traveler, error) {
		v, err := a.booking.Travelers(ctx, req.ReservationID)
		r.travelersOK = err == nil
		return v, err
	}))
	g.Go(optional(gctx, "age_groups", &r.ageGroups, nil, func(ctx context.Context) ([]upstream.AgeGroup, error) {
		v, err := a.catalog.AgeGroups(ctx)
		r.ageGroupsOK = err == nil
		return v, err
	}))

	err := g.Wait()
	return r, err
}

// firstBookable picks the first itinerary that is visible and bookable.
func firstBookable(its []upstream.Itinerary) *upstream.Itinerary {
	for i := range its {
		if its[i].Visible && its[i].Bookable {
			return &its[i]
		}
	}
	return nil
}

func (a *Assembler) readDetails(ctx context.Context, req Request, first firstReads, itin *upstream.Itinerary) (detailReads, error) {
	var d detailReads
	g, gctx := errgroup.WithContext(ctx)

	if itin != nil {
		g.Go(optional(gctx, "itinerary_days", &d.days, 0, func(ctx context.Context) (int, error) {
			days, err := a.catalog.ItineraryDays(ctx, itin.ID)
			return len(days), err
		}))
		g.Go(func() error {
			d.continent, d.country = a.readGeography(gctx, req.TourID)
			return nil
		})
		g.Go(optional(gctx, "departure_months", &d.months, nil, func(ctx context.Context) ([]int, error) {
			return a.catalog.DepartureMonths(ctx, req.TourID)
		}))
		g.Go(optional(gctx, "tour", &d.tour, nil, func(ctx context.Context) (*upstream.Tour, error) {
			return a.catalog.Tour(ctx, req.TourID)
		}))
	} else {
		g.Go(required(gctx, "tour", &d.tour, func(ctx context.Context) (*upstream.Tour, error) {
			return a.catalog.Tour(ctx, req.TourID)
		}))
	}
	g.Go(optional(gctx, "rating", &d.rating, 0, func(ctx context.Context) (float64, error) {
		return a.catalog.AverageRating(ctx, req.TourID)
	}))

	depID := first.reservation.DepartureID
	if depID != 0 {
		g.Go(optional(gctx, "departure", &d.departure, nil, func(ctx context.Context) (*upstream.Departure, error) {
			return a.booking.Departure(ctx, depID)
		}))
	}
	if itin != nil && len(first.travelers) > 0 {
		g.Go(func() error {
			d.assigned = a.readAssignedActivities(gctx, first.travelers, itin.ID, depID)
			return nil
		})
	}

	err := g.Wait()
	return d, err
}

func (a *Assembler) readGeography(ctx context.Context, tourID int64) (continent, country string) {
	var links []upstream.TourLocation
	_ = optional(ctx, "tour_locations", &links, nil, func(ctx context.Context) ([]upstream.TourLocation, error) {
		return a.catalog.TourLocations(ctx, tourID, upstream.LocationCountry, upstream.LocationContinent)
	})()
	if len(links) == 0 {
		return "", ""
	}
	var locs []upstream.Location
	_ = optional(ctx, "locations", &locs, nil, func(ctx context.Context) ([]upstream.Location, error) {
		return a.catalog.Locations(ctx, locationIDs(links))
	})()
	return geography(links, locs)
}

// readAssignedActivities unions every traveler's activities and packs and
// names them from the itinerary's listing.
func (a *Assembler) readAssignedActivities(ctx context.Context, travelers []upstream.Traveler, itineraryID, departureID int64) string {
	acts := make([][]upstream.TravelerActivity, len(travelers))
	packs := make([][]upstream.TravelerActivityPack, len(travelers))
	var listing []upstream.CatalogActivity

	var g errgroup.Group
	for i, t := range travelers {
		g.Go(optional(ctx, "traveler_activities", &acts[i], nil, func(ctx context.Context) ([]upstream.TravelerActivity, error) {
			return a.booking.TravelerActivities(ctx, t.ID)
		}))
		g.Go(optional(ctx, "traveler_activity_packs", &packs[i], nil, func(ctx context.Context) ([]upstream.TravelerActivityPack, error) {
			return a.booking.TravelerActivityPacks(ctx, t.ID)
		}))
	}
	g.Go(optional(ctx, "itinerary_activities", &listing, nil, func(ctx context.Context) ([]upstream.CatalogActivity, error) {
		return a.booking.ItineraryActivities(ctx, itineraryID, departureID)
	}))
	_ = g.Wait()

	activityIDs := map[int64]struct{}{}
	packIDs := map[int64]struct{}{}
	for i := range travelers {
		for _, ta := range acts[i] {
			activityIDs[ta.ActivityID] = struct{}{}
		}
		for _, tp := range packs[i] {
			packIDs[tp.ActivityPackID] = struct{}{}
		}
	}
	if len(activityIDs) == 0 && len(packIDs) == 0 {
		return ""
	}
	return assignedActivitiesLabel(listing, activityIDs, packIDs)
}

// primary is the catalog-first path. On error the returned context holds
// whatever was gathered before the failure.
func (a *Assembler) primary(ctx context.Context, req Request) (tourContext, error) {
	tc := tourContext{tourID: req.TourID, flight: NoFlightLabel, insurance: req.Payment.StoredInsurance}

	first, err := a.readFirst(ctx, req)
	if first.reservation != nil {
		applyReservation(&tc, first.reservation, first.summary, req)
	}
	if err != nil {
		return tc, fmt.Errorf("first fan-out: %w", err)
	}

	itin := firstBookable(first.itineraries)
	details, err := a.readDetails(ctx, req, first, itin)
	if err != nil {
		return tc, fmt.Errorf("detail fan-out: %w", err)
	}

	if t := details.tour; t != nil {
		tc.tourID = t.ID
		tc.code = t.Code
		tc.name = t.Name
		tc.tripType = tripTypeOf(t.TripTypeID)
	}
	tc.rating = details.rating
	if itin != nil {
		tc.days = details.days
		tc.continent = details.continent
		tc.country = details.country
		tc.months = monthsLabel(details.months)
	}
	if dep := details.departure; dep != nil {
		tc.startDate = firstNonEmpty(formatDate(dep.DepartureDate), tc.startDate)
		tc.endDate = firstNonEmpty(formatDate(dep.ArrivalDate), tc.endDate)
	}

	tc.flight = flightLabel(first.flightPack)
	tc.insurance = firstNonEmpty(
		first.reservation.InsuranceName,
		summaryLabel(first.summary, insuranceWords),
		req.Payment.StoredInsurance,
	)
	tc.activities = firstNonEmpty(
		details.assigned,
		summaryLabel(first.summary, activityWords),
		reservationActivities(first.reservation),
	)
	if tc.totalPassengers <= 0 && first.travelersOK {
		tc.totalPassengers = len(first.travelers)
	}
	if first.travelersOK && first.ageGroupsOK {
		tc.children = countChildren(first.travelers, first.ageGroups)
		tc.childrenKnown = true
	}
	return tc, nil
}

// applyReservation seeds the context from the reservation record so a
// later failure still leaves usable data behind.
func applyReservation(tc *tourContext, r *upstream.Reservation, s *upstream.Summary, req Request) {
	tc.totalPassengers = r.TotalPassengers
	tc.startDate = formatDate(r.DepartureDate)
	tc.endDate = formatDate(r.ReturnDate)
	tc.coupon = r.CouponCode
	var total float64
	if s != nil {
		total = s.Total
	}
	tc.price = firstPositive(r.TotalAmount, total, req.Payment.TotalValue)
	if et := r.Tour; et != nil {
		tc.code = firstNonEmpty(tc.code, et.Code)
		tc.name = firstNonEmpty(tc.name, et.Name)
		tc.tripType = tripTypeOf(et.TripTypeID)
	}
}
