// Package upstreamtest provides an in-memory implementation of every
// upstream collaborator for tests.
package upstreamtest

import (
	"context"
	"slices"
	"sync"

	"example.com/travelanalytics/internal/upstream"
)

// Fake serves fixtures from maps. Setting Fail[method] makes that method
// return the error; Calls counts invocations per method.
type Fake struct {
	mu    sync.Mutex
	Fail  map[string]error
	Calls map[string]int

	Users []upstream.User

	ReservationsByID map[int64]*upstream.Reservation
	SummariesByID    map[int64]*upstream.Summary
	DeparturesByID   map[int64]*upstream.Departure
	FlightPacks      map[int64]*upstream.FlightPack
	TravelersByRes   map[int64][]upstream.Traveler
	TravelerActs     map[int64][]upstream.TravelerActivity
	TravelerPacks    map[int64][]upstream.TravelerActivityPack
	ActivityListing  map[int64][]upstream.CatalogActivity

	Groups         []upstream.AgeGroup
	ItinerariesBy  map[int64][]upstream.Itinerary
	DaysBy         map[int64][]upstream.ItineraryDay
	TourLocs       map[int64][]upstream.TourLocation
	LocationsByID  map[int64]upstream.Location
	ToursByID      map[int64]*upstream.Tour
	MonthsByTour   map[int64][]int
	RatingsByTour  map[int64]float64
	TourTagsByTour map[int64][]upstream.TourTag
	TagsByID       map[int64]*upstream.Tag
}

var (
	_ upstream.UserDirectory = (*Fake)(nil)
	_ upstream.Booking       = (*Fake)(nil)
	_ upstream.Catalog       = (*Fake)(nil)
)

func New() *Fake {
	return &Fake{
		Fail:             map[string]error{},
		Calls:            map[string]int{},
		ReservationsByID: map[int64]*upstream.Reservation{},
		SummariesByID:    map[int64]*upstream.Summary{},
		DeparturesByID:   map[int64]*upstream.Departure{},
		FlightPacks:      map[int64]*upstream.FlightPack{},
		TravelersByRes:   map[int64][]upstream.Traveler{},
		TravelerActs:     map[int64][]upstream.TravelerActivity{},
		TravelerPacks:    map[int64][]upstream.TravelerActivityPack{},
		ActivityListing:  map[int64][]upstream.CatalogActivity{},
		ItinerariesBy:    map[int64][]upstream.Itinerary{},
		DaysBy:           map[int64][]upstream.ItineraryDay{},
		TourLocs:         map[int64][]upstream.TourLocation{},
		LocationsByID:    map[int64]upstream.Location{},
		ToursByID:        map[int64]*upstream.Tour{},
		MonthsByTour:     map[int64][]int{},
		RatingsByTour:    map[int64]float64{},
		TourTagsByTour:   map[int64][]upstream.TourTag{},
		TagsByID:         map[int64]*upstream.Tag{},
	}
}

// CallCount returns how many times method was invoked.
func (f *Fake) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[method]
}

func (f *Fake) enter(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[method]++
	return f.Fail[method]
}

func (f *Fake) findUser(match func(upstream.User) bool) (*upstream.User, error) {
	for i := range f.Users {
		if match(f.Users[i]) {
			u := f.Users[i]
			return &u, nil
		}
	}
	return nil, upstream.ErrNotFound
}

func (f *Fake) ByEmail(_ context.Context, email string) (*upstream.User, error) {
	if err := f.enter("ByEmail"); err != nil {
		return nil, err
	}
	return f.findUser(func(u upstream.User) bool { return u.Email == email })
}

func (f *Fake) ByOpaqueID(_ context.Context, opaqueID string) (*upstream.User, error) {
	if err := f.enter("ByOpaqueID"); err != nil {
		return nil, err
	}
	return f.findUser(func(u upstream.User) bool { return u.OpaqueID == opaqueID })
}

func (f *Fake) SearchByEmail(_ context.Context, email string) (*upstream.User, error) {
	if err := f.enter("SearchByEmail"); err != nil {
		return nil, err
	}
	return f.findUser(func(u upstream.User) bool { return u.Email == email })
}

func lookup[T any](m map[int64]*T, key int64) (*T, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, upstream.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *Fake) Reservation(_ context.Context, id int64) (*upstream.Reservation, error) {
	if err := f.enter("Reservation"); err != nil {
		return nil, err
	}
	return lookup(f.ReservationsByID, id)
}

func (f *Fake) Summary(_ context.Context, id int64) (*upstream.Summary, error) {
	if err := f.enter("Summary"); err != nil {
		return nil, err
	}
	return lookup(f.SummariesByID, id)
}

func (f *Fake) Departure(_ context.Context, id int64) (*upstream.Departure, error) {
	if err := f.enter("Departure"); err != nil {
		return nil, err
	}
	return lookup(f.DeparturesByID, id)
}

func (f *Fake) SelectedFlightPack(_ context.Context, reservationID int64) (*upstream.FlightPack, error) {
	if err := f.enter("SelectedFlightPack"); err != nil {
		return nil, err
	}
	fp, err := lookup(f.FlightPacks, reservationID)
	if err != nil {
		return nil, nil
	}
	return fp, nil
}

func (f *Fake) Travelers(_ context.Context, reservationID int64) ([]upstream.Traveler, error) {
	if err := f.enter("Travelers"); err != nil {
		return nil, err
	}
	return slices.Clone(f.TravelersByRes[reservationID]), nil
}

func (f *Fake) TravelerActivities(_ context.Context, travelerID int64) ([]upstream.TravelerActivity, error) {
	if err := f.enter("TravelerActivities"); err != nil {
		return nil, err
	}
	return slices.Clone(f.TravelerActs[travelerID]), nil
}

func (f *Fake) TravelerActivityPacks(_ context.Context, travelerID int64) ([]upstream.TravelerActivityPack, error) {
	if err := f.enter("TravelerActivityPacks"); err != nil {
		return nil, err
	}
	return slices.Clone(f.TravelerPacks[travelerID]), nil
}

func (f *Fake) ItineraryActivities(_ context.Context, itineraryID, _ int64) ([]upstream.CatalogActivity, error) {
	if err := f.enter("ItineraryActivities"); err != nil {
		return nil, err
	}
	return slices.Clone(f.ActivityListing[itineraryID]), nil
}

func (f *Fake) AgeGroups(_ context.Context) ([]upstream.AgeGroup, error) {
	if err := f.enter("AgeGroups"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Groups), nil
}

func (f *Fake) Itineraries(_ context.Context, tourID int64) ([]upstream.Itinerary, error) {
	if err := f.enter("Itineraries"); err != nil {
		return nil, err
	}
	return slices.Clone(f.ItinerariesBy[tourID]), nil
}

func (f *Fake) ItineraryDays(_ context.Context, itineraryID int64) ([]upstream.ItineraryDay, error) {
	if err := f.enter("ItineraryDays"); err != nil {
		return nil, err
	}
	return slices.Clone(f.DaysBy[itineraryID]), nil
}

func (f *Fake) TourLocations(_ context.Context, tourID int64, kinds ...string) ([]upstream.TourLocation, error) {
	if err := f.enter("TourLocations"); err != nil {
		return nil, err
	}
	var out []upstream.TourLocation
	for _, l := range f.TourLocs[tourID] {
		if len(kinds) == 0 || slices.Contains(kinds, l.Kind) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *Fake) Locations(_ context.Context, ids []int64) ([]upstream.Location, error) {
	if err := f.enter("Locations"); err != nil {
		return nil, err
	}
	var out []upstream.Location
	for _, id := range ids {
		if l, ok := f.LocationsByID[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *Fake) Tour(_ context.Context, id int64) (*upstream.Tour, error) {
	if err := f.enter("Tour"); err != nil {
		return nil, err
	}
	return lookup(f.ToursByID, id)
}

func (f *Fake) DepartureMonths(_ context.Context, tourID int64) ([]int, error) {
	if err := f.enter("DepartureMonths"); err != nil {
		return nil, err
	}
	return slices.Clone(f.MonthsByTour[tourID]), nil
}

func (f *Fake) AverageRating(_ context.Context, tourID int64) (float64, error) {
	if err := f.enter("AverageRating"); err != nil {
		return 0, err
	}
	return f.RatingsByTour[tourID], nil
}

func (f *Fake) TourTags(_ context.Context, tourID int64, relationKind string) ([]upstream.TourTag, error) {
	if err := f.enter("TourTags"); err != nil {
		return nil, err
	}
	var out []upstream.TourTag
	for _, t := range f.TourTagsByTour[tourID] {
		if t.RelationKind == relationKind {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *Fake) Tag(_ context.Context, id int64) (*upstream.Tag, error) {
	if err := f.enter("Tag"); err != nil {
		return nil, err
	}
	return lookup(f.TagsByID, id)
}
