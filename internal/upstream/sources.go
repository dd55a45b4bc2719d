package upstream

import "context"

// A nil record with a nil error never happens except where documented;
// absent records are reported as ErrNotFound.

type UserDirectory interface {
	ByEmail(ctx context.Context, email string) (*User, error)
	ByOpaqueID(ctx context.Context, opaqueID string) (*User, error)
	SearchByEmail(ctx context.Context, email string) (*User, error)
}

type Reservations interface {
	Reservation(ctx context.Context, id int64) (*Reservation, error)
	Summary(ctx context.Context, reservationID int64) (*Summary, error)
}

type Departures interface {
	Departure(ctx context.Context, id int64) (*Departure, error)
}

// FlightSelections returns a nil pack and nil error when no flight is selected.
type FlightSelections interface {
	SelectedFlightPack(ctx context.Context, reservationID int64) (*FlightPack, error)
}

type Travelers interface {
	Travelers(ctx context.Context, reservationID int64) ([]Traveler, error)
	TravelerActivities(ctx context.Context, travelerID int64) ([]TravelerActivity, error)
	TravelerActivityPacks(ctx context.Context, travelerID int64) ([]TravelerActivityPack, error)
}

type Activities interface {
	ItineraryActivities(ctx context.Context, itineraryID, departureID int64) ([]CatalogActivity, error)
}

type AgeGroups interface {
	AgeGroups(ctx context.Context) ([]AgeGroup, error)
}

type Itineraries interface {
	Itineraries(ctx context.Context, tourID int64) ([]Itinerary, error)
	ItineraryDays(ctx context.Context, itineraryID int64) ([]ItineraryDay, error)
}

type Geography interface {
	TourLocations(ctx context.Context, tourID int64, kinds ...string) ([]TourLocation, error)
	Locations(ctx context.Context, ids []int64) ([]Location, error)
}

type Tours interface {
	Tour(ctx context.Context, id int64) (*Tour, error)
	DepartureMonths(ctx context.Context, tourID int64) ([]int, error)
}

type Reviews interface {
	AverageRating(ctx context.Context, tourID int64) (float64, error)
}

type Tags interface {
	TourTags(ctx context.Context, tourID int64, relationKind string) ([]TourTag, error)
	Tag(ctx context.Context, id int64) (*Tag, error)
}

// Booking groups the reservation-side collaborators.
type Booking interface {
	Reservations
	Departures
	FlightSelections
	Travelers
	Activities
}

// Catalog groups the catalog-side collaborators.
type Catalog interface {
	AgeGroups
	Itineraries
	Geography
	Tours
	Reviews
	Tags
}
