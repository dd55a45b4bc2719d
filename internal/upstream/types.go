// Package upstream declares the read-only collaborators the analytics
// pipeline consumes and a REST client that implements them.
package upstream

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a collaborator has no record for the key.
var ErrNotFound = errors.New("upstream: not found")

// Location link kinds and tag relation kinds.
const (
	LocationCountry   = "COUNTRY"
	LocationContinent = "CONTINENT"
	TagVisible        = "VISIBLE"
)

// ActivityKind distinguishes single activities from activity packs in a listing.
type ActivityKind string

const (
	KindActivity ActivityKind = "ACT"
	KindPack     ActivityKind = "PACK"
)

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	OpaqueID string `json:"cognitoId"`
	Name     string `json:"name"`
}

// EmbeddedTour is the tour snapshot stored on a reservation.
type EmbeddedTour struct {
	ID         int64    `json:"id"`
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	TripTypeID int64    `json:"tripTypeId"`
	Rating     *float64 `json:"rating"`
	Days       int      `json:"days"`
	Continent  string   `json:"continent"`
	Country    string   `json:"country"`
}

type ReservationActivity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Reservation struct {
	ID              int64                 `json:"id"`
	TourID          int64                 `json:"tourId"`
	DepartureID     int64                 `json:"departureId"`
	TotalPassengers int                   `json:"totalPassengers"`
	TotalAmount     float64               `json:"totalAmount"`
	InsuranceName   string                `json:"insuranceName"`
	CouponCode      string                `json:"couponCode"`
	DepartureDate   time.Time             `json:"departureDate"`
	ReturnDate      time.Time             `json:"returnDate"`
	Activities      []ReservationActivity `json:"activities"`
	Tour            *EmbeddedTour         `json:"tour"`
}

type SummaryLine struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Quantity    int     `json:"quantity"`
}

// Summary is the computed price breakdown of a reservation.
type Summary struct {
	Lines []SummaryLine `json:"items"`
	Total float64       `json:"total"`
}

type Departure struct {
	ID            int64     `json:"id"`
	DepartureDate time.Time `json:"departureDate"`
	ArrivalDate   time.Time `json:"arrivalDate"`
}

type FlightPack struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Traveler struct {
	ID            int64 `json:"id"`
	ReservationID int64 `json:"reservationId"`
	AgeGroupID    int64 `json:"ageGroupId"`
}

type TravelerActivity struct {
	TravelerID int64 `json:"travelerId"`
	ActivityID int64 `json:"activityId"`
}

type TravelerActivityPack struct {
	TravelerID     int64 `json:"travelerId"`
	ActivityPackID int64 `json:"activityPackId"`
}

// CatalogActivity is one entry of an itinerary's activity listing.
type CatalogActivity struct {
	ID   int64        `json:"id"`
	Name string       `json:"name"`
	Kind ActivityKind `json:"type"`
}

// AgeGroup has no upper limit when UpperAge is nil.
type AgeGroup struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LowerAge *int   `json:"lowerLimitAge"`
	UpperAge *int   `json:"upperLimitAge"`
}

type Itinerary struct {
	ID       int64  `json:"id"`
	TourID   int64  `json:"tourId"`
	Name     string `json:"name"`
	Visible  bool   `json:"isVisibleOnWeb"`
	Bookable bool   `json:"isBookable"`
}

type ItineraryDay struct {
	ID          int64 `json:"id"`
	ItineraryID int64 `json:"itineraryId"`
	DayNumber   int   `json:"dayNumber"`
}

type TourLocation struct {
	TourID       int64  `json:"tourId"`
	LocationID   int64  `json:"locationId"`
	Kind         string `json:"relationType"`
	DisplayOrder int    `json:"displayOrder"`
}

type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Tour struct {
	ID         int64  `json:"id"`
	Code       string `json:"tkId"`
	Name       string `json:"name"`
	TripTypeID int64  `json:"tripTypeId"`
}

type TourTag struct {
	TourID       int64  `json:"tourId"`
	TagID        int64  `json:"tagId"`
	RelationKind string `json:"relationType"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
