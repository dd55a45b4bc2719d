package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Client reads every collaborator from the booking platform's REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var (
	_ UserDirectory = (*Client)(nil)
	_ Booking       = (*Client)(nil)
	_ Catalog       = (*Client)(nil)
)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	case resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("upstream read ok")
	return nil
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

// firstUser turns a filtered list response into a single record.
func firstUser(users []User, err error) (*User, error) {
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

// --- users ---

func (c *Client) ByEmail(ctx context.Context, email string) (*User, error) {
	var out []User
	err := c.getJSON(ctx, "/users", url.Values{"email": {email}}, &out)
	return firstUser(out, err)
}

func (c *Client) ByOpaqueID(ctx context.Context, opaqueID string) (*User, error) {
	var out []User
	err := c.getJSON(ctx, "/users", url.Values{"cognitoId": {opaqueID}}, &out)
	return firstUser(out, err)
}

func (c *Client) SearchByEmail(ctx context.Context, email string) (*User, error) {
	var out []User
	err := c.getJSON(ctx, "/users/search", url.Values{"q": {email}}, &out)
	return firstUser(out, err)
}

// --- booking ---

func (c *Client) Reservation(ctx context.Context, reservationID int64) (*Reservation, error) {
	var out Reservation
	if err := c.getJSON(ctx, "/reservations/"+id(reservationID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Summary(ctx context.Context, reservationID int64) (*Summary, error) {
	var out Summary
	if err := c.getJSON(ctx, "/reservations/"+id(reservationID)+"/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Departure(ctx context.Context, departureID int64) (*Departure, error) {
	var out Departure
	if err := c.getJSON(ctx, "/departures/"+id(departureID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SelectedFlightPack(ctx context.Context, reservationID int64) (*FlightPack, error) {
	var out FlightPack
	err := c.getJSON(ctx, "/reservations/"+id(reservationID)+"/flight-packs/selected", nil, &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Travelers(ctx context.Context, reservationID int64) ([]Traveler, error) {
	var out []Traveler
	err := c.getJSON(ctx, "/travelers", url.Values{"reservationId": {id(reservationID)}}, &out)
	return out, err
}

func (c *Client) TravelerActivities(ctx context.Context, travelerID int64) ([]TravelerActivity, error) {
	var out []TravelerActivity
	err := c.getJSON(ctx, "/traveler-activities", url.Values{"travelerId": {id(travelerID)}}, &out)
	return out, err
}

func (c *Client) TravelerActivityPacks(ctx context.Context, travelerID int64) ([]TravelerActivityPack, error) {
	var out []TravelerActivityPack
	err := c.getJSON(ctx, "/traveler-activity-packs", url.Values{"travelerId": {id(travelerID)}}, &out)
	return out, err
}

func (c *Client) ItineraryActivities(ctx context.Context, itineraryID, departureID int64) ([]CatalogActivity, error) {
	var out []CatalogActivity
	q := url.Values{"departureId": {id(departureID)}}
	err := c.getJSON(ctx, "/itineraries/"+id(itineraryID)+"/activities", q, &out)
	return out, err
}

// --- catalog ---

func (c *Client) AgeGroups(ctx context.Context) ([]AgeGroup, error) {
	var out []AgeGroup
	err := c.getJSON(ctx, "/age-groups", nil, &out)
	return out, err
}

func (c *Client) Itineraries(ctx context.Context, tourID int64) ([]Itinerary, error) {
	var out []Itinerary
	err := c.getJSON(ctx, "/tours/"+id(tourID)+"/itineraries", nil, &out)
	return out, err
}

func (c *Client) ItineraryDays(ctx context.Context, itineraryID int64) ([]ItineraryDay, error) {
	var out []ItineraryDay
	err := c.getJSON(ctx, "/itineraries/"+id(itineraryID)+"/days", nil, &out)
	return out, err
}

func (c *Client) TourLocations(ctx context.Context, tourID int64, kinds ...string) ([]TourLocation, error) {
	var out []TourLocation
	q := url.Values{"tourId": {id(tourID)}}
	for _, k := range kinds {
		q.Add("relationType", k)
	}
	err := c.getJSON(ctx, "/tour-locations", q, &out)
	return out, err
}

func (c *Client) Locations(ctx context.Context, ids []int64) ([]Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parts := make([]string, len(ids))
	for i, n := range ids {
		parts[i] = id(n)
	}
	var out []Location
	err := c.getJSON(ctx, "/locations", url.Values{"ids": {strings.Join(parts, ",")}}, &out)
	return out, err
}

func (c *Client) Tour(ctx context.Context, tourID int64) (*Tour, error) {
	var out Tour
	if err := c.getJSON(ctx, "/tours/"+id(tourID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DepartureMonths(ctx context.Context, tourID int64) ([]int, error) {
	var out []int
	err := c.getJSON(ctx, "/tours/"+id(tourID)+"/departure-months", nil, &out)
	return out, err
}

func (c *Client) AverageRating(ctx context.Context, tourID int64) (float64, error) {
	var out struct {
		AverageRating float64 `json:"averageRating"`
	}
	if err := c.getJSON(ctx, "/tours/"+id(tourID)+"/reviews/average", nil, &out); err != nil {
		return 0, err
	}
	return out.AverageRating, nil
}

func (c *Client) TourTags(ctx context.Context, tourID int64, relationKind string) ([]TourTag, error) {
	var out []TourTag
	q := url.Values{"tourId": {id(tourID)}, "relationType": {relationKind}}
	err := c.getJSON(ctx, "/tour-tags", q, &out)
	return out, err
}

func (c *Client) Tag(ctx context.Context, tagID int64) (*Tag, error) {
	var out Tag
	if err := c.getJSON(ctx, "/tags/"+id(tagID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
