package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_ByEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "ana@example.com", r.URL.Query().Get("email"))
		writeJSON(w, []User{{ID: 7, Email: "ana@example.com", Phone: "+51 999"}})
	})

	u, err := c.ByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "+51 999", u.Phone)
}

func TestClient_EmptyListIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []User{})
	})

	_, err := c.ByOpaqueID(context.Background(), "sub-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_StatusErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reservations/1":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	_, err := c.Reservation(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Tour(context.Background(), 2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestClient_SelectedFlightPackNoneSelected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reservations/501/flight-packs/selected", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	fp, err := c.SelectedFlightPack(context.Background(), 501)
	assert.NoError(t, err)
	assert.Nil(t, fp)
}

func TestClient_TourLocationsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tour-locations", r.URL.Path)
		assert.Equal(t, []string{LocationCountry, LocationContinent}, r.URL.Query()["relationType"])
		writeJSON(w, []TourLocation{{TourID: 42, LocationID: 3, Kind: LocationCountry, DisplayOrder: 1}})
	})

	links, err := c.TourLocations(context.Background(), 42, LocationCountry, LocationContinent)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, int64(3), links[0].LocationID)
}

func TestClient_LocationsSkipsEmptyLookup(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	locs, err := c.Locations(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, locs)
	assert.False(t, called)
}

func TestClient_AverageRating(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tours/42/reviews/average", r.URL.Path)
		writeJSON(w, map[string]any{"averageRating": 4.7653})
	})

	avg, err := c.AverageRating(context.Background(), 42)
	require.NoError(t, err)
	assert.InDelta(t, 4.7653, avg, 1e-9)
}
