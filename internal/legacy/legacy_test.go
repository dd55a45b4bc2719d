package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	os.Exit(m.Run())
}

func TestSafe_SwallowsErrorsAndPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		Safe("pixel", func() error { return errors.New("boom") })
		Safe("pixel", func() error { panic("kaboom") })
	})
}

func TestNotify_NilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Notify(context.Background(), "revenue", nil, "revenue", nil)
	})
}

func TestNewHTTPNotifier_EmptyURLDisabled(t *testing.T) {
	assert.Nil(t, NewHTTPNotifier("", time.Second))
}

func TestHTTPNotifier_PostsEnvelope(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL, time.Second)
	err := n.Notify(context.Background(), "Purchase", map[string]any{"value": 10.5})

	require.NoError(t, err)
	assert.Equal(t, "Purchase", got["event"])
	assert.Equal(t, map[string]any{"value": 10.5}, got["data"])
}

func TestHTTPNotifier_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewHTTPNotifier(srv.URL, time.Second).Notify(context.Background(), "x", nil)
	assert.ErrorContains(t, err, "unexpected status 500")
}
