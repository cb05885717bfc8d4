package opensky

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avershin/flightledger/config"
	"github.com/avershin/flightledger/internal/domain"
	"github.com/stretchr/testify/assert"
)

const statesPayload = `{
  "time": 1756500000,
  "states": [
    ["a1b2c3", "DL401   ", "United States", 1756499990, 1756499995, -73.77, 40.64, 1200.5, false, 220.1, 90.0, 1.2, null, 1250.0, "1234", false, 0],
    ["d4e5f6", "BA117", "United Kingdom", 1756499980, 1756499990, -0.45, 51.47, null, true, 0.0, 180.0, 0.0, null, null, "5678", false, 0],
    ["", null, "Nowhere", 0, 0, null, null, null, false, null, null, null, null, null, null, false, 0]
  ]
}`

func TestClient_FetchSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/states/all", r.URL.Path)
		w.Write([]byte(statesPayload))
	}))
	defer srv.Close()

	client := NewClient(config.OpenSkyConfig{BaseURL: srv.URL})

	statuses, err := client.FetchSnapshot(context.Background())

	assert.NoError(t, err)
	// The entry without an icao24 is dropped.
	assert.Len(t, statuses, 2)

	assert.Equal(t, "a1b2c3", statuses[0].FeedKey)
	assert.Equal(t, "DL401", statuses[0].Callsign)
	assert.Equal(t, domain.StatusInAir, statuses[0].Status)
	assert.Equal(t, int64(1756499995), statuses[0].LastUpdated.Unix())

	assert.Equal(t, "d4e5f6", statuses[1].FeedKey)
	assert.Equal(t, domain.StatusOnGround, statuses[1].Status)
}

func TestClient_FetchSnapshot_FeedDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(config.OpenSkyConfig{BaseURL: srv.URL})

	statuses, err := client.FetchSnapshot(context.Background())

	assert.Nil(t, statuses)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
