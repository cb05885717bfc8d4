package amadeus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avershin/flightledger/config"
	"github.com/avershin/flightledger/internal/domain"
	"github.com/stretchr/testify/assert"
)

const offersPayload = `{
  "data": [
    {
      "id": "1",
      "price": {"total": "312.40"},
      "itineraries": [
        {
          "segments": [
            {
              "carrierCode": "DL",
              "number": "401",
              "departure": {"iataCode": "JFK", "at": "2026-09-10T08:00:00"},
              "arrival": {"iataCode": "LAX", "at": "2026-09-10T11:30:00"}
            }
          ]
        }
      ]
    },
    {
      "id": "2",
      "price": {"total": "450.00"},
      "itineraries": []
    }
  ]
}`

func newTestServer(t *testing.T, offersStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"access_token": "tok123"}`))
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		assert.Equal(t, "JFK", r.URL.Query().Get("originLocationCode"))
		if offersStatus != http.StatusOK {
			w.WriteHeader(offersStatus)
			return
		}
		w.Write([]byte(offersPayload))
	})
	return httptest.NewServer(mux)
}

func TestClient_Search_MapsOffers(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	defer srv.Close()

	client := NewClient(config.AmadeusConfig{BaseURL: srv.URL, ClientID: "id", ClientSecret: "secret"})

	flights, err := client.Search(context.Background(), "JFK", "LAX", "2026-09-10")

	assert.NoError(t, err)
	assert.Len(t, flights, 2)

	assert.Equal(t, "1", flights[0].FlightID)
	assert.Equal(t, 312.40, flights[0].Price)
	assert.Equal(t, "DL", flights[0].Airline)
	assert.Equal(t, "DL401", flights[0].FlightNumber)
	assert.Equal(t, "JFK", flights[0].Origin)
	assert.Equal(t, "LAX", flights[0].Destination)

	// No segments means placeholder details, same as the provider's empty case.
	assert.Equal(t, "N/A", flights[1].Airline)
	assert.Equal(t, "N/A", flights[1].FlightNumber)
}

func TestClient_Search_ProviderErrorIsUpstreamUnavailable(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError)
	defer srv.Close()

	client := NewClient(config.AmadeusConfig{BaseURL: srv.URL, ClientID: "id", ClientSecret: "secret"})

	flights, err := client.Search(context.Background(), "JFK", "LAX", "2026-09-10")

	assert.Nil(t, flights)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestClient_Search_UnreachableHost(t *testing.T) {
	client := NewClient(config.AmadeusConfig{BaseURL: "http://127.0.0.1:1", ClientID: "id", ClientSecret: "secret"})

	_, err := client.Search(context.Background(), "JFK", "LAX", "2026-09-10")

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
