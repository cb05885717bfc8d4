// Package amadeus is a minimal client for the Amadeus flight-offers API.
// Any transport, auth, or decode failure surfaces as
// domain.ErrUpstreamUnavailable; the provider is advisory to the search flow
// and must never take the ledger down with it.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avershin/flightledger/config"
	"github.com/avershin/flightledger/internal/domain"
)

const placeholder = "N/A"

type Client struct {
	httpc        *http.Client
	baseURL      string
	clientID     string
	clientSecret string
}

func NewClient(cfg config.AmadeusConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpc:        &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type offersResponse struct {
	Data []struct {
		ID    string `json:"id"`
		Price struct {
			Total string `json:"total"`
		} `json:"price"`
		Itineraries []struct {
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Number      string `json:"number"`
				Departure   struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
	} `json:"data"`
}

func (c *Client) Search(ctx context.Context, origin, destination, date string) ([]domain.FlightSnapshot, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("originLocationCode", origin)
	q.Set("destinationLocationCode", destination)
	q.Set("departureDate", date)
	q.Set("adults", "1")
	q.Set("max", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/shopping/flight-offers?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build search request: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: flight search: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: flight search returned %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var offers offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&offers); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", domain.ErrUpstreamUnavailable, err)
	}

	flights := make([]domain.FlightSnapshot, 0, len(offers.Data))
	for _, offer := range offers.Data {
		price, _ := strconv.ParseFloat(offer.Price.Total, 64)
		snapshot := domain.FlightSnapshot{
			FlightID:      offer.ID,
			Price:         price,
			Origin:        placeholder,
			Destination:   placeholder,
			DepartureTime: placeholder,
			ArrivalTime:   placeholder,
			Airline:       placeholder,
			FlightNumber:  placeholder,
		}
		if len(offer.Itineraries) > 0 && len(offer.Itineraries[0].Segments) > 0 {
			seg := offer.Itineraries[0].Segments[0]
			snapshot.Airline = seg.CarrierCode
			snapshot.FlightNumber = seg.CarrierCode + seg.Number
			snapshot.Origin = seg.Departure.IataCode
			snapshot.Destination = seg.Arrival.IataCode
			snapshot.DepartureTime = seg.Departure.At
			snapshot.ArrivalTime = seg.Arrival.At
		}
		flights = append(flights, snapshot)
	}
	return flights, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build token request: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch token: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil || token.AccessToken == "" {
		return "", fmt.Errorf("%w: decode token response", domain.ErrUpstreamUnavailable)
	}
	return token.AccessToken, nil
}
