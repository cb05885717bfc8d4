// Package opensky fetches aircraft state vectors from the OpenSky network.
package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avershin/flightledger/config"
	"github.com/avershin/flightledger/internal/domain"
)

type Client struct {
	httpc   *http.Client
	baseURL string
}

func NewClient(cfg config.OpenSkyConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpc:   &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// statesResponse mirrors the /states/all payload: each state is a
// positional array, not an object.
type statesResponse struct {
	Time   int64             `json:"time"`
	States [][]json.RawMessage `json:"states"`
}

const (
	idxIcao24      = 0
	idxCallsign    = 1
	idxLastContact = 4
	idxOnGround    = 8
)

func (c *Client) FetchSnapshot(ctx context.Context) ([]domain.LiveStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/states/all", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build states request: %v", domain.ErrUpstreamUnavailable, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch states: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: states request returned %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var states statesResponse
	if err := json.NewDecoder(resp.Body).Decode(&states); err != nil {
		return nil, fmt.Errorf("%w: decode states response: %v", domain.ErrUpstreamUnavailable, err)
	}

	now := time.Now().UTC()
	statuses := make([]domain.LiveStatus, 0, len(states.States))
	for _, state := range states.States {
		if len(state) <= idxOnGround {
			continue
		}
		var icao24, callsign string
		var onGround bool
		if err := json.Unmarshal(state[idxIcao24], &icao24); err != nil || icao24 == "" {
			continue
		}
		_ = json.Unmarshal(state[idxCallsign], &callsign)
		_ = json.Unmarshal(state[idxOnGround], &onGround)

		status := domain.StatusInAir
		if onGround {
			status = domain.StatusOnGround
		}

		updated := now
		var lastContact int64
		if err := json.Unmarshal(state[idxLastContact], &lastContact); err == nil && lastContact > 0 {
			updated = time.Unix(lastContact, 0).UTC()
		}

		statuses = append(statuses, domain.LiveStatus{
			FeedKey:     icao24,
			Callsign:    strings.TrimSpace(callsign),
			Status:      status,
			LastUpdated: updated,
		})
	}
	return statuses, nil
}
