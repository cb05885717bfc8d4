package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avershin/flightledger/config"
	"github.com/avershin/flightledger/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps two things: each user's latest search results (the
// working set a booking is created from) and the most recent live-feed
// snapshot so the request path never talks to the feed directly.
type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
	liveTTL   time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL, liveTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
		liveTTL:   liveTTL,
	}
}

func (c *RedisCache) GetSearchResults(ctx context.Context, username string) ([]domain.FlightSnapshot, error) {
	data, err := c.client.Get(ctx, searchKey(username)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.FlightSnapshot
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetSearchResults(ctx context.Context, username string, flights []domain.FlightSnapshot) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(username), payload, c.searchTTL).Err()
}

func (c *RedisCache) GetLiveSnapshot(ctx context.Context) ([]domain.LiveStatus, error) {
	data, err := c.client.Get(ctx, liveKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var statuses []domain.LiveStatus
	if err := json.Unmarshal(data, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (c *RedisCache) SetLiveSnapshot(ctx context.Context, statuses []domain.LiveStatus) error {
	payload, err := json.Marshal(statuses)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, liveKey(), payload, c.liveTTL).Err()
}

func searchKey(username string) string {
	return fmt.Sprintf("search:%s", username)
}

func liveKey() string {
	return "cache:live_flights"
}
