package domain

import "time"

// LiveStatus is one entry of the live-position feed. FeedKey is the feed's
// aircraft identifier (icao24), which is a different key space than the
// booking's commercial flight number; the two are only ever joined by a
// best-effort callsign match.
type LiveStatus struct {
	FeedKey     string    `json:"feed_key"`
	Callsign    string    `json:"callsign"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}

const (
	StatusOnGround = "On Ground"
	StatusInAir    = "In Air"
)

// TrackedBooking pairs a booking with its live-feed entry. Live is nil when
// no feed entry matched; that is the normal case, not an error.
type TrackedBooking struct {
	Booking Booking
	Live    *LiveStatus
}
