package domain

import (
	"fmt"
	"time"
)

// Booking is a confirmed purchase of one flight snapshot. Cancellation flips
// the Cancelled flag and nothing else; rows are never deleted, so cancelled
// bookings stay available for audit.
type Booking struct {
	ID            int64
	Reference     string
	Username      string
	FlightID      string
	Price         float64
	Origin        string
	Destination   string
	DepartureTime string
	ArrivalTime   string
	Airline       string
	FlightNumber  string
	Cancelled     bool
	CreatedAt     time.Time
}

// FlightSnapshot is an immutable capture of a search result at the moment of
// booking. Departure and arrival times are kept as the provider's ISO strings.
type FlightSnapshot struct {
	FlightID      string  `json:"flight_id"`
	Price         float64 `json:"price"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flight_number"`
}

func (s FlightSnapshot) Validate() error {
	switch {
	case s.FlightID == "":
		return fmt.Errorf("%w: flight id is required", ErrValidation)
	case s.Origin == "" || s.Destination == "":
		return fmt.Errorf("%w: origin and destination are required", ErrValidation)
	case s.DepartureTime == "" || s.ArrivalTime == "":
		return fmt.Errorf("%w: departure and arrival times are required", ErrValidation)
	case s.Airline == "" || s.FlightNumber == "":
		return fmt.Errorf("%w: airline and flight number are required", ErrValidation)
	case s.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	return nil
}
