package email

import (
	"context"
	"log/slog"

	"github.com/avershin/flightledger/internal/kafka"
)

// Sender delivers booking notifications. Delivery is a log line for now; the
// worker owns the wiring so a real SMTP sender can drop in behind the same
// method.
type Sender struct {
	log *slog.Logger
}

func NewSender(log *slog.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.InfoContext(ctx, "sending booking notification",
		"user", event.Username,
		"event", event.Type,
		"flight", event.FlightNumber,
		"booking_id", event.BookingID,
	)
	return nil
}
