// Package status joins bookings with the live-position feed. The feed keys
// aircraft by icao24 while bookings carry commercial flight numbers, so the
// join is a best-effort callsign match and an unmatched booking is normal.
package status

import (
	"context"
	"log/slog"
	"strings"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/avershin/flightledger/internal/repository"
)

type StatusUseCase interface {
	WithLive(ctx context.Context, username string) ([]domain.TrackedBooking, error)
	Refresh(ctx context.Context) (int, error)
}

type Feed interface {
	FetchSnapshot(ctx context.Context) ([]domain.LiveStatus, error)
}

type SnapshotCache interface {
	GetLiveSnapshot(ctx context.Context) ([]domain.LiveStatus, error)
	SetLiveSnapshot(ctx context.Context, statuses []domain.LiveStatus) error
}

type StatusService struct {
	bookings repository.BookingRepository
	statuses repository.LiveStatusRepository
	cache    SnapshotCache
	feed     Feed
	log      *slog.Logger
}

func NewStatusService(
	bookings repository.BookingRepository,
	statuses repository.LiveStatusRepository,
	cache SnapshotCache,
	feed Feed,
	log *slog.Logger,
) *StatusService {
	if log == nil {
		log = slog.Default()
	}
	return &StatusService{
		bookings: bookings,
		statuses: statuses,
		cache:    cache,
		feed:     feed,
		log:      log,
	}
}

// Attach pairs every booking with its first matching feed entry, or with nil
// when nothing matches. It never fails, never mutates its inputs, and an
// empty or nil feed simply yields all-unmatched pairs.
func Attach(bookings []domain.Booking, feed []domain.LiveStatus) []domain.TrackedBooking {
	tracked := make([]domain.TrackedBooking, 0, len(bookings))
	for _, b := range bookings {
		tracked = append(tracked, domain.TrackedBooking{Booking: b, Live: match(b, feed)})
	}
	return tracked
}

func match(b domain.Booking, feed []domain.LiveStatus) *domain.LiveStatus {
	number := strings.TrimSpace(b.FlightNumber)
	for i := range feed {
		entry := feed[i]
		callsign := strings.TrimSpace(entry.Callsign)
		if number != "" && callsign != "" {
			if callsign == number || strings.Contains(callsign, number) || strings.Contains(number, callsign) {
				return &entry
			}
		}
		if b.FlightID != "" && b.FlightID == entry.FeedKey {
			return &entry
		}
	}
	return nil
}

// WithLive lists the user's active bookings and attaches whatever live data
// is around. Feed trouble degrades to "no live data"; only the ledger read
// can fail this call.
func (s *StatusService) WithLive(ctx context.Context, username string) ([]domain.TrackedBooking, error) {
	bookings, err := s.bookings.ListActive(ctx, username)
	if err != nil {
		return nil, err
	}
	return Attach(bookings, s.snapshot(ctx)), nil
}

func (s *StatusService) snapshot(ctx context.Context) []domain.LiveStatus {
	if s.cache != nil {
		if cached, err := s.cache.GetLiveSnapshot(ctx); err == nil && cached != nil {
			return cached
		}
	}
	stored, err := s.statuses.Snapshot(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "live snapshot unavailable", "error", err)
		return nil
	}
	return stored
}

// Refresh pulls a fresh feed snapshot and replaces the stored one wholesale.
// Worker-only; the request path never calls this.
func (s *StatusService) Refresh(ctx context.Context) (int, error) {
	snapshot, err := s.feed.FetchSnapshot(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.statuses.ReplaceAll(ctx, snapshot); err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.SetLiveSnapshot(ctx, snapshot); err != nil {
			s.log.WarnContext(ctx, "failed to cache live snapshot", "error", err)
		}
	}
	return len(snapshot), nil
}

var _ StatusUseCase = (*StatusService)(nil)
