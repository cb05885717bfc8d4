// Package ledger owns booking records and everything derived from them:
// creation from a search-time snapshot, flag-based cancellation, the active
// view, coupons, and the savings figure.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/avershin/flightledger/internal/kafka"
	"github.com/avershin/flightledger/internal/repository"
	"github.com/google/uuid"
)

type LedgerUseCase interface {
	CreateBooking(ctx context.Context, username, flightID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id int64, username string) (*domain.Booking, error)
	ListActiveBookings(ctx context.Context, username string) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id int64, username string) (*domain.Booking, error)
	ComputeSavings(ctx context.Context, username string) (float64, error)
	AddCoupon(ctx context.Context, username, code string, discount float64) (*domain.Coupon, error)
	ListCoupons(ctx context.Context, username string) ([]domain.Coupon, error)
}

// WorkingSet is the user's cached search results, the only source a booking
// may be created from.
type WorkingSet interface {
	GetSearchResults(ctx context.Context, username string) ([]domain.FlightSnapshot, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type LedgerService struct {
	bookings           repository.BookingRepository
	coupons            repository.CouponRepository
	workingSet         WorkingSet
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	referencePrice     float64
	log                *slog.Logger
}

type LedgerServiceOption func(*LedgerService)

func WithNotificationsTopic(topic string) LedgerServiceOption {
	return func(s *LedgerService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(log *slog.Logger) LedgerServiceOption {
	return func(s *LedgerService) {
		s.log = log
	}
}

func NewLedgerService(
	bookings repository.BookingRepository,
	coupons repository.CouponRepository,
	workingSet WorkingSet,
	producer Producer,
	bookingTopic string,
	referencePrice float64,
	opts ...LedgerServiceOption,
) *LedgerService {
	service := &LedgerService{
		bookings:       bookings,
		coupons:        coupons,
		workingSet:     workingSet,
		producer:       producer,
		bookingTopic:   bookingTopic,
		referencePrice: referencePrice,
		log:            slog.Default(),
	}
	if service.referencePrice <= 0 {
		service.referencePrice = 500
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking turns one snapshot from the user's working set into a
// persisted booking. The working set expires with the search session, so a
// missing snapshot is a not-found condition, not a validation one.
func (s *LedgerService) CreateBooking(ctx context.Context, username, flightID string) (*domain.Booking, error) {
	if flightID == "" {
		return nil, fmt.Errorf("%w: flight id is required", domain.ErrValidation)
	}

	snapshots, err := s.workingSet.GetSearchResults(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load search results: %w", err)
	}

	var snapshot *domain.FlightSnapshot
	for i := range snapshots {
		if snapshots[i].FlightID == flightID {
			snapshot = &snapshots[i]
			break
		}
	}
	if snapshot == nil {
		return nil, fmt.Errorf("%w: flight %s is not in your recent search results", domain.ErrNotFound, flightID)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		Reference:     uuid.NewString(),
		Username:      username,
		FlightID:      snapshot.FlightID,
		Price:         snapshot.Price,
		Origin:        snapshot.Origin,
		Destination:   snapshot.Destination,
		DepartureTime: snapshot.DepartureTime,
		ArrivalTime:   snapshot.ArrivalTime,
		Airline:       snapshot.Airline,
		FlightNumber:  snapshot.FlightNumber,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := s.publish(ctx, "booking_created", booking); err != nil {
		s.log.WarnContext(ctx, "failed to publish booking_created event", "reference", booking.Reference, "error", err)
	}
	return booking, nil
}

// CancelBooking marks the booking cancelled. Cancelling twice is an
// idempotent success; the second call returns the row unchanged.
func (s *LedgerService) CancelBooking(ctx context.Context, id int64, username string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Username != username {
		return nil, fmt.Errorf("%w: booking %d belongs to another user", domain.ErrUnauthorized, id)
	}
	if current.Cancelled {
		return current, nil
	}

	updated, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.publish(ctx, "booking_cancelled", updated); err != nil {
		s.log.WarnContext(ctx, "failed to publish booking_cancelled event", "reference", updated.Reference, "error", err)
	}
	return updated, nil
}

func (s *LedgerService) ListActiveBookings(ctx context.Context, username string) ([]domain.Booking, error) {
	return s.bookings.ListActive(ctx, username)
}

// GetBooking returns the booking even when cancelled, but only to its owner.
func (s *LedgerService) GetBooking(ctx context.Context, id int64, username string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Username != username {
		return nil, fmt.Errorf("%w: booking %d belongs to another user", domain.ErrUnauthorized, id)
	}
	return booking, nil
}

// ComputeSavings compares active spend against the reference fare:
// reference*count - sum(price). Zero active bookings yield zero; bookings
// priced above the reference can push the figure negative and that is the
// intended reading, not an error.
func (s *LedgerService) ComputeSavings(ctx context.Context, username string) (float64, error) {
	count, total, err := s.bookings.ActiveStats(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("load booking stats: %w", err)
	}
	if count == 0 {
		return 0, nil
	}
	return s.referencePrice*float64(count) - total, nil
}

func (s *LedgerService) AddCoupon(ctx context.Context, username, code string, discount float64) (*domain.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: coupon code is required", domain.ErrValidation)
	}
	if discount <= 0 {
		return nil, fmt.Errorf("%w: discount must be positive", domain.ErrValidation)
	}

	coupon := &domain.Coupon{Username: username, Code: code, Discount: discount}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return coupon, nil
}

func (s *LedgerService) ListCoupons(ctx context.Context, username string) ([]domain.Coupon, error) {
	return s.coupons.ListByUser(ctx, username)
}

func (s *LedgerService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		Username:     booking.Username,
		FlightNumber: booking.FlightNumber,
		Origin:       booking.Origin,
		Destination:  booking.Destination,
		Price:        booking.Price,
		Cancelled:    booking.Cancelled,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event)
	}
	return nil
}

var _ LedgerUseCase = (*LedgerService)(nil)
