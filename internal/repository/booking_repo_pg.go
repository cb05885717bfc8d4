package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListActive(ctx context.Context, username string) ([]domain.Booking, error)
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	ActiveStats(ctx context.Context, username string) (count int64, total float64, err error)
	CountByFlight(ctx context.Context, username string) ([]domain.FlightCount, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, username, flight_id, price, origin, destination, departure_time, arrival_time, airline, flight_number, cancelled, created_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.Username, &b.FlightID, &b.Price, &b.Origin, &b.Destination,
		&b.DepartureTime, &b.ArrivalTime, &b.Airline, &b.FlightNumber, &b.Cancelled, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.QueryRow(ctx, `INSERT INTO bookings (reference, username, flight_id, price, origin, destination, departure_time, arrival_time, airline, flight_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, cancelled, created_at`,
		booking.Reference, booking.Username, booking.FlightID, booking.Price, booking.Origin, booking.Destination,
		booking.DepartureTime, booking.ArrivalTime, booking.Airline, booking.FlightNumber).
		Scan(&booking.ID, &booking.Cancelled, &booking.CreatedAt)
}

// GetByID returns the booking regardless of its cancelled flag; the audit
// view depends on cancelled rows staying reachable here.
func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListActive(ctx context.Context, username string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE username=$1 AND NOT cancelled ORDER BY id`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Cancel flips the flag in a single statement; re-cancelling an already
// cancelled row is a no-op at this level and returns the row as-is.
func (r *PGBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET cancelled=TRUE WHERE id=$1 RETURNING `+bookingColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ActiveStats(ctx context.Context, username string) (int64, float64, error) {
	var count int64
	var total float64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(price), 0) FROM bookings WHERE username=$1 AND NOT cancelled`, username).
		Scan(&count, &total)
	if err != nil {
		return 0, 0, err
	}
	return count, total, nil
}

func (r *PGBookingRepository) CountByFlight(ctx context.Context, username string) ([]domain.FlightCount, error) {
	rows, err := r.db.Query(ctx, `SELECT flight_id, COUNT(*) FROM bookings WHERE username=$1 GROUP BY flight_id ORDER BY flight_id`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.FlightCount, 0)
	for rows.Next() {
		var c domain.FlightCount
		if err := rows.Scan(&c.FlightID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
