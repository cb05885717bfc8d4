// Package flights fronts the external search provider and the AI
// recommendation flow. Search results are parked in the user's working set so
// the ledger can book from them later.
package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/avershin/flightledger/internal/repository"
)

type FlightUseCase interface {
	Search(ctx context.Context, username, origin, destination, date string) ([]domain.FlightSnapshot, error)
	Recommendations(ctx context.Context, username string) []domain.Recommendation
}

type SearchProvider interface {
	Search(ctx context.Context, origin, destination, date string) ([]domain.FlightSnapshot, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type WorkingSet interface {
	SetSearchResults(ctx context.Context, username string, flights []domain.FlightSnapshot) error
}

type FlightService struct {
	provider   SearchProvider
	completer  Completer
	workingSet WorkingSet
	bookings   repository.BookingRepository
	users      repository.UserRepository
	log        *slog.Logger
}

func NewFlightService(
	provider SearchProvider,
	completer Completer,
	workingSet WorkingSet,
	bookings repository.BookingRepository,
	users repository.UserRepository,
	log *slog.Logger,
) *FlightService {
	if log == nil {
		log = slog.Default()
	}
	return &FlightService{
		provider:   provider,
		completer:  completer,
		workingSet: workingSet,
		bookings:   bookings,
		users:      users,
		log:        log,
	}
}

func (s *FlightService) Search(ctx context.Context, username, origin, destination, date string) ([]domain.FlightSnapshot, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))
	if len(origin) != 3 || len(destination) != 3 {
		return nil, fmt.Errorf("%w: origin and destination must be 3-letter IATA codes", domain.ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: departure date must be YYYY-MM-DD", domain.ErrValidation)
	}

	flights, err := s.provider.Search(ctx, origin, destination, date)
	if err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}

	// A failed working-set write only breaks a later booking attempt, and
	// that attempt reports its own not-found; the search itself still stands.
	if err := s.workingSet.SetSearchResults(ctx, username, flights); err != nil {
		s.log.WarnContext(ctx, "failed to cache search results", "user", username, "error", err)
	}
	return flights, nil
}

// Recommendations is advisory end to end: any failure — missing user, dead
// provider, malformed response — collapses to an empty list.
func (s *FlightService) Recommendations(ctx context.Context, username string) []domain.Recommendation {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.log.WarnContext(ctx, "recommendations: load user failed", "user", username, "error", err)
		return nil
	}
	bookings, err := s.bookings.ListActive(ctx, username)
	if err != nil {
		s.log.WarnContext(ctx, "recommendations: load bookings failed", "user", username, "error", err)
		return nil
	}

	text, err := s.completer.Complete(ctx, buildPrompt(bookings, user.Preferences))
	if err != nil {
		s.log.WarnContext(ctx, "recommendations: completion failed", "user", username, "error", err)
		return nil
	}

	recs, err := s.parseRecommendations(ctx, text)
	if err != nil {
		s.log.WarnContext(ctx, "recommendations: parse failed", "user", username, "error", err)
		return nil
	}
	return recs
}

func buildPrompt(bookings []domain.Booking, preferences string) string {
	booked := "No booked flights."
	if len(bookings) > 0 {
		lines := make([]string, 0, len(bookings))
		for _, b := range bookings {
			lines = append(lines, fmt.Sprintf("Flight %s %s from %s to %s on %s",
				b.Airline, b.FlightNumber, b.Origin, b.Destination, b.DepartureTime))
		}
		booked = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`Based on the user's booked flights and preferences, recommend some flights for them.

User's Booked Flights:
%s

User's Preferences:
%s

Please provide a list of 3 recommended flights in the following JSON format:

[
    {
        "Flight ID": "FL123",
        "Airline": "Airline Name",
        "Flight Number": "Flight Number",
        "Origin": "Origin Airport (IATA Code)",
        "Destination": "Destination Airport (IATA Code)",
        "Departure Time": "mm/dd/yyyy HH:MM AM/PM",
        "Arrival Time": "mm/dd/yyyy HH:MM AM/PM",
        "Price": "$XXX"
    },
    ...
]
`, booked, preferences)
}

var requiredKeys = []string{"Flight ID", "Airline", "Flight Number", "Origin", "Destination", "Departure Time", "Arrival Time", "Price"}

// parseRecommendations extracts the bracketed JSON array from whatever prose
// surrounds it and keeps only complete entries.
func (s *FlightService) parseRecommendations(ctx context.Context, text string) ([]domain.Recommendation, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("response contains no JSON array")
	}

	var entries []map[string]string
	if err := json.Unmarshal([]byte(text[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}

	recs := make([]domain.Recommendation, 0, len(entries))
	for _, entry := range entries {
		complete := true
		for _, key := range requiredKeys {
			if entry[key] == "" {
				complete = false
				break
			}
		}
		if !complete {
			s.log.WarnContext(ctx, "discarding incomplete recommendation entry", "entry", entry)
			continue
		}
		recs = append(recs, domain.Recommendation{
			FlightID:      entry["Flight ID"],
			Airline:       entry["Airline"],
			FlightNumber:  entry["Flight Number"],
			Origin:        entry["Origin"],
			Destination:   entry["Destination"],
			DepartureTime: entry["Departure Time"],
			ArrivalTime:   entry["Arrival Time"],
			Price:         entry["Price"],
		})
	}
	return recs, nil
}

var _ FlightUseCase = (*FlightService)(nil)
