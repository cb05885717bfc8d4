// Package auth handles registration, login, JWT session tokens, and the
// profile page data. Credentials only ever exist as bcrypt hashes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/avershin/flightledger/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 4
	minPasswordLen = 6
)

type AuthUseCase interface {
	Register(ctx context.Context, username, password, confirm string) error
	Login(ctx context.Context, username, password string) (string, error)
	VerifyToken(token string) (string, error)
	Profile(ctx context.Context, username string) (*domain.User, *domain.ProfileStats, error)
	UpdatePreferences(ctx context.Context, username, preferences string) error
	DeleteAccount(ctx context.Context, username string) error
}

type AuthService struct {
	users      repository.UserRepository
	bookings   repository.BookingRepository
	coupons    repository.CouponRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

func NewAuthService(
	users repository.UserRepository,
	bookings repository.BookingRepository,
	coupons repository.CouponRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	bcryptCost int,
) *AuthService {
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		bookings:   bookings,
		coupons:    coupons,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password, confirm string) error {
	username = strings.TrimSpace(username)
	switch {
	case len(username) < minUsernameLen:
		return fmt.Errorf("%w: username must be at least %d characters", domain.ErrValidation, minUsernameLen)
	case len(password) < minPasswordLen:
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	case password != confirm:
		return fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, &domain.User{Username: username, PasswordHash: string(hash)})
}

// Login returns a signed session token. Unknown user and wrong password are
// deliberately the same error so the endpoint cannot be used to probe for
// usernames.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *AuthService) VerifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: invalid session token", domain.ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("%w: invalid session token", domain.ErrUnauthorized)
	}
	return claims.Subject, nil
}

func (s *AuthService) Profile(ctx context.Context, username string) (*domain.User, *domain.ProfileStats, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	bookingCounts, err := s.bookings.CountByFlight(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("load booking counts: %w", err)
	}
	couponUsage, err := s.coupons.UsageByCode(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("load coupon usage: %w", err)
	}

	return user, &domain.ProfileStats{Bookings: bookingCounts, Coupons: couponUsage}, nil
}

func (s *AuthService) UpdatePreferences(ctx context.Context, username, preferences string) error {
	return s.users.UpdatePreferences(ctx, username, strings.TrimSpace(preferences))
}

// DeleteAccount removes the user row; bookings and coupons follow through the
// foreign keys, audit rows included.
func (s *AuthService) DeleteAccount(ctx context.Context, username string) error {
	return s.users.Delete(ctx, username)
}

var _ AuthUseCase = (*AuthService)(nil)
