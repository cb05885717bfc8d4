package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdatePreferences(ctx context.Context, username, preferences string) error
	Delete(ctx context.Context, username string) error
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users (username, password_hash, preferences) VALUES ($1, $2, $3)`,
		user.Username, user.PasswordHash, user.Preferences)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: username %q is already taken", domain.ErrValidation, user.Username)
		}
		return err
	}
	return nil
}

func (r *PGUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT username, password_hash, preferences FROM users WHERE username=$1`, username)
	var u domain.User
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.Preferences); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) UpdatePreferences(ctx context.Context, username, preferences string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET preferences=$1 WHERE username=$2`, preferences, username)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
	}
	return nil
}

// Delete removes the user; bookings and coupons go with it via ON DELETE CASCADE.
func (r *PGUserRepository) Delete(ctx context.Context, username string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE username=$1`, username)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
	}
	return nil
}

var _ UserRepository = (*PGUserRepository)(nil)
