package repository

import (
	"context"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	ListByUser(ctx context.Context, username string) ([]domain.Coupon, error)
	UsageByCode(ctx context.Context, username string) ([]domain.CouponUsage, error)
}

type PGCouponRepository struct {
	db *pgxpool.Pool
}

func NewCouponRepository(db *pgxpool.Pool) CouponRepository {
	return &PGCouponRepository{db: db}
}

func (r *PGCouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	return r.db.QueryRow(ctx, `INSERT INTO coupons (username, code, discount) VALUES ($1, $2, $3) RETURNING id`,
		coupon.Username, coupon.Code, coupon.Discount).Scan(&coupon.ID)
}

func (r *PGCouponRepository) ListByUser(ctx context.Context, username string) ([]domain.Coupon, error) {
	rows, err := r.db.Query(ctx, `SELECT id, username, code, discount FROM coupons WHERE username=$1 ORDER BY id`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coupons := make([]domain.Coupon, 0)
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.ID, &c.Username, &c.Code, &c.Discount); err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *PGCouponRepository) UsageByCode(ctx context.Context, username string) ([]domain.CouponUsage, error) {
	rows, err := r.db.Query(ctx, `SELECT code, COUNT(*) FROM coupons WHERE username=$1 GROUP BY code ORDER BY code`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := make([]domain.CouponUsage, 0)
	for rows.Next() {
		var u domain.CouponUsage
		if err := rows.Scan(&u.Code, &u.Count); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

var _ CouponRepository = (*PGCouponRepository)(nil)
