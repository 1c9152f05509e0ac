package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

type CouponRepo struct{ db DB }

func NewCouponRepo(db DB) *CouponRepo { return &CouponRepo{db: db} }

const couponCols = `id, code, discount_percentage, valid_until, is_used, created_at`

func (r *CouponRepo) CreateCoupon(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	const q = `INSERT INTO coupons (code, discount_percentage, valid_until)
  VALUES ($1,$2,$3)
  RETURNING ` + couponCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	out, err := scanCoupon(r.db.QueryRow(ctx, q, c.Code, c.DiscountPercentage, c.ValidUntil))
	if err != nil {
		return nil, storeErr("coupons.create", err)
	}
	return out, nil
}

// ConsumeCoupon marks an unused coupon used and returns it, or nil when no
// unused coupon carries the code. The conditional update is the whole
// concurrency story: two racing bookings get one winner.
func (r *CouponRepo) ConsumeCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	const q = `UPDATE coupons SET is_used=TRUE
  WHERE code=$1 AND is_used=FALSE
  RETURNING ` + couponCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCoupon(r.db.QueryRow(ctx, q, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("coupons.consume", err)
	}
	return c, nil
}

func (r *CouponRepo) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	const q = `SELECT ` + couponCols + ` FROM coupons ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, storeErr("coupons.list", err)
	}
	defer rows.Close()

	var out []domain.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, storeErr("coupons.list", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CouponRepo) DeleteCoupon(ctx context.Context, code string) (bool, error) {
	const q = `DELETE FROM coupons WHERE code=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.db.Exec(ctx, q, code)
	if err != nil {
		return false, storeErr("coupons.delete", err)
	}
	return ct.RowsAffected() > 0, nil
}

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountPercentage, &c.ValidUntil, &c.IsUsed, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
