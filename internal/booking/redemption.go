package booking

import (
	"context"
	"strings"
	"time"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

// Redeem prices a booking against at most one discount credential. Resolution
// order, first match wins:
//
//  1. an unused percentage coupon with this exact code (expiry is
//     deliberately not checked here — rebooking credits check their window,
//     coupons never have)
//  2. an unused rebooking credit with this code, issued to the same
//     email+phone, with validFrom <= now <= validUntil; the booking is free
//
// A code that matches neither fails with domain.ErrInvalidCode. No code means
// no credential is touched and the base price stands. The matched credential
// is consumed via the store's conditional update, so a concurrent double
// spend resolves to one winner and one ErrInvalidCode.
func Redeem(ctx context.Context, s Store, basePrice float64, code, email, phone string, now time.Time) (float64, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return basePrice, nil
	}

	coupon, err := s.ConsumeCoupon(ctx, code)
	if err != nil {
		return 0, err
	}
	if coupon != nil {
		return coupon.Discounted(basePrice), nil
	}

	ok, err := s.ConsumeRebookingCredit(ctx, code, email, phone, now)
	if err != nil {
		return 0, err
	}
	if ok {
		return 0, nil
	}
	return 0, domain.ErrInvalidCode
}
