package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kakunuriMahesh/doctor-appointments/internal/booking"
	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

// DB is the query surface shared by *pgxpool.Pool and pgx.Tx, so the same
// repo code runs pooled or inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store aggregates the repos into the booking.Store surface and adds
// transactions on top.
type Store struct {
	pool *pgxpool.Pool // nil when the store is bound to a transaction

	*AdminRepo
	*AvailabilityRepo
	*CouponRepo
	*AppointmentRepo
	*SettingsRepo
}

func NewStore(pool *pgxpool.Pool) *Store {
	return newStore(pool, pool)
}

func newStore(pool *pgxpool.Pool, db DB) *Store {
	return &Store{
		pool:             pool,
		AdminRepo:        NewAdminRepo(db),
		AvailabilityRepo: NewAvailabilityRepo(db),
		CouponRepo:       NewCouponRepo(db),
		AppointmentRepo:  NewAppointmentRepo(db),
		SettingsRepo:     NewSettingsRepo(db),
	}
}

// InTx runs fn against repos bound to a single transaction. Nested calls run
// in the caller's transaction.
func (s *Store) InTx(ctx context.Context, fn func(booking.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storeErr("begin tx", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newStore(nil, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit tx", err)
	}
	return nil
}

var _ booking.Store = (*Store)(nil)

func storeErr(op string, err error) error {
	return &domain.StoreError{Op: op, Err: err}
}
