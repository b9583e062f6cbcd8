package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/parking-service/internal/domain"
)

// BookingRepository encapsulates booking persistence. Bookings are never
// deleted; release marks them completed.
type BookingRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error
	// CompleteTx marks an active booking completed and stamps the
	// release time. It reports false when the booking was not active,
	// so a second release never touches the slot.
	CompleteTx(ctx context.Context, tx pgx.Tx, id string, releaseTime time.Time) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetActiveByUser(ctx context.Context, userID string) (*domain.Booking, error)
	HasActiveBySlot(ctx context.Context, slotID string) (bool, error)
	ListByUserWithDetails(ctx context.Context, userID string) ([]domain.BookingWithDetails, error)
	ListWithDetails(ctx context.Context) ([]domain.BookingWithDetails, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

func (r *bookingRepository) CreateTx(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (user_id, slot_id, booking_time, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, booking_time, created_at`
	return tx.QueryRow(ctx, query,
		booking.UserID,
		booking.SlotID,
		booking.BookingTime,
		booking.Status,
	).Scan(&booking.ID, &booking.BookingTime, &booking.CreatedAt)
}

func (r *bookingRepository) CompleteTx(ctx context.Context, tx pgx.Tx, id string, releaseTime time.Time) (bool, error) {
	const query = `
        UPDATE bookings SET status=$1, release_time=$2
        WHERE id=$3 AND status=$4`
	cmd, err := tx.Exec(ctx, query, domain.BookingStatusCompleted, releaseTime, id, domain.BookingStatusActive)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `
        SELECT id, user_id, slot_id, booking_time, release_time, status, created_at
        FROM bookings WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *bookingRepository) GetActiveByUser(ctx context.Context, userID string) (*domain.Booking, error) {
	const query = `
        SELECT id, user_id, slot_id, booking_time, release_time, status, created_at
        FROM bookings WHERE user_id=$1 AND status='active'
        ORDER BY booking_time DESC LIMIT 1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *bookingRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	var booking domain.Booking
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SlotID,
		&booking.BookingTime,
		&booking.ReleaseTime,
		&booking.Status,
		&booking.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) HasActiveBySlot(ctx context.Context, slotID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM bookings WHERE slot_id=$1 AND status='active')`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, slotID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

const bookingDetailsQuery = `
    SELECT b.id, b.user_id, b.slot_id, b.booking_time, b.release_time, b.status, b.created_at,
           s.id, s.slot_number, s.location, s.slot_type, s.status, s.created_at, s.updated_at,
           p.id, p.email, p.full_name, p.role, p.created_at, p.updated_at
    FROM bookings b
    JOIN parking_slots s ON s.id = b.slot_id
    JOIN profiles p ON p.id = b.user_id`

func (r *bookingRepository) ListByUserWithDetails(ctx context.Context, userID string) ([]domain.BookingWithDetails, error) {
	query := bookingDetailsQuery + ` WHERE b.user_id=$1 ORDER BY b.booking_time DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingDetails(rows)
}

func (r *bookingRepository) ListWithDetails(ctx context.Context) ([]domain.BookingWithDetails, error) {
	query := bookingDetailsQuery + ` ORDER BY b.booking_time DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingDetails(rows)
}

func scanBookingDetails(rows pgx.Rows) ([]domain.BookingWithDetails, error) {
	var result []domain.BookingWithDetails
	for rows.Next() {
		var d domain.BookingWithDetails
		if err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.SlotID,
			&d.BookingTime,
			&d.ReleaseTime,
			&d.Status,
			&d.CreatedAt,
			&d.Slot.ID,
			&d.Slot.SlotNumber,
			&d.Slot.Location,
			&d.Slot.SlotType,
			&d.Slot.Status,
			&d.Slot.CreatedAt,
			&d.Slot.UpdatedAt,
			&d.Profile.ID,
			&d.Profile.Email,
			&d.Profile.FullName,
			&d.Profile.Role,
			&d.Profile.CreatedAt,
			&d.Profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
