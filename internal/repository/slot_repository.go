package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/parking-service/internal/domain"
)

// SlotRepository encapsulates parking slot persistence.
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.ParkingSlot) error
	Update(ctx context.Context, slot *domain.ParkingSlot) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.ParkingSlot, error)
	List(ctx context.Context) ([]domain.ParkingSlot, error)
	// TransitionStatusTx flips the slot status only when the current
	// status matches from. It reports false when the guard did not
	// match, which callers must treat as a booking conflict.
	TransitionStatusTx(ctx context.Context, tx pgx.Tx, id string, from, to domain.SlotStatus) (bool, error)
	SetStatusTx(ctx context.Context, tx pgx.Tx, id string, to domain.SlotStatus) error
}

type slotRepository struct {
	pool *pgxpool.Pool
}

// NewSlotRepository instantiates repository.
func NewSlotRepository(pool *pgxpool.Pool) SlotRepository {
	return &slotRepository{pool: pool}
}

func (r *slotRepository) Create(ctx context.Context, slot *domain.ParkingSlot) error {
	const query = `
        INSERT INTO parking_slots (slot_number, location, slot_type, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		slot.SlotNumber,
		slot.Location,
		slot.SlotType,
		slot.Status,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
}

func (r *slotRepository) Update(ctx context.Context, slot *domain.ParkingSlot) error {
	const query = `
        UPDATE parking_slots SET slot_number=$1, location=$2, slot_type=$3, status=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		slot.SlotNumber,
		slot.Location,
		slot.SlotType,
		slot.Status,
		slot.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slotRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM parking_slots WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slotRepository) GetByID(ctx context.Context, id string) (*domain.ParkingSlot, error) {
	const query = `
        SELECT id, slot_number, location, slot_type, status, created_at, updated_at
        FROM parking_slots WHERE id=$1`
	var slot domain.ParkingSlot
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.SlotNumber,
		&slot.Location,
		&slot.SlotType,
		&slot.Status,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) List(ctx context.Context) ([]domain.ParkingSlot, error) {
	const query = `
        SELECT id, slot_number, location, slot_type, status, created_at, updated_at
        FROM parking_slots ORDER BY slot_number`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ParkingSlot
	for rows.Next() {
		var slot domain.ParkingSlot
		if err := rows.Scan(
			&slot.ID,
			&slot.SlotNumber,
			&slot.Location,
			&slot.SlotType,
			&slot.Status,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, slot)
	}
	return result, rows.Err()
}

func (r *slotRepository) TransitionStatusTx(ctx context.Context, tx pgx.Tx, id string, from, to domain.SlotStatus) (bool, error) {
	const query = `
        UPDATE parking_slots SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`
	cmd, err := tx.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *slotRepository) SetStatusTx(ctx context.Context, tx pgx.Tx, id string, to domain.SlotStatus) error {
	const query = `
        UPDATE parking_slots SET status=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := tx.Exec(ctx, query, to, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
