package postgres

import (
	"context"
	"time"

	"github.com/doorlist/doorlist/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GuestRepo interface {
	Create(ctx context.Context, eventID int64, req *domain.RegisterGuestRequest) (*domain.Guest, error)
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Guest, error)
	Update(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CheckIn(ctx context.Context, id int64) (*domain.Guest, error)
}

type guestRepo struct {
	pool *pgxpool.Pool
}

func NewGuestRepo(pool *pgxpool.Pool) GuestRepo {
	return &guestRepo{pool: pool}
}

const guestCols = `id, event_id, first_name, last_name, email, phone,
custom_fields, checked_in, checkin_time, created_at, updated_at`

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	var g domain.Guest
	err := row.Scan(
		&g.ID, &g.EventID, &g.FirstName, &g.LastName, &g.Email, &g.Phone,
		&g.CustomFields, &g.CheckInStatus, &g.CheckInTime, &g.CreatedAt, &g.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *guestRepo) Create(ctx context.Context, eventID int64, req *domain.RegisterGuestRequest) (*domain.Guest, error) {
	const q = `
		INSERT INTO guests (event_id, first_name, last_name, email, phone, custom_fields)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanGuest(r.pool.QueryRow(ctx, q,
		eventID, req.FirstName, req.LastName, req.Email, req.Phone, req.CustomFields,
	))
}

func (r *guestRepo) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanGuest(r.pool.QueryRow(ctx, q, id))
}

func (r *guestRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests WHERE event_id = $1 ORDER BY created_at`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guests []domain.Guest
	for rows.Next() {
		var g domain.Guest
		if err := rows.Scan(
			&g.ID, &g.EventID, &g.FirstName, &g.LastName, &g.Email, &g.Phone,
			&g.CustomFields, &g.CheckInStatus, &g.CheckInTime, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (r *guestRepo) Update(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
	const q = `
		UPDATE guests
		SET
			first_name    = COALESCE($2, first_name),
			last_name     = COALESCE($3, last_name),
			email         = COALESCE($4, email),
			phone         = COALESCE($5, phone),
			custom_fields = COALESCE($6, custom_fields),
			checked_in    = COALESCE($7, checked_in),
			updated_at    = now()
		WHERE id = $1
		RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var customFields any
	if patch.CustomFields != nil {
		customFields = patch.CustomFields
	}

	return scanGuest(r.pool.QueryRow(ctx, q,
		id, patch.FirstName, patch.LastName, patch.Email, patch.Phone,
		customFields, patch.CheckInStatus,
	))
}

func (r *guestRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM guests WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// CheckIn flips the guest to checked-in in a single statement so concurrent
// calls cannot interleave. The first transition's timestamp is kept on
// repeated calls.
func (r *guestRepo) CheckIn(ctx context.Context, id int64) (*domain.Guest, error) {
	const q = `
		UPDATE guests
		SET
			checked_in   = true,
			checkin_time = COALESCE(checkin_time, now()),
			updated_at   = now()
		WHERE id = $1
		RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanGuest(r.pool.QueryRow(ctx, q, id))
}
