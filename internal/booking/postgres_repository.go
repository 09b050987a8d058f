package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/ward-portal/internal/schedule"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores bookings in the bookings table.
type PostgresRepository struct {
	pool pgQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q pgQuerier) *PostgresRepository {
	if q == nil {
		panic("booking: querier required")
	}
	return &PostgresRepository{pool: q}
}

const bookingColumns = `id, code, service, counter, booking_date, slot, citizen_name, national_id, phone, note, created_at`

func (r *PostgresRepository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if _, err := r.pool.Exec(ctx, query,
		b.ID,
		b.Code,
		string(b.Service),
		b.Counter,
		b.Date,
		b.Slot.String(),
		b.CitizenName,
		b.NationalID,
		b.Phone,
		b.Note,
		b.CreatedAt,
	); err != nil {
		return fmt.Errorf("booking: insert failed: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE upper(code) = $1 ORDER BY created_at DESC LIMIT 1`
	b, err := scanBooking(r.pool.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("booking: select failed: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) ListByNationalID(ctx context.Context, nationalID string) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE national_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, nationalID)
	if err != nil {
		return nil, fmt.Errorf("booking: list failed: %w", err)
	}
	defer rows.Close()

	out := make([]Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan failed: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: list failed: %w", err)
	}
	return out, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		b       Booking
		service string
		slot    string
		date    time.Time
	)
	if err := row.Scan(
		&b.ID,
		&b.Code,
		&service,
		&b.Counter,
		&date,
		&slot,
		&b.CitizenName,
		&b.NationalID,
		&b.Phone,
		&b.Note,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := schedule.ParseSlot(slot)
	if err != nil {
		return nil, err
	}
	b.Service = ServiceCategory(service)
	b.ServiceName = b.Service.Label()
	b.Slot = parsed
	b.Date = date
	b.DateLabel = DisplayDate(date)
	return &b, nil
}
