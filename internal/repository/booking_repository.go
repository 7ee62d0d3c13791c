package repository

import (
	"context"
	"time"

	"enjez/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var bookingColumns = []string{
	"id", "reference_id", "user_id", "service_id", "service_name", "date", "time", "address", "notes", "status", "admin_seen", "created_at", "updated_at",
}

type BookingRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBookingRepository(db *pgxpool.Pool, logger *zap.Logger) *BookingRepository {
	return &BookingRepository{
		db:     db,
		logger: logger,
	}
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.ReferenceID, &b.UserID, &b.ServiceID, &b.ServiceName, &b.Date, &b.Time, &b.Address, &b.Notes, &b.Status, &b.AdminSeen, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	query := squirrel.Insert("bookings").
		Columns(bookingColumns...).
		Values(b.ID, b.ReferenceID, b.UserID, b.ServiceID, b.ServiceName, b.Date, b.Time, b.Address, b.Notes, b.Status, b.AdminSeen, b.CreatedAt, b.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	sql, args, err := squirrel.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	b, err := scanBooking(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateNoRows(err)
	}
	return b, nil
}

// ListByUserID returns the user's bookings, newest first, optionally filtered by status.
func (r *BookingRepository) ListByUserID(ctx context.Context, userID uuid.UUID, status *models.BookingStatus) ([]*models.Booking, error) {
	query := squirrel.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if status != nil {
		query = query.Where(squirrel.Eq{"status": *status})
	}

	return r.list(ctx, query)
}

func (r *BookingRepository) ListUnseen(ctx context.Context) ([]*models.Booking, error) {
	return r.list(ctx, squirrel.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"admin_seen": false}).
		OrderBy("created_at ASC"))
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error {
	return r.update(ctx, id, squirrel.Update("bookings").Set("status", status))
}

func (r *BookingRepository) MarkSeen(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, id, squirrel.Update("bookings").Set("admin_seen", true))
}

func (r *BookingRepository) update(ctx context.Context, id uuid.UUID, query squirrel.UpdateBuilder) error {
	sql, args, err := query.
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Booking, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
