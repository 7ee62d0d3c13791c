package repository

import (
	"context"
	"fmt"

	"enjez/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var serviceColumns = []string{
	"id", "category_id", "name", "description", "price", "duration_value", "duration_unit", "image_url", "created_at", "updated_at",
}

type ServiceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewServiceRepository(db *pgxpool.Pool, logger *zap.Logger) *ServiceRepository {
	return &ServiceRepository{
		db:     db,
		logger: logger,
	}
}

func scanService(row pgx.Row) (*models.Service, error) {
	var s models.Service
	err := row.Scan(
		&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.Price, &s.DurationValue, &s.DurationUnit, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *models.Service) error {
	query := squirrel.Insert("services").
		Columns(serviceColumns...).
		Values(s.ID, s.CategoryID, s.Name, s.Description, s.Price, s.DurationValue, s.DurationUnit, s.ImageURL, s.CreatedAt, s.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Upsert is used by the seed command so reseeding keeps ids stable.
func (r *ServiceRepository) Upsert(ctx context.Context, s *models.Service) error {
	query := squirrel.Insert("services").
		Columns(serviceColumns...).
		Values(s.ID, s.CategoryID, s.Name, s.Description, s.Price, s.DurationValue, s.DurationUnit, s.ImageURL, s.CreatedAt, s.UpdatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET category_id = EXCLUDED.category_id, name = EXCLUDED.name, " +
			"description = EXCLUDED.description, price = EXCLUDED.price, duration_value = EXCLUDED.duration_value, " +
			"duration_unit = EXCLUDED.duration_unit, image_url = EXCLUDED.image_url, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ServiceRepository) Update(ctx context.Context, s *models.Service) error {
	query := squirrel.Update("services").
		Set("category_id", s.CategoryID).
		Set("name", s.Name).
		Set("description", s.Description).
		Set("price", s.Price).
		Set("duration_value", s.DurationValue).
		Set("duration_unit", s.DurationUnit).
		Set("image_url", s.ImageURL).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
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

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*models.Service, error) {
	sql, args, err := squirrel.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanService(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateNoRows(err)
	}
	return s, nil
}

func (r *ServiceRepository) ListServices(ctx context.Context) ([]*models.Service, error) {
	return r.list(ctx, squirrel.Select(serviceColumns...).From("services").OrderBy("created_at ASC"))
}

func (r *ServiceRepository) ListByCategory(ctx context.Context, categoryID string) ([]*models.Service, error) {
	return r.list(ctx, squirrel.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"category_id": categoryID}).
		OrderBy("created_at ASC"))
}

func (r *ServiceRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Service, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}

	return services, rows.Err()
}
