package repository

import (
	"context"
	"errors"
	"fmt"

	"enjez/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const knowledgeTable = "knowledge_base"

var knowledgeColumns = []string{"id", "text", "embedding", "metadata", "created_at"}

// KnowledgeRepository stores knowledge records in Postgres.
// Embeddings are kept as real[]; similarity is computed by the caller.
type KnowledgeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKnowledgeRepository(db *pgxpool.Pool, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

func upsertKnowledgeQuery(rec *models.KnowledgeRecord) squirrel.InsertBuilder {
	return squirrel.Insert(knowledgeTable).
		Columns(knowledgeColumns...).
		Values(rec.ID, rec.Text, pgtype.FlatArray[float32](rec.Embedding), rec.Metadata, rec.CreatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text, embedding = EXCLUDED.embedding, " +
			"metadata = EXCLUDED.metadata, created_at = EXCLUDED.created_at").
		PlaceholderFormat(squirrel.Dollar)
}

// Upsert inserts the record or overwrites the existing one with the same id.
func (r *KnowledgeRepository) Upsert(ctx context.Context, rec *models.KnowledgeRecord) error {
	sql, args, err := upsertKnowledgeQuery(rec).ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to upsert knowledge record %s: %w", rec.ID, err)
	}
	return nil
}

// Exists reports whether at least one record is stored. It reads a single row.
func (r *KnowledgeRepository) Exists(ctx context.Context) (bool, error) {
	sql, args, err := squirrel.Select("id").From(knowledgeTable).Limit(1).
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return false, err
	}

	var id string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to probe knowledge base: %w", err)
	}
	return true, nil
}

// ListAll returns every record. Unbounded: fine for a catalog of a few hundred services.
func (r *KnowledgeRepository) ListAll(ctx context.Context) ([]*models.KnowledgeRecord, error) {
	sql, args, err := squirrel.Select(knowledgeColumns...).From(knowledgeTable).
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge records: %w", err)
	}
	defer rows.Close()

	var records []*models.KnowledgeRecord
	for rows.Next() {
		var rec models.KnowledgeRecord
		var embedding pgtype.FlatArray[float32]
		if err := rows.Scan(&rec.ID, &rec.Text, &embedding, &rec.Metadata, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Embedding = []float32(embedding)
		records = append(records, &rec)
	}

	return records, rows.Err()
}

func (r *KnowledgeRepository) ListIDs(ctx context.Context) ([]string, error) {
	sql, args, err := squirrel.Select("id").From(knowledgeTable).
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *KnowledgeRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := squirrel.Delete(knowledgeTable).Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to delete knowledge record %s: %w", id, err)
	}
	return nil
}
