package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ritcompass/internal/knowledge"
	"ritcompass/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const categoriesTable = "knowledge_categories"

const createCategoriesTable = `CREATE TABLE IF NOT EXISTS knowledge_categories (
	key        TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	short_desc TEXT NOT NULL DEFAULT '',
	keywords   JSONB NOT NULL DEFAULT '[]',
	items      JSONB NOT NULL DEFAULT '[]',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var categoryColumns = []string{"key", "name", "short_desc", "keywords", "items"}

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

func (r *KnowledgeRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createCategoriesTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", categoriesTable, err)
	}
	return nil
}

// Replace stores records in the given order and removes categories that are
// no longer present, all in one transaction.
func (r *KnowledgeRepository) Replace(ctx context.Context, records []models.CategoryRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	keys := make([]string, 0, len(records))
	for i, rec := range records {
		sql, args, err := upsertQuery(rec, i)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to upsert category %q: %w", rec.Key, err)
		}
		keys = append(keys, rec.Key)
	}

	sql, args, err := pruneQuery(keys)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to prune categories: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit categories: %w", err)
	}

	r.logger.Info("Knowledge categories stored",
		zap.Int("upserted", len(records)),
		zap.Int64("removed", tag.RowsAffected()),
	)
	return nil
}

func (r *KnowledgeRepository) List(ctx context.Context) ([]models.CategoryRecord, error) {
	sql, args, err := squirrel.Select(categoryColumns...).
		From(categoriesTable).
		OrderBy("position ASC", "key ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var records []models.CategoryRecord
	for rows.Next() {
		rec, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return records, nil
}

// Get returns one stored category. A missing key maps to
// knowledge.ErrCategoryNotFound.
func (r *KnowledgeRepository) Get(ctx context.Context, key string) (models.CategoryRecord, error) {
	sql, args, err := getQuery(key)
	if err != nil {
		return models.CategoryRecord{}, err
	}
	return scanOne(r.db.QueryRow(ctx, sql, args...), key)
}

// LoadBase reads every stored category into an immutable knowledge base.
func (r *KnowledgeRepository) LoadBase(ctx context.Context) (*knowledge.Base, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no categories in %s, run seed first", categoriesTable)
	}
	return knowledge.New(records)
}

func upsertQuery(rec models.CategoryRecord, position int) (string, []interface{}, error) {
	keywords, err := json.Marshal(nonNil(rec.Keywords))
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode keywords of %q: %w", rec.Key, err)
	}
	items, err := json.Marshal(nonNil(rec.Items))
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode items of %q: %w", rec.Key, err)
	}

	return squirrel.Insert(categoriesTable).
		Columns("key", "position", "name", "short_desc", "keywords", "items").
		Values(rec.Key, position, rec.Name, rec.ShortDesc, keywords, items).
		Suffix(`ON CONFLICT (key) DO UPDATE SET
			position = EXCLUDED.position,
			name = EXCLUDED.name,
			short_desc = EXCLUDED.short_desc,
			keywords = EXCLUDED.keywords,
			items = EXCLUDED.items,
			updated_at = now()`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func pruneQuery(keep []string) (string, []interface{}, error) {
	query := squirrel.Delete(categoriesTable).PlaceholderFormat(squirrel.Dollar)
	if len(keep) > 0 {
		query = query.Where(squirrel.NotEq{"key": keep})
	}
	return query.ToSql()
}

func getQuery(key string) (string, []interface{}, error) {
	return squirrel.Select(categoryColumns...).
		From(categoriesTable).
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func scanOne(row pgx.Row, key string) (models.CategoryRecord, error) {
	rec, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.CategoryRecord{}, fmt.Errorf("%w: %q", knowledge.ErrCategoryNotFound, key)
	}
	return rec, err
}

func scanCategory(row pgx.Row) (models.CategoryRecord, error) {
	var (
		rec      models.CategoryRecord
		keywords []byte
		items    []byte
	)
	if err := row.Scan(&rec.Key, &rec.Name, &rec.ShortDesc, &keywords, &items); err != nil {
		return models.CategoryRecord{}, err
	}
	if err := json.Unmarshal(keywords, &rec.Keywords); err != nil {
		return models.CategoryRecord{}, fmt.Errorf("failed to decode keywords of %q: %w", rec.Key, err)
	}
	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return models.CategoryRecord{}, fmt.Errorf("failed to decode items of %q: %w", rec.Key, err)
	}
	return rec, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
