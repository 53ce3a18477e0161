package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactdeck/contactdeck/internal/domain"
)

// PostgresTagRepository implements TagRepository using PostgreSQL.
type PostgresTagRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTagRepository creates a new PostgresTagRepository.
func NewPostgresTagRepository(pool *pgxpool.Pool) *PostgresTagRepository {
	return &PostgresTagRepository{pool: pool}
}

// Create inserts a new tag.
func (r *PostgresTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	query := `
		INSERT INTO tags (id, name, slug, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, tag.ID, tag.Name, tag.Slug, tag.Color, tag.CreatedAt, tag.UpdatedAt)
	return err
}

// GetByID retrieves a tag by ID. Returns (nil, nil) when not found.
func (r *PostgresTagRepository) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	query := `SELECT id, name, slug, COALESCE(color, ''), created_at, updated_at FROM tags WHERE id = $1`
	return r.scanTag(r.pool.QueryRow(ctx, query, id))
}

// GetBySlug retrieves a tag by slug. Returns (nil, nil) when not found.
func (r *PostgresTagRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	query := `SELECT id, name, slug, COALESCE(color, ''), created_at, updated_at FROM tags WHERE slug = $1`
	return r.scanTag(r.pool.QueryRow(ctx, query, slug))
}

// List returns all tags ordered by name.
func (r *PostgresTagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	query := `SELECT id, name, slug, COALESCE(color, ''), created_at, updated_at FROM tags ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		tag, err := r.scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Update rewrites a tag row.
func (r *PostgresTagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	query := `UPDATE tags SET name = $2, slug = $3, color = $4, updated_at = $5 WHERE id = $1`
	tag.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query, tag.ID, tag.Name, tag.Slug, tag.Color, tag.UpdatedAt)
	return err
}

// Delete removes a tag and its attachments.
func (r *PostgresTagRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM person_tags WHERE tag_id = $1`,
		`DELETE FROM video_tags WHERE tag_id = $1`,
		`DELETE FROM tags WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresTagRepository) scanTag(row pgx.Row) (*domain.Tag, error) {
	tag := &domain.Tag{}
	err := row.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tag, nil
}
