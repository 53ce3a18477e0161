package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactdeck/contactdeck/internal/domain"
)

// PostgresVideoRepository implements VideoRepository using PostgreSQL.
type PostgresVideoRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVideoRepository creates a new PostgresVideoRepository.
func NewPostgresVideoRepository(pool *pgxpool.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

const videoColumns = `id, title, slug,
	COALESCE(description, '') as description,
	url,
	COALESCE(thumbnail_url, '') as thumbnail_url,
	duration_sec, status, created_at, updated_at, deleted_at`

// Create inserts a new video.
func (r *PostgresVideoRepository) Create(ctx context.Context, video *domain.Video) error {
	query := `
		INSERT INTO videos (id, title, slug, description, url, thumbnail_url, duration_sec, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		video.ID,
		video.Title,
		video.Slug,
		video.Description,
		video.URL,
		video.ThumbnailURL,
		video.DurationSec,
		video.Status,
		video.CreatedAt,
		video.UpdatedAt,
	)
	return err
}

// GetByID retrieves a video by ID with its tags. Returns (nil, nil) when
// not found.
func (r *PostgresVideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM videos WHERE id = $1 AND deleted_at IS NULL`, videoColumns)
	video, err := r.scanVideo(r.pool.QueryRow(ctx, query, id))
	if err != nil || video == nil {
		return video, err
	}
	if video.Tags, err = r.loadTags(ctx, id); err != nil {
		return nil, err
	}
	return video, nil
}

// GetBySlug retrieves a video by slug. Returns (nil, nil) when not found.
func (r *PostgresVideoRepository) GetBySlug(ctx context.Context, slug string) (*domain.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM videos WHERE slug = $1 AND deleted_at IS NULL`, videoColumns)
	return r.scanVideo(r.pool.QueryRow(ctx, query, slug))
}

// List returns videos matching the search term over title.
func (r *PostgresVideoRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Video, int64, error) {
	where := `deleted_at IS NULL`
	args := []interface{}{}
	if search != "" {
		where += ` AND title ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM videos WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM videos WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		videoColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var videos []*domain.Video
	for rows.Next() {
		video, err := r.scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		videos = append(videos, video)
	}
	return videos, total, rows.Err()
}

// Update rewrites a video row.
func (r *PostgresVideoRepository) Update(ctx context.Context, video *domain.Video) error {
	query := `
		UPDATE videos
		SET title = $2, description = $3, url = $4, thumbnail_url = $5,
			duration_sec = $6, status = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`
	video.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.URL,
		video.ThumbnailURL,
		video.DurationSec,
		video.Status,
		video.UpdatedAt,
	)
	return err
}

// Delete soft-deletes a video.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE videos SET deleted_at = $2 WHERE id = $1`, id, time.Now())
	return err
}

func (r *PostgresVideoRepository) loadTags(ctx context.Context, videoID string) ([]domain.Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug, COALESCE(t.color, ''), t.created_at, t.updated_at
		FROM tags t
		JOIN video_tags vt ON vt.tag_id = t.id
		WHERE vt.video_id = $1
		ORDER BY t.name
	`
	rows, err := r.pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresVideoRepository) scanVideo(row pgx.Row) (*domain.Video, error) {
	video := &domain.Video{}
	err := row.Scan(
		&video.ID,
		&video.Title,
		&video.Slug,
		&video.Description,
		&video.URL,
		&video.ThumbnailURL,
		&video.DurationSec,
		&video.Status,
		&video.CreatedAt,
		&video.UpdatedAt,
		&video.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return video, nil
}
