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

// PostgresGalleryRepository implements GalleryRepository using PostgreSQL.
type PostgresGalleryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGalleryRepository creates a new PostgresGalleryRepository.
func NewPostgresGalleryRepository(pool *pgxpool.Pool) *PostgresGalleryRepository {
	return &PostgresGalleryRepository{pool: pool}
}

const galleryColumns = `id, title, slug,
	COALESCE(description, '') as description,
	is_public, created_at, updated_at, deleted_at`

// Create inserts a gallery and its images in one transaction.
func (r *PostgresGalleryRepository) Create(ctx context.Context, gallery *domain.Gallery) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO galleries (id, title, slug, description, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.Exec(ctx, query,
		gallery.ID,
		gallery.Title,
		gallery.Slug,
		gallery.Description,
		gallery.IsPublic,
		gallery.CreatedAt,
		gallery.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertImages(ctx, tx, gallery.ID, gallery.Images); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetByID retrieves a gallery with its ordered images. Returns (nil, nil)
// when not found.
func (r *PostgresGalleryRepository) GetByID(ctx context.Context, id string) (*domain.Gallery, error) {
	query := fmt.Sprintf(`SELECT %s FROM galleries WHERE id = $1 AND deleted_at IS NULL`, galleryColumns)
	gallery, err := r.scanGallery(r.pool.QueryRow(ctx, query, id))
	if err != nil || gallery == nil {
		return gallery, err
	}
	if gallery.Images, err = r.loadImages(ctx, id); err != nil {
		return nil, err
	}
	return gallery, nil
}

// GetBySlug retrieves a gallery by slug. Returns (nil, nil) when not found.
func (r *PostgresGalleryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Gallery, error) {
	query := fmt.Sprintf(`SELECT %s FROM galleries WHERE slug = $1 AND deleted_at IS NULL`, galleryColumns)
	gallery, err := r.scanGallery(r.pool.QueryRow(ctx, query, slug))
	if err != nil || gallery == nil {
		return gallery, err
	}
	if gallery.Images, err = r.loadImages(ctx, gallery.ID); err != nil {
		return nil, err
	}
	return gallery, nil
}

// List returns galleries matching the search term over title.
func (r *PostgresGalleryRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Gallery, int64, error) {
	where := `deleted_at IS NULL`
	args := []interface{}{}
	if search != "" {
		where += ` AND title ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM galleries WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM galleries WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		galleryColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var galleries []*domain.Gallery
	for rows.Next() {
		gallery, err := r.scanGallery(rows)
		if err != nil {
			return nil, 0, err
		}
		galleries = append(galleries, gallery)
	}
	return galleries, total, rows.Err()
}

// Update rewrites the gallery row. Images are replaced via ReplaceImages.
func (r *PostgresGalleryRepository) Update(ctx context.Context, gallery *domain.Gallery) error {
	query := `
		UPDATE galleries
		SET title = $2, description = $3, is_public = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`
	gallery.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		gallery.ID,
		gallery.Title,
		gallery.Description,
		gallery.IsPublic,
		gallery.UpdatedAt,
	)
	return err
}

// ReplaceImages swaps the full image set in one transaction.
func (r *PostgresGalleryRepository) ReplaceImages(ctx context.Context, galleryID string, images []domain.GalleryImage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM gallery_images WHERE gallery_id = $1`, galleryID); err != nil {
		return err
	}
	if err := insertImages(ctx, tx, galleryID, images); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete soft-deletes a gallery.
func (r *PostgresGalleryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE galleries SET deleted_at = $2 WHERE id = $1`, id, time.Now())
	return err
}

func insertImages(ctx context.Context, tx pgx.Tx, galleryID string, images []domain.GalleryImage) error {
	query := `
		INSERT INTO gallery_images (id, gallery_id, url, caption, alt_text, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, img := range images {
		if _, err := tx.Exec(ctx, query, img.ID, galleryID, img.URL, img.Caption, img.AltText, img.Position); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresGalleryRepository) loadImages(ctx context.Context, galleryID string) ([]domain.GalleryImage, error) {
	query := `
		SELECT id, gallery_id, url, COALESCE(caption, ''), COALESCE(alt_text, ''), position
		FROM gallery_images
		WHERE gallery_id = $1
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query, galleryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GalleryImage
	for rows.Next() {
		var img domain.GalleryImage
		if err := rows.Scan(&img.ID, &img.GalleryID, &img.URL, &img.Caption, &img.AltText, &img.Position); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *PostgresGalleryRepository) scanGallery(row pgx.Row) (*domain.Gallery, error) {
	gallery := &domain.Gallery{}
	err := row.Scan(
		&gallery.ID,
		&gallery.Title,
		&gallery.Slug,
		&gallery.Description,
		&gallery.IsPublic,
		&gallery.CreatedAt,
		&gallery.UpdatedAt,
		&gallery.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return gallery, nil
}
