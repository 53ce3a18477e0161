package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactdeck/contactdeck/internal/domain"
)

// PostgresSEORepository implements SEORepository using PostgreSQL.
type PostgresSEORepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSEORepository creates a new PostgresSEORepository.
func NewPostgresSEORepository(pool *pgxpool.Pool) *PostgresSEORepository {
	return &PostgresSEORepository{pool: pool}
}

const seoColumns = `id, page_key, title,
	COALESCE(description, '') as description,
	keywords,
	COALESCE(canonical_url, '') as canonical_url,
	COALESCE(og_title, '') as og_title,
	COALESCE(og_description, '') as og_description,
	COALESCE(og_image_url, '') as og_image_url,
	COALESCE(robots_directive, '') as robots_directive,
	created_at, updated_at`

// GetByPageKey retrieves the profile for a page. Returns (nil, nil) when
// the page has no profile yet.
func (r *PostgresSEORepository) GetByPageKey(ctx context.Context, pageKey string) (*domain.SEOProfile, error) {
	query := `SELECT ` + seoColumns + ` FROM seo_profiles WHERE page_key = $1`
	return r.scanProfile(r.pool.QueryRow(ctx, query, pageKey))
}

// Upsert creates or replaces the profile for its page key.
func (r *PostgresSEORepository) Upsert(ctx context.Context, profile *domain.SEOProfile) error {
	query := `
		INSERT INTO seo_profiles (
			id, page_key, title, description, keywords, canonical_url,
			og_title, og_description, og_image_url, robots_directive,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (page_key) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			keywords = EXCLUDED.keywords,
			canonical_url = EXCLUDED.canonical_url,
			og_title = EXCLUDED.og_title,
			og_description = EXCLUDED.og_description,
			og_image_url = EXCLUDED.og_image_url,
			robots_directive = EXCLUDED.robots_directive,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.PageKey,
		profile.Title,
		profile.Description,
		profile.Keywords,
		profile.CanonicalURL,
		profile.OGTitle,
		profile.OGDescription,
		profile.OGImageURL,
		profile.RobotsDirective,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

// List returns all profiles ordered by page key.
func (r *PostgresSEORepository) List(ctx context.Context) ([]*domain.SEOProfile, error) {
	query := `SELECT ` + seoColumns + ` FROM seo_profiles ORDER BY page_key`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.SEOProfile
	for rows.Next() {
		profile, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (r *PostgresSEORepository) scanProfile(row pgx.Row) (*domain.SEOProfile, error) {
	profile := &domain.SEOProfile{}
	err := row.Scan(
		&profile.ID,
		&profile.PageKey,
		&profile.Title,
		&profile.Description,
		&profile.Keywords,
		&profile.CanonicalURL,
		&profile.OGTitle,
		&profile.OGDescription,
		&profile.OGImageURL,
		&profile.RobotsDirective,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if profile.Keywords == nil {
		profile.Keywords = []string{}
	}
	return profile, nil
}
