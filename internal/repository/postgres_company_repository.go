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

// PostgresCompanyRepository implements CompanyRepository using PostgreSQL.
type PostgresCompanyRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCompanyRepository creates a new PostgresCompanyRepository.
func NewPostgresCompanyRepository(pool *pgxpool.Pool) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{pool: pool}
}

const companyColumns = `id, name,
	COALESCE(email, '') as email,
	COALESCE(phone, '') as phone,
	COALESCE(website, '') as website,
	COALESCE(street, '') as street,
	COALESCE(city, '') as city,
	COALESCE(region, '') as region,
	COALESCE(postal_code, '') as postal_code,
	COALESCE(country, '') as country,
	COALESCE(notes, '') as notes,
	created_at, updated_at, deleted_at`

// Create inserts a new company.
func (r *PostgresCompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	query := `
		INSERT INTO companies (
			id, name, email, phone, website, street, city, region,
			postal_code, country, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		company.ID,
		company.Name,
		company.Email,
		company.Phone,
		company.Website,
		company.Address.Street,
		company.Address.City,
		company.Address.Region,
		company.Address.PostalCode,
		company.Address.Country,
		company.Notes,
		company.CreatedAt,
		company.UpdatedAt,
	)
	return err
}

// GetByID retrieves a company by ID. Returns (nil, nil) when not found or
// soft-deleted.
func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM companies WHERE id = $1 AND deleted_at IS NULL`, companyColumns)
	return r.scanCompany(r.pool.QueryRow(ctx, query, id))
}

// List returns companies matching the search term (case-insensitive
// substring over name and email), newest first.
func (r *PostgresCompanyRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Company, int64, error) {
	where := `deleted_at IS NULL`
	args := []interface{}{}
	if search != "" {
		where += ` AND (name ILIKE $1 OR email ILIKE $1)`
		args = append(args, "%"+search+"%")
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM companies WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM companies WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		companyColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		company, err := r.scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, company)
	}
	return companies, total, rows.Err()
}

// Update rewrites a company row.
func (r *PostgresCompanyRepository) Update(ctx context.Context, company *domain.Company) error {
	query := `
		UPDATE companies
		SET name = $2, email = $3, phone = $4, website = $5, street = $6,
			city = $7, region = $8, postal_code = $9, country = $10,
			notes = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL
	`
	company.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		company.ID,
		company.Name,
		company.Email,
		company.Phone,
		company.Website,
		company.Address.Street,
		company.Address.City,
		company.Address.Region,
		company.Address.PostalCode,
		company.Address.Country,
		company.Notes,
		company.UpdatedAt,
	)
	return err
}

// Delete soft-deletes a company and ends its employment links.
func (r *PostgresCompanyRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	if _, err := tx.Exec(ctx, `UPDATE companies SET deleted_at = $2 WHERE id = $1`, id, now); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE employments SET ended_at = $2 WHERE company_id = $1 AND ended_at IS NULL`, id, now); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListPeople returns the company's active roster via employment links.
func (r *PostgresCompanyRepository) ListPeople(ctx context.Context, companyID string) ([]*domain.Person, error) {
	query := `
		SELECT p.id, p.first_name,
			COALESCE(p.last_name, '') as last_name,
			COALESCE(p.email, '') as email,
			COALESCE(p.phone, '') as phone,
			COALESCE(p.notes, '') as notes,
			p.created_at, p.updated_at, p.deleted_at
		FROM people p
		JOIN employments e ON e.person_id = p.id
		WHERE e.company_id = $1 AND e.ended_at IS NULL AND p.deleted_at IS NULL
		ORDER BY p.first_name, p.last_name
	`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []*domain.Person
	for rows.Next() {
		person := &domain.Person{}
		err := rows.Scan(
			&person.ID,
			&person.FirstName,
			&person.LastName,
			&person.Email,
			&person.Phone,
			&person.Notes,
			&person.CreatedAt,
			&person.UpdatedAt,
			&person.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		people = append(people, person)
	}
	return people, rows.Err()
}

func (r *PostgresCompanyRepository) scanCompany(row pgx.Row) (*domain.Company, error) {
	company := &domain.Company{}
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.Email,
		&company.Phone,
		&company.Website,
		&company.Address.Street,
		&company.Address.City,
		&company.Address.Region,
		&company.Address.PostalCode,
		&company.Address.Country,
		&company.Notes,
		&company.CreatedAt,
		&company.UpdatedAt,
		&company.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return company, nil
}
