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

// PostgresPersonRepository implements PersonRepository using PostgreSQL.
type PostgresPersonRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPersonRepository creates a new PostgresPersonRepository.
func NewPostgresPersonRepository(pool *pgxpool.Pool) *PostgresPersonRepository {
	return &PostgresPersonRepository{pool: pool}
}

const personColumns = `id, first_name,
	COALESCE(last_name, '') as last_name,
	COALESCE(email, '') as email,
	COALESCE(phone, '') as phone,
	COALESCE(notes, '') as notes,
	created_at, updated_at, deleted_at`

// Create inserts a new person.
func (r *PostgresPersonRepository) Create(ctx context.Context, person *domain.Person) error {
	query := `
		INSERT INTO people (id, first_name, last_name, email, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		person.ID,
		person.FirstName,
		person.LastName,
		person.Email,
		person.Phone,
		person.Notes,
		person.CreatedAt,
		person.UpdatedAt,
	)
	return err
}

// GetByID retrieves a person with all typed associations loaded. Returns
// (nil, nil) when not found or soft-deleted.
func (r *PostgresPersonRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM people WHERE id = $1 AND deleted_at IS NULL`, personColumns)
	person, err := r.scanPerson(r.pool.QueryRow(ctx, query, id))
	if err != nil || person == nil {
		return person, err
	}

	if person.Employments, err = r.loadEmployments(ctx, id); err != nil {
		return nil, err
	}
	if person.Marriages, err = r.loadMarriages(ctx, id); err != nil {
		return nil, err
	}
	if person.Children, err = r.loadChildren(ctx, id); err != nil {
		return nil, err
	}
	if person.Tags, err = r.loadTags(ctx, id); err != nil {
		return nil, err
	}
	return person, nil
}

// List returns people matching the search term (case-insensitive substring
// over name and email), without associations.
func (r *PostgresPersonRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Person, int64, error) {
	where := `deleted_at IS NULL`
	args := []interface{}{}
	if search != "" {
		where += ` AND (first_name || ' ' || COALESCE(last_name, '') ILIKE $1 OR email ILIKE $1)`
		args = append(args, "%"+search+"%")
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM people WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM people WHERE %s ORDER BY first_name, last_name LIMIT $%d OFFSET $%d`,
		personColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var people []*domain.Person
	for rows.Next() {
		person, err := r.scanPerson(rows)
		if err != nil {
			return nil, 0, err
		}
		people = append(people, person)
	}
	return people, total, rows.Err()
}

// Update rewrites a person row. Associations are managed separately.
func (r *PostgresPersonRepository) Update(ctx context.Context, person *domain.Person) error {
	query := `
		UPDATE people
		SET first_name = $2, last_name = $3, email = $4, phone = $5, notes = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`
	person.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		person.ID,
		person.FirstName,
		person.LastName,
		person.Email,
		person.Phone,
		person.Notes,
		person.UpdatedAt,
	)
	return err
}

// Delete soft-deletes a person and removes association rows.
func (r *PostgresPersonRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE people SET deleted_at = $2 WHERE id = $1`, id, time.Now()); err != nil {
		return err
	}
	for _, stmt := range []string{
		`DELETE FROM employments WHERE person_id = $1`,
		`DELETE FROM marriages WHERE person_id = $1`,
		`DELETE FROM children WHERE person_id = $1`,
		`DELETE FROM person_tags WHERE person_id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// AddEmployment links a person to a company.
func (r *PostgresPersonRepository) AddEmployment(ctx context.Context, e *domain.Employment) error {
	query := `
		INSERT INTO employments (id, person_id, company_id, title, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, e.ID, e.PersonID, e.CompanyID, e.Title, e.StartedAt, e.EndedAt)
	return err
}

// RemoveEmployment deletes an employment link.
func (r *PostgresPersonRepository) RemoveEmployment(ctx context.Context, employmentID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM employments WHERE id = $1`, employmentID)
	return err
}

// AddMarriage records a marriage association.
func (r *PostgresPersonRepository) AddMarriage(ctx context.Context, m *domain.Marriage) error {
	query := `
		INSERT INTO marriages (id, person_id, spouse_id, spouse_name, married_at, divorced_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, m.ID, m.PersonID, m.SpouseID, m.SpouseName, m.MarriedAt, m.DivorcedAt)
	return err
}

// RemoveMarriage deletes a marriage association.
func (r *PostgresPersonRepository) RemoveMarriage(ctx context.Context, marriageID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM marriages WHERE id = $1`, marriageID)
	return err
}

// AddChild records a child association.
func (r *PostgresPersonRepository) AddChild(ctx context.Context, c *domain.Child) error {
	query := `
		INSERT INTO children (id, person_id, child_id, child_name, born_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, c.ID, c.PersonID, c.ChildID, c.ChildName, c.BornAt)
	return err
}

// RemoveChild deletes a child association.
func (r *PostgresPersonRepository) RemoveChild(ctx context.Context, childID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM children WHERE id = $1`, childID)
	return err
}

// AttachTag links a tag to a person; duplicates are ignored.
func (r *PostgresPersonRepository) AttachTag(ctx context.Context, personID, tagID string) error {
	query := `
		INSERT INTO person_tags (person_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (person_id, tag_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, personID, tagID)
	return err
}

// DetachTag removes a tag from a person.
func (r *PostgresPersonRepository) DetachTag(ctx context.Context, personID, tagID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM person_tags WHERE person_id = $1 AND tag_id = $2`, personID, tagID)
	return err
}

func (r *PostgresPersonRepository) loadEmployments(ctx context.Context, personID string) ([]domain.Employment, error) {
	query := `
		SELECT id, person_id, company_id, COALESCE(title, ''), started_at, ended_at
		FROM employments
		WHERE person_id = $1
		ORDER BY started_at NULLS LAST
	`
	rows, err := r.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Employment
	for rows.Next() {
		var e domain.Employment
		if err := rows.Scan(&e.ID, &e.PersonID, &e.CompanyID, &e.Title, &e.StartedAt, &e.EndedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresPersonRepository) loadMarriages(ctx context.Context, personID string) ([]domain.Marriage, error) {
	query := `
		SELECT id, person_id, COALESCE(spouse_id, ''), spouse_name, married_at, divorced_at
		FROM marriages
		WHERE person_id = $1
		ORDER BY married_at NULLS LAST
	`
	rows, err := r.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Marriage
	for rows.Next() {
		var m domain.Marriage
		if err := rows.Scan(&m.ID, &m.PersonID, &m.SpouseID, &m.SpouseName, &m.MarriedAt, &m.DivorcedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresPersonRepository) loadChildren(ctx context.Context, personID string) ([]domain.Child, error) {
	query := `
		SELECT id, person_id, COALESCE(child_id, ''), child_name, born_at
		FROM children
		WHERE person_id = $1
		ORDER BY born_at NULLS LAST
	`
	rows, err := r.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Child
	for rows.Next() {
		var c domain.Child
		if err := rows.Scan(&c.ID, &c.PersonID, &c.ChildID, &c.ChildName, &c.BornAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresPersonRepository) loadTags(ctx context.Context, personID string) ([]domain.Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug, COALESCE(t.color, ''), t.created_at, t.updated_at
		FROM tags t
		JOIN person_tags pt ON pt.tag_id = t.id
		WHERE pt.person_id = $1
		ORDER BY t.name
	`
	rows, err := r.pool.Query(ctx, query, personID)
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

func (r *PostgresPersonRepository) scanPerson(row pgx.Row) (*domain.Person, error) {
	person := &domain.Person{}
	err := row.Scan(
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return person, nil
}
