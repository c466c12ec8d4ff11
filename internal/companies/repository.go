package companies

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

// Repository abstracts company persistence.
type Repository interface {
	Get(ctx context.Context, id int64) (*Company, error)
	List(ctx context.Context, firmID int64, limit, offset int) ([]Company, int, error)
	Create(ctx context.Context, c Company) (int64, error)
	Update(ctx context.Context, c Company) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const companyColumns = `id, consulting_firm_id, name, tax_id, contact_email, is_active, created_at, updated_at`

func (r *pgRepository) Get(ctx context.Context, id int64) (*Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.ConsultingFirmID, &c.Name, &c.TaxID, &c.ContactEmail, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("companies: get: %w", err)
	}
	return &c, nil
}

func (r *pgRepository) List(ctx context.Context, firmID int64, limit, offset int) ([]Company, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+companyColumns+`, COUNT(*) OVER() AS total
		FROM companies
		WHERE ($1::bigint = 0 OR consulting_firm_id = $1)
		ORDER BY name
		LIMIT $2 OFFSET $3`, firmID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("companies: list: %w", err)
	}
	defer rows.Close()

	var result []Company
	total := 0
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.ConsultingFirmID, &c.Name, &c.TaxID, &c.ContactEmail,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("companies: scan: %w", err)
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (r *pgRepository) Create(ctx context.Context, c Company) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO companies (consulting_firm_id, name, tax_id, contact_email, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id`,
		c.ConsultingFirmID, c.Name, c.TaxID, c.ContactEmail).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, httpx.ErrDuplicate
		}
		return 0, fmt.Errorf("companies: create: %w", err)
	}
	return id, nil
}

func (r *pgRepository) Update(ctx context.Context, c Company) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE companies
		SET name = $2, contact_email = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.ContactEmail, c.IsActive)
	if err != nil {
		return fmt.Errorf("companies: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("companies: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
