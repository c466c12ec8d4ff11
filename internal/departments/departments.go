// Package departments manages the departments of a company.
package departments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

type Department struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"companyId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (*Department, error) {
	var d Department
	err := r.pool.QueryRow(ctx,
		`SELECT id, company_id, name, created_at, updated_at FROM departments WHERE id = $1`, id).
		Scan(&d.ID, &d.CompanyID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("departments: get: %w", err)
	}
	return &d, nil
}

func (r *Repository) ListByCompany(ctx context.Context, companyID int64) ([]Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, company_id, name, created_at, updated_at FROM departments WHERE company_id = $1 ORDER BY name`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("departments: list: %w", err)
	}
	defer rows.Close()

	var result []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("departments: scan: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *Repository) Create(ctx context.Context, companyID int64, name string) (*Department, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO departments (company_id, name) VALUES ($1, $2) RETURNING id`,
		companyID, name).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, httpx.ErrDuplicate
		}
		return nil, fmt.Errorf("departments: create: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id int64, name string) (*Department, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE departments SET name = $2, updated_at = NOW() WHERE id = $1`, id, name)
	if err != nil {
		return nil, fmt.Errorf("departments: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("departments: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
