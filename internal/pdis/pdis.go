// Package pdis manages individual development plans (PDIs) for employees.
package pdis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

type PDI struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employeeId"`
	Goal       string     `json:"goal"`
	Status     string     `json:"status"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, employee_id, goal, status, due_date, created_at, updated_at`

func (r *Repository) Get(ctx context.Context, id int64) (*PDI, error) {
	var p PDI
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM pdis WHERE id = $1`, id).
		Scan(&p.ID, &p.EmployeeID, &p.Goal, &p.Status, &p.DueDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("pdis: get: %w", err)
	}
	return &p, nil
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID int64) ([]PDI, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM pdis WHERE employee_id = $1 ORDER BY created_at DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("pdis: list: %w", err)
	}
	defer rows.Close()

	var result []PDI
	for rows.Next() {
		var p PDI
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Goal, &p.Status, &p.DueDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pdis: scan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *Repository) Create(ctx context.Context, p PDI) (*PDI, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO pdis (employee_id, goal, status, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		p.EmployeeID, p.Goal, p.Status, p.DueDate).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("pdis: create: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, p PDI) (*PDI, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pdis SET goal = $2, status = $3, due_date = $4, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Goal, p.Status, p.DueDate)
	if err != nil {
		return nil, fmt.Errorf("pdis: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, p.ID)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pdis WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pdis: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
