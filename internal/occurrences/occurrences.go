// Package occurrences tracks notable events on an employee's record
// (warnings, absences, commendations).
package occurrences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

type Occurrence struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"employeeId"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurredAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, employee_id, kind, description, occurred_at, created_at, updated_at`

func (r *Repository) Get(ctx context.Context, id int64) (*Occurrence, error) {
	var o Occurrence
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM occurrences WHERE id = $1`, id).
		Scan(&o.ID, &o.EmployeeID, &o.Kind, &o.Description, &o.OccurredAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("occurrences: get: %w", err)
	}
	return &o, nil
}

// ListByCompany returns occurrences for every employee of the company,
// newest first.
func (r *Repository) ListByCompany(ctx context.Context, companyID int64) ([]Occurrence, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.employee_id, o.kind, o.description, o.occurred_at, o.created_at, o.updated_at
		FROM occurrences o
		JOIN employees e ON e.id = o.employee_id
		WHERE e.company_id = $1
		ORDER BY o.occurred_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("occurrences: list: %w", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID int64) ([]Occurrence, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM occurrences WHERE employee_id = $1 ORDER BY occurred_at DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("occurrences: list: %w", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

func (r *Repository) Create(ctx context.Context, o Occurrence) (*Occurrence, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO occurrences (employee_id, kind, description, occurred_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		o.EmployeeID, o.Kind, o.Description, o.OccurredAt).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("occurrences: create: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, o Occurrence) (*Occurrence, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE occurrences SET kind = $2, description = $3, occurred_at = $4, updated_at = NOW()
		WHERE id = $1`,
		o.ID, o.Kind, o.Description, o.OccurredAt)
	if err != nil {
		return nil, fmt.Errorf("occurrences: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, o.ID)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM occurrences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("occurrences: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanAll(rows pgx.Rows) ([]Occurrence, error) {
	var result []Occurrence
	for rows.Next() {
		var o Occurrence
		if err := rows.Scan(&o.ID, &o.EmployeeID, &o.Kind, &o.Description, &o.OccurredAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("occurrences: scan: %w", err)
		}
		result = append(result, o)
	}
	return result, rows.Err()
}
