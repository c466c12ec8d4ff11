// Package evaluations manages periodic performance evaluations of employees.
package evaluations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

type Evaluation struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	Period     string    `json:"period"`
	Score      float64   `json:"score"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, employee_id, period, score, notes, created_at, updated_at`

func (r *Repository) Get(ctx context.Context, id int64) (*Evaluation, error) {
	var e Evaluation
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM evaluations WHERE id = $1`, id).
		Scan(&e.ID, &e.EmployeeID, &e.Period, &e.Score, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("evaluations: get: %w", err)
	}
	return &e, nil
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID int64) ([]Evaluation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM evaluations WHERE employee_id = $1 ORDER BY period DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("evaluations: list: %w", err)
	}
	defer rows.Close()

	var result []Evaluation
	for rows.Next() {
		var e Evaluation
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.Period, &e.Score, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("evaluations: scan: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *Repository) Create(ctx context.Context, e Evaluation) (*Evaluation, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO evaluations (employee_id, period, score, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		e.EmployeeID, e.Period, e.Score, e.Notes).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("evaluations: create: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, e Evaluation) (*Evaluation, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE evaluations SET period = $2, score = $3, notes = $4, updated_at = NOW()
		WHERE id = $1`,
		e.ID, e.Period, e.Score, e.Notes)
	if err != nil {
		return nil, fmt.Errorf("evaluations: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, e.ID)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM evaluations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("evaluations: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
