// Package feedbacks stores evaluation feedback an employee writes about a
// colleague. The author is always an employee record of the same company.
package feedbacks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

type Feedback struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	AuthorID   int64     `json:"authorId"`
	Content    string    `json:"content"`
	Rating     *int      `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, employee_id, author_id, content, rating, created_at, updated_at`

func (r *Repository) Get(ctx context.Context, id int64) (*Feedback, error) {
	var f Feedback
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM feedbacks WHERE id = $1`, id).
		Scan(&f.ID, &f.EmployeeID, &f.AuthorID, &f.Content, &f.Rating, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("feedbacks: get: %w", err)
	}
	return &f, nil
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID int64) ([]Feedback, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM feedbacks WHERE employee_id = $1 ORDER BY created_at DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("feedbacks: list: %w", err)
	}
	defer rows.Close()

	var result []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.EmployeeID, &f.AuthorID, &f.Content, &f.Rating, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("feedbacks: scan: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *Repository) Create(ctx context.Context, f Feedback) (*Feedback, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO feedbacks (employee_id, author_id, content, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		f.EmployeeID, f.AuthorID, f.Content, f.Rating).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("feedbacks: create: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id int64, content string, rating *int) (*Feedback, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE feedbacks SET content = $2, rating = $3, updated_at = NOW() WHERE id = $1`,
		id, content, rating)
	if err != nil {
		return nil, fmt.Errorf("feedbacks: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM feedbacks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("feedbacks: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
