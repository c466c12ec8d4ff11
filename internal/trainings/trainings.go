// Package trainings manages training sessions scheduled for a company.
package trainings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

type Training struct {
	ID          int64      `json:"id"`
	CompanyID   int64      `json:"companyId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, company_id, title, description, scheduled_at, completed, created_at, updated_at`

func (r *Repository) Get(ctx context.Context, id int64) (*Training, error) {
	var t Training
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM trainings WHERE id = $1`, id).
		Scan(&t.ID, &t.CompanyID, &t.Title, &t.Description, &t.ScheduledAt, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("trainings: get: %w", err)
	}
	return &t, nil
}

func (r *Repository) ListByCompany(ctx context.Context, companyID int64) ([]Training, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM trainings WHERE company_id = $1 ORDER BY scheduled_at DESC NULLS LAST`, companyID)
	if err != nil {
		return nil, fmt.Errorf("trainings: list: %w", err)
	}
	defer rows.Close()

	var result []Training
	for rows.Next() {
		var t Training
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Title, &t.Description, &t.ScheduledAt, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("trainings: scan: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *Repository) Create(ctx context.Context, t Training) (*Training, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO trainings (company_id, title, description, scheduled_at, completed)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id`,
		t.CompanyID, t.Title, t.Description, t.ScheduledAt).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("trainings: create: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, t Training) (*Training, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE trainings SET title = $2, description = $3, scheduled_at = $4, completed = $5, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Title, t.Description, t.ScheduledAt, t.Completed)
	if err != nil {
		return nil, fmt.Errorf("trainings: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, t.ID)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trainings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("trainings: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
