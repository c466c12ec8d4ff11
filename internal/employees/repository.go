package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

// Repository abstracts employee persistence.
type Repository interface {
	Get(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context, req ListEmployeesRequest) ([]Employee, int, error)
	Create(ctx context.Context, e Employee) (int64, error)
	Update(ctx context.Context, e Employee) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const employeeColumns = `id, company_id, department_id, name, email, position, hired_at, is_active, created_at, updated_at`

func (r *pgRepository) Get(ctx context.Context, id int64) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

func (r *pgRepository) List(ctx context.Context, req ListEmployeesRequest) ([]Employee, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+employeeColumns+`, COUNT(*) OVER() AS total
		FROM employees
		WHERE company_id = $1
		  AND ($2::bigint IS NULL OR department_id = $2)
		  AND ($3::boolean IS NULL OR is_active = $3)
		ORDER BY name
		LIMIT $4 OFFSET $5`,
		req.CompanyID, req.DepartmentID, req.IsActive, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("employees: list: %w", err)
	}
	defer rows.Close()

	var result []Employee
	total := 0
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.DepartmentID, &e.Name, &e.Email,
			&e.Position, &e.HiredAt, &e.IsActive, &e.CreatedAt, &e.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("employees: scan: %w", err)
		}
		result = append(result, e)
	}
	return result, total, rows.Err()
}

func (r *pgRepository) Create(ctx context.Context, e Employee) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO employees (company_id, department_id, name, email, position, hired_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id`,
		e.CompanyID, e.DepartmentID, e.Name, e.Email, e.Position, e.HiredAt).Scan(&id)
	if err != nil {
		return 0, mapPgError("employees: create", err)
	}
	return id, nil
}

func (r *pgRepository) Update(ctx context.Context, e Employee) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE employees
		SET department_id = $2, name = $3, email = $4, position = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1`,
		e.ID, e.DepartmentID, e.Name, e.Email, e.Position, e.IsActive)
	if err != nil {
		return mapPgError("employees: update", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("employees: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.CompanyID, &e.DepartmentID, &e.Name, &e.Email,
		&e.Position, &e.HiredAt, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("employees: get: %w", err)
	}
	return &e, nil
}

func mapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}
