package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository abstracts user and refresh-session persistence.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	CreateSession(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	SessionActive(ctx context.Context, jti string) (bool, error)
	DeleteSession(ctx context.Context, jti string) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const userColumns = `id, email, password_hash, role, company_id, consulting_firm_id, reference_id, is_active, created_at`

func (r *pgRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *pgRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *pgRepository) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CompanyID,
		&u.ConsultingFirmID, &u.ReferenceID, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	return &u, nil
}

func (r *pgRepository) CreateSession(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO auth_sessions (jti, user_id, expires_at) VALUES ($1, $2, $3)`,
		jti, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("auth: create session: %w", err)
	}
	return nil
}

func (r *pgRepository) SessionActive(ctx context.Context, jti string) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx,
		`SELECT expires_at > now() FROM auth_sessions WHERE jti = $1`, jti).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("auth: session lookup: %w", err)
	}
	return active, nil
}

func (r *pgRepository) DeleteSession(ctx context.Context, jti string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM auth_sessions WHERE jti = $1`, jti); err != nil {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	return nil
}

func (r *pgRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM auth_sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("auth: purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
