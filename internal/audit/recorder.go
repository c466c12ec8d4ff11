// Package audit persists denied authorization decisions for later review.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/authz"
)

// Recorder writes denial records into authz_denials. It satisfies
// authz.DenialRecorder. Recording is best effort: a failed insert is logged
// and never fails the request being denied.
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool, logger *slog.Logger) *Recorder {
	return &Recorder{pool: pool, logger: logger}
}

// RecordDenial persists one denial row.
func (r *Recorder) RecordDenial(ctx context.Context, d authz.Denial) {
	if r == nil || r.pool == nil {
		return
	}
	// The request context may already be cancelled when the denial is
	// written; give the insert its own short deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO authz_denials (principal_id, role, resource, action, stage, instance_id, request_id, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), $7, NOW())`,
		d.PrincipalID, string(d.Role), d.Resource, d.Action, d.Stage, d.InstanceID, d.RequestID)
	if err != nil && r.logger != nil {
		r.logger.Error("record denial", slog.Any("error", err))
	}
}

// PurgeBefore deletes denial rows older than the cutoff. Invoked by the
// retention job.
func (r *Recorder) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authz_denials WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
