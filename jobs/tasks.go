// Package jobs holds the background tasks processed by the worker binary:
// expired refresh-session purging and denial-audit retention.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vettore-hr/vettore/internal/audit"
	"github.com/vettore-hr/vettore/internal/auth"
	jobmetrics "github.com/vettore-hr/vettore/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPurgeSessions removes expired refresh sessions.
	TaskPurgeSessions = "auth:purge_sessions"
	// TaskAuditRetention removes denial audit rows past the retention window.
	TaskAuditRetention = "audit:retention"
)

// NewPurgeSessionsTask constructs the session purge task.
func NewPurgeSessionsTask() *asynq.Task {
	return asynq.NewTask(TaskPurgeSessions, nil)
}

// NewAuditRetentionTask constructs the audit retention task.
func NewAuditRetentionTask() *asynq.Task {
	return asynq.NewTask(TaskAuditRetention, nil)
}

// PurgeSessionsHandler deletes refresh sessions whose expiry has passed.
type PurgeSessionsHandler struct {
	repo    auth.Repository
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewPurgeSessionsHandler constructs the handler.
func NewPurgeSessionsHandler(repo auth.Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *PurgeSessionsHandler {
	return &PurgeSessionsHandler{repo: repo, logger: logger, metrics: metrics}
}

// ProcessTask implements asynq.Handler.
func (h *PurgeSessionsHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	tracker := h.metrics.Track("purge_sessions")
	deleted, err := h.repo.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		h.logger.Error("purge sessions", slog.Any("error", err))
		return tracker.End(err)
	}
	h.metrics.AddPurged("purge_sessions", deleted)
	h.logger.Info("purged expired sessions", slog.Int64("deleted", deleted))
	return tracker.End(nil)
}

// AuditRetentionHandler deletes denial rows older than the retention window.
type AuditRetentionHandler struct {
	recorder  *audit.Recorder
	retention time.Duration
	logger    *slog.Logger
	metrics   *jobmetrics.Metrics
}

// NewAuditRetentionHandler constructs the handler.
func NewAuditRetentionHandler(recorder *audit.Recorder, retention time.Duration, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditRetentionHandler {
	return &AuditRetentionHandler{recorder: recorder, retention: retention, logger: logger, metrics: metrics}
}

// ProcessTask implements asynq.Handler.
func (h *AuditRetentionHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	tracker := h.metrics.Track("audit_retention")
	cutoff := time.Now().Add(-h.retention)
	deleted, err := h.recorder.PurgeBefore(ctx, cutoff)
	if err != nil {
		h.logger.Error("audit retention", slog.Any("error", err))
		return tracker.End(err)
	}
	h.metrics.AddPurged("audit_retention", deleted)
	h.logger.Info("purged denial audit rows",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff))
	return tracker.End(nil)
}
