// Package consultingfirm exposes the consulting firm's own record. The firm
// is a singleton per tenant tree: only read and update exist, and only the
// Consultoria role holds those grants.
package consultingfirm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/authz"
	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

type ConsultingFirm struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	TaxID        string    `json:"taxId"`
	ContactEmail *string   `json:"contactEmail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (*ConsultingFirm, error) {
	var f ConsultingFirm
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, tax_id, contact_email, created_at, updated_at FROM consulting_firms WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.TaxID, &f.ContactEmail, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("consultingfirm: get: %w", err)
	}
	return &f, nil
}

func (r *Repository) Update(ctx context.Context, f ConsultingFirm) (*ConsultingFirm, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE consulting_firms SET name = $2, contact_email = $3, updated_at = NOW() WHERE id = $1`,
		f.ID, f.Name, f.ContactEmail)
	if err != nil {
		return nil, fmt.Errorf("consultingfirm: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, f.ID)
}

type Handler struct {
	logger   *slog.Logger
	repo     *Repository
	az       *authz.Middleware
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, repo *Repository, az *authz.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, az: az, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/consulting-firm", func(r chi.Router) {
		r.With(h.az.Require(authz.ResourceConsultingFirm, authz.ActionRead)).Get("/", h.Get)
		r.With(h.az.Require(authz.ResourceConsultingFirm, authz.ActionUpdate)).Put("/", h.Update)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := authz.PrincipalFromContext(r.Context())
	f, err := h.repo.Get(r.Context(), p.ConsultingFirmID)
	if err != nil {
		h.logger.Error("get consulting firm", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

type updateFirmRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	ContactEmail *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateFirmRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid firm payload")
		return
	}
	p, _ := authz.PrincipalFromContext(r.Context())
	f, err := h.repo.Update(r.Context(), ConsultingFirm{
		ID:           p.ConsultingFirmID,
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		h.logger.Error("update consulting firm", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}
