package evaluations

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vettore-hr/vettore/internal/authz"
	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

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
	r.Route("/evaluations", func(r chi.Router) {
		r.With(h.az.Require(authz.ResourceEvaluations, authz.ActionRead)).Get("/", h.List)
		r.With(h.az.Require(authz.ResourceEvaluations, authz.ActionCreate)).Post("/", h.Create)
		r.With(h.az.Require(authz.ResourceEvaluations, authz.ActionRead)).Get("/{id}", h.Get)
		r.With(h.az.Require(authz.ResourceEvaluations, authz.ActionUpdate)).Put("/{id}", h.Update)
		r.With(h.az.Require(authz.ResourceEvaluations, authz.ActionDelete)).Delete("/{id}", h.Delete)
	})
}

type evaluationRequest struct {
	EmployeeID int64   `json:"employeeId" validate:"required,gt=0"`
	Period     string  `json:"period" validate:"required,max=20"`
	Score      float64 `json:"score" validate:"min=0,max=10"`
	Notes      *string `json:"notes,omitempty"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(r.URL.Query().Get("employee_id"), 10, 64)
	if err != nil || employeeID <= 0 {
		httpx.Error(w, http.StatusBadRequest, "employee_id is required")
		return
	}
	list, err := h.repo.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		h.logger.Error("list evaluations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"evaluations": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	e, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req evaluationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid evaluation payload")
		return
	}
	e, err := h.repo.Create(r.Context(), Evaluation{
		EmployeeID: req.EmployeeID,
		Period:     req.Period,
		Score:      req.Score,
		Notes:      req.Notes,
	})
	if err != nil {
		h.logger.Error("create evaluation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req evaluationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid evaluation payload")
		return
	}
	e, err := h.repo.Update(r.Context(), Evaluation{
		ID:     id,
		Period: req.Period,
		Score:  req.Score,
		Notes:  req.Notes,
	})
	if err != nil {
		h.logger.Error("update evaluation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete evaluation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
