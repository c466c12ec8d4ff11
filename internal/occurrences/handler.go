package occurrences

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

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
	r.Route("/occurrences", func(r chi.Router) {
		r.With(h.az.Require(authz.ResourceOccurrences, authz.ActionRead)).Get("/", h.List)
		r.With(h.az.Require(authz.ResourceOccurrences, authz.ActionCreate)).Post("/", h.Create)
		r.With(h.az.Require(authz.ResourceOccurrences, authz.ActionRead)).Get("/{id}", h.Get)
		r.With(h.az.Require(authz.ResourceOccurrences, authz.ActionUpdate)).Put("/{id}", h.Update)
		r.With(h.az.Require(authz.ResourceOccurrences, authz.ActionDelete)).Delete("/{id}", h.Delete)
	})
}

type occurrenceRequest struct {
	EmployeeID  int64     `json:"employeeId" validate:"required,gt=0"`
	Kind        string    `json:"kind" validate:"required,max=50"`
	Description string    `json:"description" validate:"required"`
	OccurredAt  time.Time `json:"occurredAt" validate:"required"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := authz.PrincipalFromContext(r.Context())

	if v := r.URL.Query().Get("employee_id"); v != "" {
		employeeID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || employeeID <= 0 {
			httpx.Error(w, http.StatusBadRequest, "invalid employee_id")
			return
		}
		list, err := h.repo.ListByEmployee(r.Context(), employeeID)
		if err != nil {
			h.logger.Error("list occurrences", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"occurrences": list})
		return
	}

	companyID := p.CompanyID
	if p.Role == authz.RoleConsultoria {
		id, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
		if err != nil || id <= 0 {
			httpx.Error(w, http.StatusBadRequest, "company_id is required")
			return
		}
		companyID = id
	}
	list, err := h.repo.ListByCompany(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list occurrences", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"occurrences": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	o, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req occurrenceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid occurrence payload")
		return
	}
	o, err := h.repo.Create(r.Context(), Occurrence{
		EmployeeID:  req.EmployeeID,
		Kind:        req.Kind,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
	})
	if err != nil {
		h.logger.Error("create occurrence", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req occurrenceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid occurrence payload")
		return
	}
	o, err := h.repo.Update(r.Context(), Occurrence{
		ID:          id,
		Kind:        req.Kind,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
	})
	if err != nil {
		h.logger.Error("update occurrence", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete occurrence", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
