package pdis

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
	r.Route("/pdis", func(r chi.Router) {
		r.With(h.az.Require(authz.ResourcePDIs, authz.ActionRead)).Get("/", h.List)
		r.With(h.az.Require(authz.ResourcePDIs, authz.ActionCreate)).Post("/", h.Create)
		r.With(h.az.Require(authz.ResourcePDIs, authz.ActionRead)).Get("/{id}", h.Get)
		r.With(h.az.Require(authz.ResourcePDIs, authz.ActionUpdate)).Put("/{id}", h.Update)
		r.With(h.az.Require(authz.ResourcePDIs, authz.ActionDelete)).Delete("/{id}", h.Delete)
	})
}

type pdiRequest struct {
	EmployeeID int64      `json:"employeeId" validate:"required,gt=0"`
	Goal       string     `json:"goal" validate:"required"`
	Status     string     `json:"status" validate:"required,oneof=draft active done cancelled"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := authz.PrincipalFromContext(r.Context())

	employeeID := p.ReferenceID
	if p.Role != authz.RoleColaborador {
		id, err := strconv.ParseInt(r.URL.Query().Get("employee_id"), 10, 64)
		if err != nil || id <= 0 {
			httpx.Error(w, http.StatusBadRequest, "employee_id is required")
			return
		}
		employeeID = id
	}
	list, err := h.repo.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		h.logger.Error("list pdis", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"pdis": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req pdiRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid pdi payload")
		return
	}
	p, err := h.repo.Create(r.Context(), PDI{
		EmployeeID: req.EmployeeID,
		Goal:       req.Goal,
		Status:     req.Status,
		DueDate:    req.DueDate,
	})
	if err != nil {
		h.logger.Error("create pdi", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req pdiRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid pdi payload")
		return
	}
	p, err := h.repo.Update(r.Context(), PDI{
		ID:      id,
		Goal:    req.Goal,
		Status:  req.Status,
		DueDate: req.DueDate,
	})
	if err != nil {
		h.logger.Error("update pdi", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete pdi", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
