package departments

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
	r.Route("/departments", func(r chi.Router) {
		r.With(h.az.Require(authz.ResourceDepartments, authz.ActionRead)).Get("/", h.List)
		r.With(h.az.Require(authz.ResourceDepartments, authz.ActionCreate)).Post("/", h.Create)
		r.With(h.az.Require(authz.ResourceDepartments, authz.ActionRead)).Get("/{id}", h.Get)
		r.With(h.az.Require(authz.ResourceDepartments, authz.ActionUpdate)).Put("/{id}", h.Update)
		r.With(h.az.Require(authz.ResourceDepartments, authz.ActionDelete)).Delete("/{id}", h.Delete)
	})
}

type departmentRequest struct {
	CompanyID int64  `json:"companyId" validate:"omitempty,gt=0"`
	Name      string `json:"name" validate:"required,max=200"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := authz.PrincipalFromContext(r.Context())
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
		h.logger.Error("list departments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"departments": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	d, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid department payload")
		return
	}
	p, _ := authz.PrincipalFromContext(r.Context())
	if p.Role != authz.RoleConsultoria {
		req.CompanyID = p.CompanyID
	}
	if req.CompanyID == 0 {
		httpx.Error(w, http.StatusBadRequest, "companyId is required")
		return
	}
	d, err := h.repo.Create(r.Context(), req.CompanyID, req.Name)
	if err != nil {
		h.logger.Error("create department", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, d)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req departmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid department payload")
		return
	}
	d, err := h.repo.Update(r.Context(), id, req.Name)
	if err != nil {
		h.logger.Error("update department", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete department", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
