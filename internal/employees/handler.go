package employees

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vettore-hr/vettore/internal/authz"
	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

// Handler exposes the employee CRUD endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	az       *authz.Middleware
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, az *authz.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		az:       az,
		validate: validator.New(),
	}
}

// MountRoutes registers the employee routes. Updates and deletes carry the
// ownership gate on top of role and scope.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(h.az.Require(authz.ResourceEmployees, authz.ActionRead)).Get("/", h.List)
		r.With(h.az.Require(authz.ResourceEmployees, authz.ActionCreate)).Post("/", h.Create)
		r.With(h.az.Require(authz.ResourceEmployees, authz.ActionRead)).Get("/{id}", h.Get)
		r.With(h.az.RequireOwned(authz.ResourceEmployees, authz.ActionUpdate)).Put("/{id}", h.Update)
		r.With(h.az.RequireOwned(authz.ResourceEmployees, authz.ActionDelete)).Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := authz.PrincipalFromContext(r.Context())

	req := ListEmployeesRequest{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}
	if v := r.URL.Query().Get("company_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid company_id")
			return
		}
		req.CompanyID = id
	}
	if v := r.URL.Query().Get("department_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid department_id")
			return
		}
		req.DepartmentID = &id
	}
	if v := r.URL.Query().Get("active"); v != "" {
		active := v == "true"
		req.IsActive = &active
	}

	list, total, err := h.service.List(r.Context(), p, req)
	if err != nil {
		h.logError(r, "list employees", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"employees": list, "total": total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logError(r, "get employee", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid employee payload")
		return
	}

	// Tenant roles can only create inside their own company. The collection
	// route has no path id for the scope stage to check, so the body field
	// is pinned here.
	if p, ok := authz.PrincipalFromContext(r.Context()); ok && p.Role != authz.RoleConsultoria {
		req.CompanyID = p.CompanyID
	}

	e, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logError(r, "create employee", err)
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
	var req UpdateEmployeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid employee payload")
		return
	}
	e, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logError(r, "update employee", err)
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
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logError(r, "delete employee", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) logError(r *http.Request, op string, err error) {
	h.logger.Error(op, slog.String("path", r.URL.Path), slog.Any("error", err))
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
