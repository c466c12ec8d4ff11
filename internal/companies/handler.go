package companies

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vettore-hr/vettore/internal/authz"
	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

// Handler exposes the company CRUD endpoints.
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

// MountRoutes registers the company routes. PUT is gated in the handler
// rather than by the matrix guard: Empresa may update its own company record
// even though its matrix row for companies is read-only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/companies", func(r chi.Router) {
		r.With(h.az.Require(authz.ResourceCompanies, authz.ActionRead)).Get("/", h.List)
		r.With(h.az.Require(authz.ResourceCompanies, authz.ActionCreate)).Post("/", h.Create)
		r.With(h.az.Require(authz.ResourceCompanies, authz.ActionRead)).Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.With(h.az.Require(authz.ResourceCompanies, authz.ActionDelete)).Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := authz.PrincipalFromContext(r.Context())
	list, total, err := h.service.List(r.Context(), p, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		h.logError(r, "list companies", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"companies": list, "total": total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logError(r, "get company", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company payload")
		return
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logError(r, "create company", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// Update allows Consultoria to update any company in scope, plus an Empresa
// principal to update its own company record.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, authz.MessageFor(authz.ErrUnauthenticated))
		return
	}
	id, idOK := pathID(r)
	if !idOK {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	allowed := h.az.Matrix.Allows(p.Role, authz.ResourceCompanies, authz.ActionUpdate) ||
		(p.Role == authz.RoleEmpresa && p.CompanyID == id)
	if !allowed {
		h.logger.Warn("authorization denied",
			slog.Int64("principal_id", p.ID),
			slog.String("role", string(p.Role)),
			slog.String("resource", authz.ResourceCompanies.String()),
			slog.String("action", authz.ActionUpdate.String()),
			slog.String("stage", authz.StageRole))
		httpx.Error(w, http.StatusForbidden, authz.MessageFor(authz.ErrRoleDenied))
		return
	}

	var req UpdateCompanyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid company payload")
		return
	}
	c, err := h.service.Update(r.Context(), p, id, req)
	if err != nil {
		h.logError(r, "update company", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logError(r, "delete company", err)
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
