package feedbacks

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
	r.Route("/feedbacks", func(r chi.Router) {
		r.With(h.az.Require(authz.ResourceFeedbacks, authz.ActionRead)).Get("/", h.List)
		r.With(h.az.Require(authz.ResourceFeedbacks, authz.ActionCreate)).Post("/", h.Create)
		r.With(h.az.Require(authz.ResourceFeedbacks, authz.ActionRead)).Get("/{id}", h.Get)
		r.With(h.az.Require(authz.ResourceFeedbacks, authz.ActionUpdate)).Put("/{id}", h.Update)
		r.With(h.az.Require(authz.ResourceFeedbacks, authz.ActionDelete)).Delete("/{id}", h.Delete)
	})
}

type createFeedbackRequest struct {
	EmployeeID int64  `json:"employeeId" validate:"required,gt=0"`
	AuthorID   int64  `json:"authorId" validate:"omitempty,gt=0"`
	Content    string `json:"content" validate:"required"`
	Rating     *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

type updateFeedbackRequest struct {
	Content string `json:"content" validate:"required"`
	Rating  *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(r.URL.Query().Get("employee_id"), 10, 64)
	if err != nil || employeeID <= 0 {
		httpx.Error(w, http.StatusBadRequest, "employee_id is required")
		return
	}
	list, err := h.repo.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		h.logger.Error("list feedbacks", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"feedbacks": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	f, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFeedbackRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid feedback payload")
		return
	}

	// A colaborador always authors as itself; the body field cannot forge
	// another employee's authorship.
	if p, ok := authz.PrincipalFromContext(r.Context()); ok && p.Role == authz.RoleColaborador {
		req.AuthorID = p.ReferenceID
	}
	if req.AuthorID == 0 {
		httpx.Error(w, http.StatusBadRequest, "authorId is required")
		return
	}

	f, err := h.repo.Create(r.Context(), Feedback{
		EmployeeID: req.EmployeeID,
		AuthorID:   req.AuthorID,
		Content:    req.Content,
		Rating:     req.Rating,
	})
	if err != nil {
		h.logger.Error("create feedback", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, f)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateFeedbackRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid feedback payload")
		return
	}
	f, err := h.repo.Update(r.Context(), id, req.Content, req.Rating)
	if err != nil {
		h.logger.Error("update feedback", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete feedback", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
