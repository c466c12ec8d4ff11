package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/auth"
	"github.com/vettore-hr/vettore/internal/authz"
	"github.com/vettore-hr/vettore/internal/companies"
	"github.com/vettore-hr/vettore/internal/consultingfirm"
	"github.com/vettore-hr/vettore/internal/departments"
	"github.com/vettore-hr/vettore/internal/employees"
	"github.com/vettore-hr/vettore/internal/evaluations"
	"github.com/vettore-hr/vettore/internal/feedbacks"
	"github.com/vettore-hr/vettore/internal/observability"
	"github.com/vettore-hr/vettore/internal/occurrences"
	"github.com/vettore-hr/vettore/internal/pdis"
	"github.com/vettore-hr/vettore/internal/platform/httpx"
	"github.com/vettore-hr/vettore/internal/trainings"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Pool    *pgxpool.Pool
	Metrics *observability.Metrics
	Authz   *authz.Middleware

	AuthHandler           *auth.Handler
	CompaniesHandler      *companies.Handler
	EmployeesHandler      *employees.Handler
	DepartmentsHandler    *departments.Handler
	OccurrencesHandler    *occurrences.Handler
	FeedbacksHandler      *feedbacks.Handler
	TrainingsHandler      *trainings.Handler
	EvaluationsHandler    *evaluations.Handler
	PDIsHandler           *pdis.Handler
	ConsultingFirmHandler *consultingfirm.Handler
}

// NewRouter constructs the chi router. Authentication endpoints and probes
// stay outside the token gate; every resource route is mounted inside the
// authenticated group so the authorization chain runs in front of it.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if params.Pool != nil {
			if err := params.Pool.Ping(req.Context()); err != nil {
				httpx.Error(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	params.AuthHandler.MountRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(params.Authz.Authenticate)

		params.CompaniesHandler.MountRoutes(r)
		params.EmployeesHandler.MountRoutes(r)
		params.DepartmentsHandler.MountRoutes(r)
		params.OccurrencesHandler.MountRoutes(r)
		params.FeedbacksHandler.MountRoutes(r)
		params.TrainingsHandler.MountRoutes(r)
		params.EvaluationsHandler.MountRoutes(r)
		params.PDIsHandler.MountRoutes(r)
		params.ConsultingFirmHandler.MountRoutes(r)
	})

	return r
}
