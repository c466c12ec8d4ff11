package authz

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

// DecisionMetrics records authorization outcomes for observability.
type DecisionMetrics interface {
	ObserveDecision(stage string, allowed bool)
}

// Denial captures everything the audit trail needs about a rejected request.
type Denial struct {
	PrincipalID int64
	Role        Role
	Resource    string
	Action      string
	Stage       string
	InstanceID  int64
	RequestID   string
}

// DenialRecorder persists denials for audit review. Implementations must not
// fail the request; recording is best effort.
type DenialRecorder interface {
	RecordDenial(ctx context.Context, d Denial)
}

// RevocationChecker reports whether an access token id has been revoked
// (logout before expiry).
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Middleware composes token verification, the permission matrix, scope
// resolution and ownership checks into per-route guards. Each request walks
// the stages in order and short-circuits at the first denial; every stage
// maps to a distinct HTTP status while the response body stays generic.
type Middleware struct {
	Tokens      *TokenService
	Matrix      *Matrix
	Scope       *ScopeResolver
	Ownership   *OwnershipChecker
	Limiter     *SlidingWindowLimiter
	Logger      *slog.Logger
	Metrics     DecisionMetrics
	Audit       DenialRecorder
	Revocations RevocationChecker
}

// Authenticate verifies the bearer token, applies the per-principal rate
// limit and stores the principal in the request context. Unauthenticated
// requests are limited separately, upstream, by the IP-keyed limiter.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			m.deny(w, r, Principal{}, "", "", 0, ErrUnauthenticated)
			return
		}
		p, err := m.Tokens.Verify(token)
		if err != nil {
			m.deny(w, r, Principal{}, "", "", 0, err)
			return
		}
		if m.Revocations != nil {
			jti, _, jtiErr := m.Tokens.JTI(token)
			if jtiErr == nil {
				revoked, revErr := m.Revocations.IsRevoked(r.Context(), jti)
				if revErr != nil {
					// Revocation storage being down must not lock every
					// user out; log and continue with the signed expiry.
					m.Logger.Warn("revocation check failed", slog.Any("error", revErr))
				} else if revoked {
					m.deny(w, r, p, "", "", 0, ErrTokenInvalid)
					return
				}
			}
		}
		if m.Limiter != nil && !m.Limiter.Allow(p.ID) {
			m.deny(w, r, p, "", "", 0, ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
	})
}

// Require gates a route on the permission matrix and the tenant scope for
// the given resource kind and action.
func (m *Middleware) Require(kind Resource, action Action) func(http.Handler) http.Handler {
	return m.guard(kind, action, false)
}

// RequireOwned additionally gates on the resource's ownership rule. Used for
// the resource kinds where ownership is finer than company scope.
// Consultoria bypasses the ownership check entirely.
func (m *Middleware) RequireOwned(kind Resource, action Action) func(http.Handler) http.Handler {
	return m.guard(kind, action, true)
}

func (m *Middleware) guard(kind Resource, action Action, owned bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				m.deny(w, r, Principal{}, kind.String(), action.String(), 0, ErrUnauthenticated)
				return
			}
			if !m.Matrix.Allows(p.Role, kind, action) {
				m.deny(w, r, p, kind.String(), action.String(), 0, ErrRoleDenied)
				return
			}

			instanceID, idOK := instanceIDParam(r)
			if !idOK && p.Role != RoleConsultoria {
				// Malformed path id: fail closed for tenant-scoped roles.
				m.deny(w, r, p, kind.String(), action.String(), 0, ErrScopeDenied)
				return
			}

			inScope, err := m.Scope.InScope(r.Context(), p, kind, instanceID, action)
			if err != nil {
				// Lookup failure resolves to deny; logged as an internal
				// error for operability, a plain 403 to the caller.
				m.Logger.Error("scope lookup failed",
					slog.Int64("principal_id", p.ID),
					slog.String("resource", kind.String()),
					slog.Any("error", err))
				m.deny(w, r, p, kind.String(), action.String(), instanceID, ErrScopeDenied)
				return
			}
			if !inScope {
				m.deny(w, r, p, kind.String(), action.String(), instanceID, ErrScopeDenied)
				return
			}

			if owned && p.Role != RoleConsultoria {
				isOwner, err := m.Ownership.IsOwner(r.Context(), p, kind, instanceID)
				if err != nil {
					m.Logger.Error("ownership lookup failed",
						slog.Int64("principal_id", p.ID),
						slog.String("resource", kind.String()),
						slog.Any("error", err))
					m.deny(w, r, p, kind.String(), action.String(), instanceID, ErrOwnershipDenied)
					return
				}
				if !isOwner {
					m.deny(w, r, p, kind.String(), action.String(), instanceID, ErrOwnershipDenied)
					return
				}
			}

			if m.Metrics != nil {
				m.Metrics.ObserveDecision("authorized", true)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) deny(w http.ResponseWriter, r *http.Request, p Principal, resource, action string, instanceID int64, err error) {
	stage := StageFor(err)
	m.Logger.Warn("authorization denied",
		slog.Int64("principal_id", p.ID),
		slog.String("role", string(p.Role)),
		slog.String("resource", resource),
		slog.String("action", action),
		slog.String("stage", stage))
	if m.Metrics != nil {
		m.Metrics.ObserveDecision(stage, false)
	}
	if m.Audit != nil && p.ID != 0 {
		m.Audit.RecordDenial(r.Context(), Denial{
			PrincipalID: p.ID,
			Role:        p.Role,
			Resource:    resource,
			Action:      action,
			Stage:       stage,
			InstanceID:  instanceID,
			RequestID:   chimw.GetReqID(r.Context()),
		})
	}
	httpx.Error(w, StatusFor(err), MessageFor(err))
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// instanceIDParam extracts the {id} path parameter. Zero with ok means the
// route has no instance id (collection-level operation).
func instanceIDParam(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
