package authz

import (
	"errors"
	"net/http"
)

// Denial sentinels. Each maps to one stage of the decision chain and one
// HTTP status. Response bodies stay generic so callers cannot enumerate
// valid resource ids through differing error text.
var (
	ErrUnauthenticated = errors.New("authz: authentication required")
	ErrTokenInvalid    = errors.New("authz: invalid token")
	ErrTokenExpired    = errors.New("authz: token expired")
	ErrRoleDenied      = errors.New("authz: role denied")
	ErrScopeDenied     = errors.New("authz: out of scope")
	ErrOwnershipDenied = errors.New("authz: not owner")
	ErrRateLimited     = errors.New("authz: rate limited")
)

// Stage names used in denial logs and metrics.
const (
	StageToken     = "token"
	StageRateLimit = "rate_limit"
	StageRole      = "role"
	StageScope     = "scope"
	StageOwnership = "ownership"
)

// StatusFor maps a denial to its HTTP status. Unknown errors are treated as
// forbidden rather than surfaced.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusForbidden
	}
}

// StageFor maps a denial to the stage that produced it.
func StageFor(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenExpired):
		return StageToken
	case errors.Is(err, ErrRateLimited):
		return StageRateLimit
	case errors.Is(err, ErrRoleDenied):
		return StageRole
	case errors.Is(err, ErrOwnershipDenied):
		return StageOwnership
	default:
		return StageScope
	}
}

// MessageFor returns the client-facing error string for a denial.
func MessageFor(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "token expired"
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrTokenInvalid):
		return "authentication required"
	case errors.Is(err, ErrRateLimited):
		return "too many requests"
	default:
		return "forbidden"
	}
}
