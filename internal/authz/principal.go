// Package authz implements the authorization core: token verification,
// the static permission matrix, tenant scoping, ownership checks and the
// request middleware that composes them.
package authz

import (
	"context"
	"errors"
	"fmt"
)

// Role identifies the single role carried by a session.
type Role string

const (
	// RoleConsultoria has full access across every tenant it manages.
	RoleConsultoria Role = "consultoria"
	// RoleEmpresa is scoped to a single company.
	RoleEmpresa Role = "empresa"
	// RoleColaborador is scoped to a single employee record within a company.
	RoleColaborador Role = "colaborador"
)

// ParseRole converts the wire representation into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleConsultoria, RoleEmpresa, RoleColaborador:
		return Role(s), nil
	}
	return "", fmt.Errorf("authz: unknown role %q", s)
}

// Principal is the authenticated actor for one request. It is built from a
// verified token, lives for the duration of the request and is never cached
// across requests.
type Principal struct {
	ID    int64
	Email string
	Role  Role

	// CompanyID is set for empresa and colaborador principals.
	CompanyID int64
	// ConsultingFirmID is set for consultoria principals.
	ConsultingFirmID int64
	// ReferenceID is the employee record backing a colaborador principal.
	ReferenceID int64
}

// Validate enforces the role/tenant consistency invariant: exactly one of
// the consulting firm or company bindings is present, matching the role.
func (p Principal) Validate() error {
	if p.ID <= 0 {
		return errors.New("authz: principal id required")
	}
	switch p.Role {
	case RoleConsultoria:
		if p.ConsultingFirmID <= 0 || p.CompanyID != 0 {
			return errors.New("authz: consultoria principal must carry only a consulting firm")
		}
	case RoleEmpresa:
		if p.CompanyID <= 0 || p.ConsultingFirmID != 0 {
			return errors.New("authz: empresa principal must carry only a company")
		}
	case RoleColaborador:
		if p.CompanyID <= 0 || p.ConsultingFirmID != 0 {
			return errors.New("authz: colaborador principal must carry only a company")
		}
		if p.ReferenceID <= 0 {
			return errors.New("authz: colaborador principal must carry an employee reference")
		}
	default:
		return fmt.Errorf("authz: unknown role %q", p.Role)
	}
	return nil
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in the request context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal placed by the middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
