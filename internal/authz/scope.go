package authz

import "context"

// Directory is the data-access collaborator the scope and ownership checks
// depend on. Implementations perform read-only lookups and may block on I/O;
// callers bound them with the request context deadline.
type Directory interface {
	// CompanyIDOfResource resolves the company that owns the given resource
	// instance. found is false when the record does not exist.
	CompanyIDOfResource(ctx context.Context, kind Resource, id int64) (companyID int64, found bool, err error)
	// OwningEmployeeID resolves the employee a resource instance belongs to
	// (the occurrence's employee, the feedback's author).
	OwningEmployeeID(ctx context.Context, kind Resource, id int64) (employeeID int64, found bool, err error)
}

// ScopeResolver decides whether a resource instance falls inside the
// principal's tenant boundary. It is side-effect free apart from the
// read-only directory lookup.
type ScopeResolver struct {
	dir Directory
}

// NewScopeResolver constructs a ScopeResolver.
func NewScopeResolver(dir Directory) *ScopeResolver {
	return &ScopeResolver{dir: dir}
}

// InScope reports whether the instance is inside the principal's tenant
// scope for the given action. instanceID zero means a collection-level
// request, which passes the gate; filtering a listing to the caller's tenant
// is the endpoint's responsibility.
//
// Any directory error resolves to deny and is returned alongside so the
// caller can log the lookup failure distinctly. A missing record denies
// silently: fail closed, no oracle.
func (s *ScopeResolver) InScope(ctx context.Context, p Principal, kind Resource, instanceID int64, action Action) (bool, error) {
	switch p.Role {
	case RoleConsultoria:
		return true, nil
	case RoleEmpresa:
		return s.empresaInScope(ctx, p, kind, instanceID)
	case RoleColaborador:
		return s.colaboradorInScope(ctx, p, kind, instanceID, action)
	}
	return false, nil
}

func (s *ScopeResolver) empresaInScope(ctx context.Context, p Principal, kind Resource, instanceID int64) (bool, error) {
	if instanceID == 0 {
		return true, nil
	}
	// An empresa principal may only ever touch its own company row.
	if kind == ResourceCompanies {
		return instanceID == p.CompanyID, nil
	}
	return s.sameCompany(ctx, p, kind, instanceID)
}

func (s *ScopeResolver) colaboradorInScope(ctx context.Context, p Principal, kind Resource, instanceID int64, action Action) (bool, error) {
	if instanceID == 0 {
		// Collection reads are filtered downstream; creates target the
		// principal's own sub-resources.
		return true, nil
	}
	if instanceID == p.ReferenceID {
		return true, nil
	}
	if action.IsWrite() {
		// Cross-colleague writes are always denied, company membership
		// notwithstanding.
		return false, nil
	}
	// Colleague visibility: reads are allowed within the same company.
	return s.sameCompany(ctx, p, kind, instanceID)
}

func (s *ScopeResolver) sameCompany(ctx context.Context, p Principal, kind Resource, instanceID int64) (bool, error) {
	companyID, found, err := s.dir.CompanyIDOfResource(ctx, kind, instanceID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return companyID == p.CompanyID, nil
}
