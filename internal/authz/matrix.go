package authz

// Grant assigns a set of actions on one resource to one role.
type Grant struct {
	Role     Role
	Resource Resource
	Actions  []Action
}

type actionSet uint8

func (s actionSet) has(a Action) bool {
	return s&(1<<uint(a)) != 0
}

// Matrix is the static role to resource to action table. It is built once at
// startup from an explicit enumeration, injected where needed and never
// mutated afterwards, which makes unsynchronized concurrent reads safe.
// Absence of an entry means deny.
type Matrix struct {
	grants map[Role]map[Resource]actionSet
}

// NewMatrix builds a matrix from explicit grants. Tests substitute custom
// grant lists; production uses DefaultMatrix.
func NewMatrix(grants ...Grant) *Matrix {
	m := &Matrix{grants: make(map[Role]map[Resource]actionSet)}
	for _, g := range grants {
		byResource, ok := m.grants[g.Role]
		if !ok {
			byResource = make(map[Resource]actionSet)
			m.grants[g.Role] = byResource
		}
		set := byResource[g.Resource]
		for _, a := range g.Actions {
			set |= 1 << uint(a)
		}
		byResource[g.Resource] = set
	}
	return m
}

// Allows reports whether the role may perform the action on the resource
// kind. Unknown roles and resources deny.
func (m *Matrix) Allows(role Role, resource Resource, action Action) bool {
	byResource, ok := m.grants[role]
	if !ok {
		return false
	}
	return byResource[resource].has(action)
}

var (
	crud     = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	readOnly = []Action{ActionRead}
)

// DefaultMatrix returns the production permission table.
//
// Consultoria manages every tenant resource. Empresa manages everything
// inside its own company except the company row itself, which it may only
// read (self-update is a business rule layered on top, not a matrix grant).
// Colaborador mostly reads, authors feedbacks and updates its own PDIs.
func DefaultMatrix() *Matrix {
	return NewMatrix(
		Grant{RoleConsultoria, ResourceCompanies, crud},
		Grant{RoleConsultoria, ResourceEmployees, crud},
		Grant{RoleConsultoria, ResourceDepartments, crud},
		Grant{RoleConsultoria, ResourceOccurrences, crud},
		Grant{RoleConsultoria, ResourceTrainings, crud},
		Grant{RoleConsultoria, ResourceFeedbacks, crud},
		Grant{RoleConsultoria, ResourceEvaluations, crud},
		Grant{RoleConsultoria, ResourcePDIs, crud},
		Grant{RoleConsultoria, ResourceConsultingFirm, []Action{ActionRead, ActionUpdate}},

		Grant{RoleEmpresa, ResourceCompanies, readOnly},
		Grant{RoleEmpresa, ResourceEmployees, crud},
		Grant{RoleEmpresa, ResourceDepartments, crud},
		Grant{RoleEmpresa, ResourceOccurrences, crud},
		Grant{RoleEmpresa, ResourceTrainings, crud},
		Grant{RoleEmpresa, ResourceFeedbacks, crud},
		Grant{RoleEmpresa, ResourceEvaluations, crud},
		Grant{RoleEmpresa, ResourcePDIs, crud},

		Grant{RoleColaborador, ResourceEmployees, readOnly},
		Grant{RoleColaborador, ResourceDepartments, readOnly},
		Grant{RoleColaborador, ResourceEvaluations, readOnly},
		Grant{RoleColaborador, ResourceOccurrences, readOnly},
		Grant{RoleColaborador, ResourceTrainings, readOnly},
		Grant{RoleColaborador, ResourceFeedbacks, []Action{ActionCreate, ActionRead}},
		Grant{RoleColaborador, ResourcePDIs, []Action{ActionRead, ActionUpdate}},
	)
}
