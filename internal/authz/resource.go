package authz

// Resource enumerates the protected resource kinds. Route registration passes
// one of these constants explicitly, so dispatch over resource kinds is
// closed and exhaustively matchable.
type Resource int

const (
	ResourceCompanies Resource = iota + 1
	ResourceDepartments
	ResourceEmployees
	ResourceOccurrences
	ResourceTrainings
	ResourceFeedbacks
	ResourceEvaluations
	ResourcePDIs
	ResourceConsultingFirm
)

// Resources lists every known resource kind, in declaration order.
func Resources() []Resource {
	return []Resource{
		ResourceCompanies,
		ResourceDepartments,
		ResourceEmployees,
		ResourceOccurrences,
		ResourceTrainings,
		ResourceFeedbacks,
		ResourceEvaluations,
		ResourcePDIs,
		ResourceConsultingFirm,
	}
}

func (r Resource) String() string {
	switch r {
	case ResourceCompanies:
		return "companies"
	case ResourceDepartments:
		return "departments"
	case ResourceEmployees:
		return "employees"
	case ResourceOccurrences:
		return "occurrences"
	case ResourceTrainings:
		return "trainings"
	case ResourceFeedbacks:
		return "feedbacks"
	case ResourceEvaluations:
		return "evaluations"
	case ResourcePDIs:
		return "pdis"
	case ResourceConsultingFirm:
		return "consultingFirm"
	}
	return "unknown"
}

// Action is the capability being exercised on a resource.
type Action int

const (
	ActionCreate Action = iota + 1
	ActionRead
	ActionUpdate
	ActionDelete
)

// Actions lists every action.
func Actions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
}

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionRead:
		return "read"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// IsWrite reports whether the action mutates state. Colaborador scope rules
// distinguish reads from writes.
func (a Action) IsWrite() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}
