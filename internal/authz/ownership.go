package authz

import "context"

// OwnershipChecker applies the exact-ownership rules for the resource kinds
// where company scope alone is too coarse. Ownership checks are opt-in per
// route; consultoria principals never reach this checker (the middleware
// short-circuits them earlier).
type OwnershipChecker struct {
	dir Directory
}

// NewOwnershipChecker constructs an OwnershipChecker.
func NewOwnershipChecker(dir Directory) *OwnershipChecker {
	return &OwnershipChecker{dir: dir}
}

// IsOwner reports whether the principal directly owns the instance. Resource
// kinds without an ownership rule deny: every other layer in the chain
// defaults to deny, and a newly wired kind without a rule must not silently
// pass. Directory errors deny and are returned for distinct logging.
func (c *OwnershipChecker) IsOwner(ctx context.Context, p Principal, kind Resource, instanceID int64) (bool, error) {
	switch kind {
	case ResourceEmployees:
		return instanceID == p.ID || p.Role == RoleEmpresa, nil
	case ResourceOccurrences, ResourceFeedbacks:
		// Occurrences belong to the employee they record; feedbacks belong
		// to their author. Both resolve through the owning-employee lookup.
		employeeID, found, err := c.dir.OwningEmployeeID(ctx, kind, instanceID)
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
		return employeeID == p.ReferenceID, nil
	}
	return false, nil
}
