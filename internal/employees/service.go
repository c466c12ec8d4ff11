package employees

import (
	"context"
	"fmt"

	"github.com/vettore-hr/vettore/internal/authz"
	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

// Service holds the employee business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of employees. Tenant roles are always pinned to their
// own company; Consultoria chooses the company via the request filter.
func (s *Service) List(ctx context.Context, p authz.Principal, req ListEmployeesRequest) ([]Employee, int, error) {
	if p.Role != authz.RoleConsultoria {
		req.CompanyID = p.CompanyID
	}
	if req.CompanyID == 0 {
		return nil, 0, fmt.Errorf("%w: companyId is required", httpx.ErrValidation)
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 50
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateEmployeeRequest) (*Employee, error) {
	id, err := s.repo.Create(ctx, Employee{
		CompanyID:    req.CompanyID,
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		Email:        req.Email,
		Position:     req.Position,
		HiredAt:      req.HiredAt,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (*Employee, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DepartmentID != nil {
		current.DepartmentID = req.DepartmentID
	}
	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Email != nil {
		current.Email = *req.Email
	}
	if req.Position != nil {
		current.Position = req.Position
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, *current); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
