package companies

import (
	"context"
	"fmt"

	"github.com/vettore-hr/vettore/internal/authz"
	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

// Service holds the company business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Company, error) {
	return s.repo.Get(ctx, id)
}

// List returns companies. Consultoria sees every company of its firm;
// Empresa sees only its own record.
func (s *Service) List(ctx context.Context, p authz.Principal, limit, offset int) ([]Company, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if p.Role == authz.RoleEmpresa {
		c, err := s.repo.Get(ctx, p.CompanyID)
		if err != nil {
			return nil, 0, err
		}
		return []Company{*c}, 1, nil
	}
	return s.repo.List(ctx, p.ConsultingFirmID, limit, offset)
}

func (s *Service) Create(ctx context.Context, req CreateCompanyRequest) (*Company, error) {
	id, err := s.repo.Create(ctx, Company{
		ConsultingFirmID: req.ConsultingFirmID,
		Name:             req.Name,
		TaxID:            req.TaxID,
		ContactEmail:     req.ContactEmail,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Update applies a partial update. A company updating itself cannot flip its
// own record inactive; that would strand every session of the tenant.
func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, req UpdateCompanyRequest) (*Company, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive &&
		p.Role == authz.RoleEmpresa && p.CompanyID == id {
		return nil, fmt.Errorf("%w: a company cannot deactivate itself", httpx.ErrForbidden)
	}
	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.ContactEmail != nil {
		current.ContactEmail = req.ContactEmail
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
