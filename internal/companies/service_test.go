package companies_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vettore-hr/vettore/internal/authz"
	"github.com/vettore-hr/vettore/internal/companies"
	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

type stubRepo struct {
	rows map[int64]companies.Company
}

func newStubRepo(rows ...companies.Company) *stubRepo {
	repo := &stubRepo{rows: map[int64]companies.Company{}}
	for _, row := range rows {
		repo.rows[row.ID] = row
	}
	return repo
}

func (s *stubRepo) Get(_ context.Context, id int64) (*companies.Company, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &row, nil
}

func (s *stubRepo) List(_ context.Context, _ int64, _, _ int) ([]companies.Company, int, error) {
	var result []companies.Company
	for _, row := range s.rows {
		result = append(result, row)
	}
	return result, len(result), nil
}

func (s *stubRepo) Create(_ context.Context, c companies.Company) (int64, error) {
	id := int64(len(s.rows) + 1)
	c.ID = id
	s.rows[id] = c
	return id, nil
}

func (s *stubRepo) Update(_ context.Context, c companies.Company) error {
	if _, ok := s.rows[c.ID]; !ok {
		return httpx.ErrNotFound
	}
	s.rows[c.ID] = c
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.rows[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func active(id int64) companies.Company {
	return companies.Company{ID: id, ConsultingFirmID: 1, Name: "Acme Consult", TaxID: "001", IsActive: true}
}

func TestEmpresaCannotDeactivateItself(t *testing.T) {
	repo := newStubRepo(active(10))
	service := companies.NewService(repo)
	p := authz.Principal{ID: 2, Role: authz.RoleEmpresa, CompanyID: 10}

	inactive := false
	_, err := service.Update(context.Background(), p, 10, companies.UpdateCompanyRequest{IsActive: &inactive})
	require.True(t, errors.Is(err, httpx.ErrForbidden))

	got, getErr := repo.Get(context.Background(), 10)
	require.NoError(t, getErr)
	require.True(t, got.IsActive)
}

func TestEmpresaCanUpdateOwnDetails(t *testing.T) {
	repo := newStubRepo(active(10))
	service := companies.NewService(repo)
	p := authz.Principal{ID: 2, Role: authz.RoleEmpresa, CompanyID: 10}

	name := "Acme Reworked"
	got, err := service.Update(context.Background(), p, 10, companies.UpdateCompanyRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Acme Reworked", got.Name)
	require.True(t, got.IsActive)
}

func TestConsultoriaCanDeactivateCompany(t *testing.T) {
	repo := newStubRepo(active(10))
	service := companies.NewService(repo)
	p := authz.Principal{ID: 1, Role: authz.RoleConsultoria, ConsultingFirmID: 1}

	inactive := false
	got, err := service.Update(context.Background(), p, 10, companies.UpdateCompanyRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestEmpresaListReturnsOwnCompanyOnly(t *testing.T) {
	repo := newStubRepo(active(10), active(11))
	service := companies.NewService(repo)
	p := authz.Principal{ID: 2, Role: authz.RoleEmpresa, CompanyID: 10}

	list, total, err := service.List(context.Background(), p, 50, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, list, 1)
	require.Equal(t, int64(10), list[0].ID)
}

func TestUpdateMissingCompany(t *testing.T) {
	service := companies.NewService(newStubRepo())
	p := authz.Principal{ID: 1, Role: authz.RoleConsultoria, ConsultingFirmID: 1}

	name := "x"
	_, err := service.Update(context.Background(), p, 99, companies.UpdateCompanyRequest{Name: &name})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
