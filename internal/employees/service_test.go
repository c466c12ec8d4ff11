package employees_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vettore-hr/vettore/internal/authz"
	"github.com/vettore-hr/vettore/internal/employees"
	"github.com/vettore-hr/vettore/internal/platform/httpx"
)

type stubRepo struct {
	rows    map[int64]employees.Employee
	lastReq employees.ListEmployeesRequest
}

func newStubRepo(rows ...employees.Employee) *stubRepo {
	repo := &stubRepo{rows: map[int64]employees.Employee{}}
	for _, row := range rows {
		repo.rows[row.ID] = row
	}
	return repo
}

func (s *stubRepo) Get(_ context.Context, id int64) (*employees.Employee, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &row, nil
}

func (s *stubRepo) List(_ context.Context, req employees.ListEmployeesRequest) ([]employees.Employee, int, error) {
	s.lastReq = req
	var result []employees.Employee
	for _, row := range s.rows {
		if row.CompanyID == req.CompanyID {
			result = append(result, row)
		}
	}
	return result, len(result), nil
}

func (s *stubRepo) Create(_ context.Context, e employees.Employee) (int64, error) {
	id := int64(len(s.rows) + 1)
	e.ID = id
	s.rows[id] = e
	return id, nil
}

func (s *stubRepo) Update(_ context.Context, e employees.Employee) error {
	if _, ok := s.rows[e.ID]; !ok {
		return httpx.ErrNotFound
	}
	s.rows[e.ID] = e
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.rows[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func TestListPinsTenantToOwnCompany(t *testing.T) {
	repo := newStubRepo(
		employees.Employee{ID: 1, CompanyID: 10, Name: "Ana"},
		employees.Employee{ID: 2, CompanyID: 11, Name: "Bruno"},
	)
	service := employees.NewService(repo)
	p := authz.Principal{ID: 2, Role: authz.RoleEmpresa, CompanyID: 10}

	// The request asks for another company; the service pins it anyway.
	list, total, err := service.List(context.Background(), p, employees.ListEmployeesRequest{CompanyID: 11})
	require.NoError(t, err)
	require.Equal(t, int64(10), repo.lastReq.CompanyID)
	require.Equal(t, 1, total)
	require.Equal(t, "Ana", list[0].Name)
}

func TestListRequiresCompanyForConsultoria(t *testing.T) {
	service := employees.NewService(newStubRepo())
	p := authz.Principal{ID: 1, Role: authz.RoleConsultoria, ConsultingFirmID: 1}

	_, _, err := service.List(context.Background(), p, employees.ListEmployeesRequest{})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := newStubRepo(employees.Employee{ID: 1, CompanyID: 10, Name: "Ana", Email: "ana@acme.test", IsActive: true})
	service := employees.NewService(repo)

	name := "Ana Souza"
	got, err := service.Update(context.Background(), 1, employees.UpdateEmployeeRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Ana Souza", got.Name)
	require.Equal(t, "ana@acme.test", got.Email)
	require.True(t, got.IsActive)
}

func TestUpdateMissingEmployee(t *testing.T) {
	service := employees.NewService(newStubRepo())

	name := "x"
	_, err := service.Update(context.Background(), 99, employees.UpdateEmployeeRequest{Name: &name})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
