package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vettore-hr/vettore/internal/authz"
)

// fakeDirectory serves canned lookups keyed by instance id.
type fakeDirectory struct {
	companyByID  map[int64]int64
	employeeByID map[int64]int64
	err          error
}

func (d *fakeDirectory) CompanyIDOfResource(_ context.Context, _ authz.Resource, id int64) (int64, bool, error) {
	if d.err != nil {
		return 0, false, d.err
	}
	companyID, ok := d.companyByID[id]
	return companyID, ok, nil
}

func (d *fakeDirectory) OwningEmployeeID(_ context.Context, _ authz.Resource, id int64) (int64, bool, error) {
	if d.err != nil {
		return 0, false, d.err
	}
	employeeID, ok := d.employeeByID[id]
	return employeeID, ok, nil
}

func consultoria() authz.Principal {
	return authz.Principal{ID: 1, Role: authz.RoleConsultoria, ConsultingFirmID: 1}
}

func empresa(companyID int64) authz.Principal {
	return authz.Principal{ID: 2, Role: authz.RoleEmpresa, CompanyID: companyID}
}

func colaborador(companyID, referenceID int64) authz.Principal {
	return authz.Principal{ID: 3, Role: authz.RoleColaborador, CompanyID: companyID, ReferenceID: referenceID}
}

func TestConsultoriaAlwaysInScope(t *testing.T) {
	resolver := authz.NewScopeResolver(&fakeDirectory{err: errors.New("must not be called")})

	for _, id := range []int64{0, 1, 999} {
		ok, err := resolver.InScope(context.Background(), consultoria(), authz.ResourceEmployees, id, authz.ActionDelete)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestEmpresaScope(t *testing.T) {
	dir := &fakeDirectory{companyByID: map[int64]int64{55: 10, 66: 11}}
	resolver := authz.NewScopeResolver(dir)
	ctx := context.Background()

	// Collection requests pass; filtering happens downstream.
	ok, err := resolver.InScope(ctx, empresa(10), authz.ResourceEmployees, 0, authz.ActionRead)
	require.NoError(t, err)
	require.True(t, ok)

	// Same company allows, other company denies.
	ok, err = resolver.InScope(ctx, empresa(10), authz.ResourceEmployees, 55, authz.ActionUpdate)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = resolver.InScope(ctx, empresa(10), authz.ResourceEmployees, 66, authz.ActionUpdate)
	require.NoError(t, err)
	require.False(t, ok)

	// The companies resource compares directly against the principal.
	ok, err = resolver.InScope(ctx, empresa(10), authz.ResourceCompanies, 10, authz.ActionRead)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = resolver.InScope(ctx, empresa(10), authz.ResourceCompanies, 11, authz.ActionRead)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestColaboradorScope(t *testing.T) {
	dir := &fakeDirectory{companyByID: map[int64]int64{70: 10, 80: 11}}
	resolver := authz.NewScopeResolver(dir)
	ctx := context.Background()
	p := colaborador(10, 42)

	// Own record always passes.
	ok, err := resolver.InScope(ctx, p, authz.ResourceEmployees, 42, authz.ActionUpdate)
	require.NoError(t, err)
	require.True(t, ok)

	// Colleague visibility: same-company reads pass.
	ok, err = resolver.InScope(ctx, p, authz.ResourceOccurrences, 70, authz.ActionRead)
	require.NoError(t, err)
	require.True(t, ok)

	// Cross-company reads deny.
	ok, err = resolver.InScope(ctx, p, authz.ResourceOccurrences, 80, authz.ActionRead)
	require.NoError(t, err)
	require.False(t, ok)

	// Cross-colleague writes deny even within the company.
	ok, err = resolver.InScope(ctx, p, authz.ResourceOccurrences, 70, authz.ActionUpdate)
	require.NoError(t, err)
	require.False(t, ok)

	// Collection-level requests pass.
	ok, err = resolver.InScope(ctx, p, authz.ResourceFeedbacks, 0, authz.ActionCreate)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestScopeMissingRecordDenies(t *testing.T) {
	resolver := authz.NewScopeResolver(&fakeDirectory{companyByID: map[int64]int64{}})

	ok, err := resolver.InScope(context.Background(), empresa(10), authz.ResourceEmployees, 123, authz.ActionRead)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScopeLookupErrorFailsClosed(t *testing.T) {
	lookupErr := errors.New("connection reset")
	resolver := authz.NewScopeResolver(&fakeDirectory{err: lookupErr})

	ok, err := resolver.InScope(context.Background(), empresa(10), authz.ResourceEmployees, 55, authz.ActionRead)
	require.ErrorIs(t, err, lookupErr)
	require.False(t, ok)
}

func TestScopeIdempotent(t *testing.T) {
	dir := &fakeDirectory{companyByID: map[int64]int64{55: 10}}
	resolver := authz.NewScopeResolver(dir)
	ctx := context.Background()

	first, err := resolver.InScope(ctx, empresa(10), authz.ResourceEmployees, 55, authz.ActionRead)
	require.NoError(t, err)
	second, err := resolver.InScope(ctx, empresa(10), authz.ResourceEmployees, 55, authz.ActionRead)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
