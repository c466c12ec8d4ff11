package authz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vettore-hr/vettore/internal/authz"
)

// expectedGrants enumerates the full production table. Every role, resource
// and action combination not listed here must deny.
var expectedGrants = map[authz.Role]map[authz.Resource][]authz.Action{
	authz.RoleConsultoria: {
		authz.ResourceCompanies:      {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceEmployees:      {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceDepartments:    {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceOccurrences:    {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceTrainings:      {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceFeedbacks:      {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceEvaluations:    {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourcePDIs:           {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceConsultingFirm: {authz.ActionRead, authz.ActionUpdate},
	},
	authz.RoleEmpresa: {
		authz.ResourceCompanies:   {authz.ActionRead},
		authz.ResourceEmployees:   {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceDepartments: {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceOccurrences: {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceTrainings:   {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceFeedbacks:   {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourceEvaluations: {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
		authz.ResourcePDIs:        {authz.ActionCreate, authz.ActionRead, authz.ActionUpdate, authz.ActionDelete},
	},
	authz.RoleColaborador: {
		authz.ResourceEmployees:   {authz.ActionRead},
		authz.ResourceDepartments: {authz.ActionRead},
		authz.ResourceEvaluations: {authz.ActionRead},
		authz.ResourceOccurrences: {authz.ActionRead},
		authz.ResourceTrainings:   {authz.ActionRead},
		authz.ResourceFeedbacks:   {authz.ActionCreate, authz.ActionRead},
		authz.ResourcePDIs:        {authz.ActionRead, authz.ActionUpdate},
	},
}

func TestDefaultMatrixExhaustive(t *testing.T) {
	matrix := authz.DefaultMatrix()
	roles := []authz.Role{authz.RoleConsultoria, authz.RoleEmpresa, authz.RoleColaborador}

	for _, role := range roles {
		for _, resource := range authz.Resources() {
			for _, action := range authz.Actions() {
				want := false
				for _, granted := range expectedGrants[role][resource] {
					if granted == action {
						want = true
						break
					}
				}
				got := matrix.Allows(role, resource, action)
				require.Equalf(t, want, got,
					"role=%s resource=%s action=%s", role, resource, action)
			}
		}
	}
}

func TestMatrixDefaultDeny(t *testing.T) {
	matrix := authz.DefaultMatrix()

	require.False(t, matrix.Allows(authz.Role("manager"), authz.ResourceCompanies, authz.ActionRead))
	require.False(t, matrix.Allows(authz.RoleEmpresa, authz.Resource(99), authz.ActionRead))
	require.False(t, matrix.Allows(authz.RoleEmpresa, authz.ResourceConsultingFirm, authz.ActionRead))
}

func TestMatrixIdempotent(t *testing.T) {
	matrix := authz.DefaultMatrix()

	first := matrix.Allows(authz.RoleColaborador, authz.ResourcePDIs, authz.ActionUpdate)
	second := matrix.Allows(authz.RoleColaborador, authz.ResourcePDIs, authz.ActionUpdate)
	require.True(t, first)
	require.Equal(t, first, second)
}

func TestCustomGrants(t *testing.T) {
	matrix := authz.NewMatrix(
		authz.Grant{Role: authz.RoleColaborador, Resource: authz.ResourceTrainings, Actions: []authz.Action{authz.ActionCreate}},
	)
	require.True(t, matrix.Allows(authz.RoleColaborador, authz.ResourceTrainings, authz.ActionCreate))
	require.False(t, matrix.Allows(authz.RoleColaborador, authz.ResourceTrainings, authz.ActionRead))
}
