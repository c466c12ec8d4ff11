package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vettore-hr/vettore/internal/authz"
)

func TestEmployeeOwnership(t *testing.T) {
	checker := authz.NewOwnershipChecker(&fakeDirectory{})
	ctx := context.Background()

	// A colaborador owns only its own employee record.
	ok, err := checker.IsOwner(ctx, colaborador(10, 42), authz.ResourceEmployees, 3)
	require.NoError(t, err)
	require.True(t, ok) // principal id 3 matches instance 3

	ok, err = checker.IsOwner(ctx, colaborador(10, 42), authz.ResourceEmployees, 99)
	require.NoError(t, err)
	require.False(t, ok)

	// Empresa owns every employee record of its company.
	ok, err = checker.IsOwner(ctx, empresa(10), authz.ResourceEmployees, 99)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOccurrenceAndFeedbackOwnership(t *testing.T) {
	dir := &fakeDirectory{employeeByID: map[int64]int64{500: 42, 600: 77}}
	checker := authz.NewOwnershipChecker(dir)
	ctx := context.Background()
	p := colaborador(10, 42)

	ok, err := checker.IsOwner(ctx, p, authz.ResourceOccurrences, 500)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = checker.IsOwner(ctx, p, authz.ResourceOccurrences, 600)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = checker.IsOwner(ctx, p, authz.ResourceFeedbacks, 500)
	require.NoError(t, err)
	require.True(t, ok)

	// Missing record denies.
	ok, err = checker.IsOwner(ctx, p, authz.ResourceFeedbacks, 999)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOwnershipUnknownKindDenies(t *testing.T) {
	checker := authz.NewOwnershipChecker(&fakeDirectory{})

	ok, err := checker.IsOwner(context.Background(), empresa(10), authz.ResourceTrainings, 5)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOwnershipLookupErrorFailsClosed(t *testing.T) {
	lookupErr := errors.New("timeout")
	checker := authz.NewOwnershipChecker(&fakeDirectory{err: lookupErr})

	ok, err := checker.IsOwner(context.Background(), colaborador(10, 42), authz.ResourceOccurrences, 500)
	require.ErrorIs(t, err, lookupErr)
	require.False(t, ok)
}
