package authz_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/vettore-hr/vettore/internal/authz"
)

func newTokenService(t *testing.T, now func() time.Time) *authz.TokenService {
	t.Helper()
	svc, err := authz.NewTokenService(authz.TokenConfig{
		Secret: "test-secret",
		Now:    now,
	})
	require.NoError(t, err)
	return svc
}

func empresaPrincipal() authz.Principal {
	return authz.Principal{ID: 7, Email: "rh@empresa.test", Role: authz.RoleEmpresa, CompanyID: 10}
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	_, err := authz.NewTokenService(authz.TokenConfig{})
	require.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := newTokenService(t, nil)

	p := authz.Principal{ID: 3, Email: "ana@colab.test", Role: authz.RoleColaborador, CompanyID: 10, ReferenceID: 55}
	token, err := svc.Issue(p)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := newTokenService(t, nil)
	other, err := authz.NewTokenService(authz.TokenConfig{Secret: "other-secret"})
	require.NoError(t, err)

	token, err := other.Issue(empresaPrincipal())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, authz.ErrTokenInvalid)
}

func TestVerifyRejectsExpired(t *testing.T) {
	clock := time.Now()
	svc := newTokenService(t, func() time.Time { return clock })

	token, err := svc.Issue(empresaPrincipal())
	require.NoError(t, err)

	clock = clock.Add(25 * time.Hour)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, authz.ErrTokenExpired)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	svc := newTokenService(t, nil)

	claims := &authz.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 7,
		Role:   string(authz.RoleEmpresa),
		Use:    "access",
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(forged)
	require.ErrorIs(t, err, authz.ErrTokenInvalid)
}

func TestVerifyRejectsRefreshToken(t *testing.T) {
	svc := newTokenService(t, nil)

	refresh, _, err := svc.IssueRefresh(7)
	require.NoError(t, err)

	_, err = svc.Verify(refresh)
	require.ErrorIs(t, err, authz.ErrTokenInvalid)
}

func TestVerifyRefresh(t *testing.T) {
	clock := time.Now()
	svc := newTokenService(t, func() time.Time { return clock })

	refresh, jti, err := svc.IssueRefresh(7)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	userID, gotJTI, expiry, err := svc.VerifyRefresh(refresh)
	require.NoError(t, err)
	require.Equal(t, int64(7), userID)
	require.Equal(t, jti, gotJTI)
	require.WithinDuration(t, clock.Add(authz.DefaultRefreshTTL), expiry, time.Second)

	// An access token is never a valid refresh token.
	access, err := svc.Issue(empresaPrincipal())
	require.NoError(t, err)
	_, _, _, err = svc.VerifyRefresh(access)
	require.ErrorIs(t, err, authz.ErrTokenInvalid)
}

func TestNearExpiry(t *testing.T) {
	clock := time.Now()
	svc := newTokenService(t, func() time.Time { return clock })

	token, err := svc.Issue(empresaPrincipal())
	require.NoError(t, err)

	require.False(t, svc.NearExpiry(token, time.Hour))

	clock = clock.Add(23*time.Hour + 30*time.Minute)
	require.True(t, svc.NearExpiry(token, time.Hour))

	// Never fails: garbage reports false.
	require.False(t, svc.NearExpiry("not-a-token", time.Hour))
}
