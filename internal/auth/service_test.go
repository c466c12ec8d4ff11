package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vettore-hr/vettore/internal/auth"
	"github.com/vettore-hr/vettore/internal/authz"
)

type stubRepo struct {
	users    map[string]*auth.User
	sessions map[string]time.Time
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: map[string]*auth.User{}, sessions: map[string]time.Time{}}
}

func (s *stubRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	return user, nil
}

func (s *stubRepo) FindByID(_ context.Context, id int64) (*auth.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, auth.ErrInvalidCredentials
}

func (s *stubRepo) CreateSession(_ context.Context, jti string, _ int64, expiresAt time.Time) error {
	s.sessions[jti] = expiresAt
	return nil
}

func (s *stubRepo) SessionActive(_ context.Context, jti string) (bool, error) {
	_, ok := s.sessions[jti]
	return ok, nil
}

func (s *stubRepo) DeleteSession(_ context.Context, jti string) error {
	delete(s.sessions, jti)
	return nil
}

func (s *stubRepo) DeleteExpiredSessions(_ context.Context, before time.Time) (int64, error) {
	var deleted int64
	for jti, expiresAt := range s.sessions {
		if expiresAt.Before(before) {
			delete(s.sessions, jti)
			deleted++
		}
	}
	return deleted, nil
}

func newService(t *testing.T, repo auth.Repository) (*auth.Service, *auth.RevocationList, *authz.TokenService) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	tokens, err := authz.NewTokenService(authz.TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)

	revocations := auth.NewRevocationList(redisClient)
	return auth.NewService(repo, tokens, revocations, time.Hour), revocations, tokens
}

func seedUser(t *testing.T, repo *stubRepo, email, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	companyID := int64(10)
	user := &auth.User{
		ID:           7,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         string(authz.RoleEmpresa),
		CompanyID:    &companyID,
		IsActive:     true,
	}
	repo.users[email] = user
	return user
}

func TestLoginIssuesTokenPair(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rh@empresa.test", "correct-horse")
	service, _, tokens := newService(t, repo)

	pair, err := service.Login(context.Background(), "rh@empresa.test", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, int64(3600), pair.ExpiresIn)

	p, err := tokens.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, authz.RoleEmpresa, p.Role)
	require.Equal(t, int64(10), p.CompanyID)

	// The refresh session was recorded under its jti.
	_, jti, _, err := tokens.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Contains(t, repo.sessions, jti)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rh@empresa.test", "correct-horse")
	service, _, _ := newService(t, repo)

	_, err := service.Login(context.Background(), "rh@empresa.test", "battery-staple")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = service.Login(context.Background(), "nobody@empresa.test", "correct-horse")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	repo := newStubRepo()
	user := seedUser(t, repo, "rh@empresa.test", "correct-horse")
	user.IsActive = false
	service, _, _ := newService(t, repo)

	_, err := service.Login(context.Background(), "rh@empresa.test", "correct-horse")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshMintsNewAccessToken(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rh@empresa.test", "correct-horse")
	service, _, tokens := newService(t, repo)

	pair, err := service.Login(context.Background(), "rh@empresa.test", "correct-horse")
	require.NoError(t, err)

	access, err := service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	_, err = tokens.Verify(access)
	require.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rh@empresa.test", "correct-horse")
	service, _, _ := newService(t, repo)

	pair, err := service.Login(context.Background(), "rh@empresa.test", "correct-horse")
	require.NoError(t, err)

	_, err = service.Refresh(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, authz.ErrTokenInvalid)
}

func TestRefreshRejectsRevokedSession(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rh@empresa.test", "correct-horse")
	service, _, _ := newService(t, repo)

	pair, err := service.Login(context.Background(), "rh@empresa.test", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), "", pair.RefreshToken))

	_, err = service.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrSessionRevoked)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rh@empresa.test", "correct-horse")
	service, revocations, tokens := newService(t, repo)

	pair, err := service.Login(context.Background(), "rh@empresa.test", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), pair.AccessToken, pair.RefreshToken))

	jti, _, err := tokens.JTI(pair.AccessToken)
	require.NoError(t, err)
	revoked, err := revocations.IsRevoked(context.Background(), jti)
	require.NoError(t, err)
	require.True(t, revoked)
	require.Empty(t, repo.sessions)
}

func TestLogoutOfDeadSessionSucceeds(t *testing.T) {
	repo := newStubRepo()
	service, _, _ := newService(t, repo)

	require.NoError(t, service.Logout(context.Background(), "garbage", "garbage"))
}
