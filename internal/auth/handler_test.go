package auth_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/vettore-hr/vettore/internal/auth"
)

func newAuthRouter(t *testing.T, repo auth.Repository) http.Handler {
	t.Helper()
	service, _, _ := newService(t, repo)
	handler := auth.NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), service)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestLoginEndpoint(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rh@empresa.test", "correct-horse")
	router := newAuthRouter(t, repo)

	body := `{"email":"rh@empresa.test","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"accessToken"`)
	require.Contains(t, res.Body.String(), `"refreshToken"`)
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rh@empresa.test", "correct-horse")
	router := newAuthRouter(t, repo)

	body := `{"email":"rh@empresa.test","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Contains(t, res.Body.String(), `"success":false`)
}

func TestLoginEndpointValidatesBody(t *testing.T) {
	router := newAuthRouter(t, newStubRepo())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRefreshEndpointRejectsGarbage(t *testing.T) {
	router := newAuthRouter(t, newStubRepo())

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refreshToken":"garbage"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLogoutEndpointAlwaysNoContent(t *testing.T) {
	router := newAuthRouter(t, newStubRepo())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(`{}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusNoContent, res.Code)
}
