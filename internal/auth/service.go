package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vettore-hr/vettore/internal/authz"
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Service wraps authentication business rules.
type Service struct {
	repo        Repository
	tokens      *authz.TokenService
	revocations *RevocationList
	accessTTL   time.Duration
}

// NewService constructs a Service. The revocation list may be nil, in which
// case logout only invalidates the refresh session.
func NewService(repo Repository, tokens *authz.TokenService, revocations *RevocationList, accessTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = authz.DefaultAccessTTL
	}
	return &Service{repo: repo, tokens: tokens, revocations: revocations, accessTTL: accessTTL}
}

// Login validates credentials and mints an access/refresh token pair. The
// refresh token's jti is recorded server-side so it can be invalidated
// before expiry.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	principal, err := PrincipalFor(user)
	if err != nil {
		return TokenPair{}, err
	}
	access, err := s.tokens.Issue(principal)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: issue access token: %w", err)
	}
	refresh, jti, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: issue refresh token: %w", err)
	}
	_, _, expiresAt, err := s.tokens.VerifyRefresh(refresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: verify issued refresh token: %w", err)
	}
	if err := s.repo.CreateSession(ctx, jti, user.ID, expiresAt); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. Access
// tokens presented here fail token verification; refresh tokens whose
// session was revoked fail with ErrSessionRevoked.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, jti, _, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	active, err := s.repo.SessionActive(ctx, jti)
	if err != nil {
		return "", err
	}
	if !active {
		return "", ErrSessionRevoked
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		return "", ErrSessionRevoked
	}
	principal, err := PrincipalFor(user)
	if err != nil {
		return "", err
	}
	access, err := s.tokens.Issue(principal)
	if err != nil {
		return "", fmt.Errorf("auth: issue access token: %w", err)
	}
	return access, nil
}

// Logout invalidates the presented refresh session and puts the current
// access token on the revocation list for the remainder of its lifetime.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if refreshToken != "" {
		if _, jti, _, err := s.tokens.VerifyRefresh(refreshToken); err == nil {
			if err := s.repo.DeleteSession(ctx, jti); err != nil {
				return err
			}
		}
	}
	if s.revocations != nil && accessToken != "" {
		if jti, expiresAt, err := s.tokens.JTI(accessToken); err == nil {
			if err := s.revocations.Revoke(ctx, jti, expiresAt); err != nil {
				return err
			}
		}
	}
	return nil
}

// PrincipalFor maps a user row to the authorization principal encoded into
// its tokens.
func PrincipalFor(user *User) (authz.Principal, error) {
	role, err := authz.ParseRole(user.Role)
	if err != nil {
		return authz.Principal{}, err
	}
	p := authz.Principal{ID: user.ID, Email: user.Email, Role: role}
	if user.CompanyID != nil {
		p.CompanyID = *user.CompanyID
	}
	if user.ConsultingFirmID != nil {
		p.ConsultingFirmID = *user.ConsultingFirmID
	}
	if user.ReferenceID != nil {
		p.ReferenceID = *user.ReferenceID
	}
	if err := p.Validate(); err != nil {
		return authz.Principal{}, errors.Join(errors.New("auth: user record inconsistent with role"), err)
	}
	return p, nil
}
