package authz

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"

	// DefaultAccessTTL is the lifetime of access tokens.
	DefaultAccessTTL = 24 * time.Hour
	// DefaultRefreshTTL is the lifetime of refresh tokens issued at login.
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var signingMethods = []string{jwt.SigningMethodHS256.Alg()}

// Claims is the JSON payload signed into session tokens. Access tokens carry
// the full principal; refresh tokens carry only the user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID           int64  `json:"id"`
	Email            string `json:"email,omitempty"`
	Role             string `json:"role,omitempty"`
	CompanyID        *int64 `json:"companyId,omitempty"`
	ConsultingFirmID *int64 `json:"consultingFirmId,omitempty"`
	ReferenceID      *int64 `json:"referenceId,omitempty"`
	Use              string `json:"use,omitempty"`
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// TokenService issues and verifies HS256 session tokens. Exactly one signing
// algorithm is accepted on verification; tokens signed with "none" or any
// other algorithm fail as invalid.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService constructs a TokenService. The signing secret is mandatory;
// callers treat a failure here as fatal at startup.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("authz: token signing secret required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}, nil
}

// Issue signs an access token for the principal's claims.
func (s *TokenService) Issue(p Principal) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			ID:        uuid.NewString(),
		},
		UserID: p.ID,
		Email:  p.Email,
		Role:   string(p.Role),
		Use:    tokenUseAccess,
	}
	switch p.Role {
	case RoleConsultoria:
		claims.ConsultingFirmID = &p.ConsultingFirmID
	case RoleEmpresa:
		claims.CompanyID = &p.CompanyID
	case RoleColaborador:
		claims.CompanyID = &p.CompanyID
		claims.ReferenceID = &p.ReferenceID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssueRefresh signs a refresh token carrying only the user id. Refresh
// tokens are minted at login and exchanged at the refresh endpoint; they are
// never accepted on resource endpoints.
func (s *TokenService) IssueRefresh(userID int64) (string, string, error) {
	if userID <= 0 {
		return "", "", errors.New("authz: user id required")
	}
	now := s.now()
	jti := uuid.NewString()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			ID:        jti,
		},
		UserID: userID,
		Use:    tokenUseRefresh,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

// Verify validates signature and expiry of an access token and rebuilds the
// principal. Returns ErrTokenExpired on expiry, ErrTokenInvalid on anything
// else, including refresh tokens presented as access tokens.
func (s *TokenService) Verify(token string) (Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return Principal{}, err
	}
	if claims.Use != tokenUseAccess {
		return Principal{}, ErrTokenInvalid
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return Principal{}, ErrTokenInvalid
	}
	p := Principal{ID: claims.UserID, Email: claims.Email, Role: role}
	if claims.CompanyID != nil {
		p.CompanyID = *claims.CompanyID
	}
	if claims.ConsultingFirmID != nil {
		p.ConsultingFirmID = *claims.ConsultingFirmID
	}
	if claims.ReferenceID != nil {
		p.ReferenceID = *claims.ReferenceID
	}
	if err := p.Validate(); err != nil {
		return Principal{}, ErrTokenInvalid
	}
	return p, nil
}

// VerifyRefresh validates a refresh token and returns the user id, the token
// id and its expiry.
func (s *TokenService) VerifyRefresh(token string) (int64, string, time.Time, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, "", time.Time{}, err
	}
	if claims.Use != tokenUseRefresh || claims.UserID <= 0 {
		return 0, "", time.Time{}, ErrTokenInvalid
	}
	return claims.UserID, claims.ID, claims.ExpiresAt.Time, nil
}

// NearExpiry reports whether the token expires within the window. It never
// fails: malformed or already invalid tokens report false, the caller simply
// gets no refresh hint.
func (s *TokenService) NearExpiry(token string, window time.Duration) bool {
	claims, err := s.parse(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Sub(s.now()) <= window
}

// JTI extracts the token id from a verified access token without
// re-validating claims semantics. Used by logout to revoke the access token.
func (s *TokenService) JTI(token string) (string, time.Time, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", time.Time{}, err
	}
	return claims.ID, claims.ExpiresAt.Time, nil
}

func (s *TokenService) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods(signingMethods), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
