// Package auth implements credential verification and the session token
// endpoints: login, refresh and logout.
package auth

import (
	"errors"
	"time"
)

// ErrInvalidCredentials indicates login failure. The same error covers
// unknown emails, wrong passwords and deactivated accounts so responses do
// not reveal which one happened.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// ErrSessionRevoked indicates a refresh token whose server-side session no
// longer exists.
var ErrSessionRevoked = errors.New("auth: session revoked")

// User is an account row as stored by the data layer.
type User struct {
	ID               int64
	Email            string
	PasswordHash     string
	Role             string
	CompanyID        *int64
	ConsultingFirmID *int64
	ReferenceID      *int64
	IsActive         bool
	CreatedAt        time.Time
}

// Session is the server-side record of an issued refresh token, keyed by the
// token's jti. Logout deletes it; the worker purges expired rows.
type Session struct {
	JTI       string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
