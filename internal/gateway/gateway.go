// Package gateway defines the client interface to the external identity
// platform. Account lifecycle, credential verification, token minting, and
// revocation bookkeeping all live on the platform side; this service only
// calls it and classifies the outcomes.
package gateway

import (
	"context"
	"errors"
	"time"
)

// Typed discriminants for gateway failures. Callers branch on these with
// errors.Is instead of matching message substrings.
var (
	// ErrUserNotFound means no identity exists for the given email or uid.
	ErrUserNotFound = errors.New("identity not found")

	// ErrTokenRevoked means the session token was valid but its refresh
	// tokens have been revoked (the session was logged out).
	ErrTokenRevoked = errors.New("session token revoked")

	// ErrTokenInvalid covers every other verification failure: malformed,
	// expired, wrong audience, bad signature.
	ErrTokenInvalid = errors.New("session token invalid")
)

// UserRecord is the platform's view of an identity.
type UserRecord struct {
	UID         string
	Email       string
	DisplayName string
	Disabled    bool
}

// Token holds the decoded claims of a verified session token.
type Token struct {
	UID     string
	Email   string
	Expires time.Time
}

// ExchangeResult is the payload returned when a custom token is exchanged
// for a session token.
type ExchangeResult struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// Identity is the client interface to the identity platform.
type Identity interface {
	// GetUserByEmail looks up an identity by email. Returns ErrUserNotFound
	// when no identity is bound to the address.
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)

	// CreateUser creates a new identity with the given credentials.
	CreateUser(ctx context.Context, email, password, displayName string) (*UserRecord, error)

	// CustomToken mints a short-lived custom exchange token for uid.
	CustomToken(ctx context.Context, uid string) (string, error)

	// VerifyToken verifies a session token. With checkRevoked the platform
	// also consults its revocation bookkeeping; without it, only signature
	// and expiry are checked. Returns ErrTokenRevoked or ErrTokenInvalid.
	VerifyToken(ctx context.Context, idToken string, checkRevoked bool) (*Token, error)

	// RevokeRefreshTokens revokes all refresh tokens for uid, which makes
	// every outstanding session token fail revocation-checked verification.
	// Revoking an already-revoked identity succeeds.
	RevokeRefreshTokens(ctx context.Context, uid string) error

	// DeleteUser removes the identity from the platform.
	DeleteUser(ctx context.Context, uid string) error

	// ExchangeCustomToken trades a custom exchange token for a session
	// token via the platform's REST sign-in endpoint.
	ExchangeCustomToken(ctx context.Context, customToken string) (*ExchangeResult, error)
}
