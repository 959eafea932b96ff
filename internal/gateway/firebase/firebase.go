// Package firebase implements the identity gateway against Firebase
// Authentication, using the Admin SDK for account and token operations and
// the Identity Toolkit REST endpoint for custom-token exchange.
package firebase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/TuanVuuuu/petcare-api/internal/gateway"
	"github.com/TuanVuuuu/petcare-api/pkg/httpclient"
)

// defaultExchangeEndpoint is the Identity Toolkit sign-in endpoint used to
// trade a custom token for a session (ID) token.
const defaultExchangeEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithCustomToken"

// Client implements gateway.Identity backed by Firebase Authentication.
type Client struct {
	auth             *auth.Client
	httpClient       *httpclient.Client
	apiKey           string
	exchangeEndpoint string
	logger           *slog.Logger
}

var _ gateway.Identity = (*Client)(nil)

// New initializes the Firebase Admin SDK from the given service-account
// credentials and returns an identity gateway client. The apiKey is the Web
// API key used by the REST exchange endpoint.
func New(ctx context.Context, projectID string, credentialsJSON []byte, apiKey string, hc *httpclient.Client, logger *slog.Logger) (*Client, error) {
	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: projectID},
		option.WithCredentialsJSON(credentialsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}

	return &Client{
		auth:             authClient,
		httpClient:       hc,
		apiKey:           apiKey,
		exchangeEndpoint: defaultExchangeEndpoint,
		logger:           logger,
	}, nil
}

// GetUserByEmail looks up an identity by email.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*gateway.UserRecord, error) {
	rec, err := c.auth.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, fmt.Errorf("get user by email %q: %w", email, gateway.ErrUserNotFound)
		}
		return nil, fmt.Errorf("get user by email %q: %w", email, err)
	}
	return toUserRecord(rec), nil
}

// CreateUser creates a new identity with the given credentials.
func (c *Client) CreateUser(ctx context.Context, email, password, displayName string) (*gateway.UserRecord, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	rec, err := c.auth.CreateUser(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	c.logger.InfoContext(ctx, "identity created",
		slog.String("uid", rec.UID),
		slog.String("email", email),
	)

	return toUserRecord(rec), nil
}

// CustomToken mints a short-lived custom exchange token for uid.
func (c *Client) CustomToken(ctx context.Context, uid string) (string, error) {
	token, err := c.auth.CustomToken(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("mint custom token for %s: %w", uid, err)
	}
	return token, nil
}

// VerifyToken verifies a session token, optionally consulting the platform's
// revocation bookkeeping. Without checkRevoked, a logged-out token still
// verifies until its natural expiry.
func (c *Client) VerifyToken(ctx context.Context, idToken string, checkRevoked bool) (*gateway.Token, error) {
	var decoded *auth.Token
	var err error
	if checkRevoked {
		decoded, err = c.auth.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	} else {
		decoded, err = c.auth.VerifyIDToken(ctx, idToken)
	}
	if err != nil {
		if auth.IsIDTokenRevoked(err) {
			return nil, fmt.Errorf("verify token: %w", gateway.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("verify token: %w: %v", gateway.ErrTokenInvalid, err)
	}
	return toToken(decoded), nil
}

// RevokeRefreshTokens revokes all refresh tokens for uid. The platform
// treats revoking an already-revoked identity as success, which makes
// logout idempotent.
func (c *Client) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := c.auth.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("revoke refresh tokens for %s: %w", uid, err)
	}
	return nil
}

// DeleteUser removes the identity from the platform.
func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	if err := c.auth.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return fmt.Errorf("delete user %s: %w", uid, gateway.ErrUserNotFound)
		}
		return fmt.Errorf("delete user %s: %w", uid, err)
	}
	return nil
}

func toUserRecord(rec *auth.UserRecord) *gateway.UserRecord {
	return &gateway.UserRecord{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		Disabled:    rec.Disabled,
	}
}

func toToken(t *auth.Token) *gateway.Token {
	email, _ := t.Claims["email"].(string)
	return &gateway.Token{
		UID:     t.UID,
		Email:   email,
		Expires: time.Unix(t.Expires, 0).UTC(),
	}
}
