// Package firestore implements the repository interfaces against Cloud
// Firestore. Documents are the source of truth for profile and pet data;
// consistency and per-document atomicity come from the platform, not from
// this layer.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/TuanVuuuu/petcare-api/internal/domain"
	apperrors "github.com/TuanVuuuu/petcare-api/pkg/errors"
)

const usersCollection = "users"

// ProfileRepository implements repository.ProfileRepository using Firestore.
type ProfileRepository struct {
	client *firestore.Client
}

// NewProfileRepository creates a new Firestore-backed profile repository.
func NewProfileRepository(client *firestore.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// Create writes the profile document keyed by uid. The write merges, so
// re-creating an existing profile is a no-op rather than an error.
func (r *ProfileRepository) Create(ctx context.Context, uid, email string) error {
	_, err := r.client.Collection(usersCollection).Doc(uid).Set(ctx, map[string]any{
		"email":      email,
		"created_at": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("create profile for %s: %w", uid, err)
	}
	return nil
}

// GetByUID returns the profile for uid.
func (r *ProfileRepository) GetByUID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	snap, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperrors.NotFound("user profile", uid)
		}
		return nil, fmt.Errorf("get profile for %s: %w", uid, err)
	}

	var profile domain.UserProfile
	if err := snap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("decode profile for %s: %w", uid, err)
	}
	profile.UID = snap.Ref.ID

	return &profile, nil
}

// Delete removes the profile document. Firestore treats deleting a missing
// document as success, which is the behavior the account-deletion flow
// relies on.
func (r *ProfileRepository) Delete(ctx context.Context, uid string) error {
	if _, err := r.client.Collection(usersCollection).Doc(uid).Delete(ctx); err != nil {
		return fmt.Errorf("delete profile for %s: %w", uid, err)
	}
	return nil
}
