package repository

import (
	"context"

	"github.com/TuanVuuuu/petcare-api/internal/domain"
)

// ProfileRepository defines the persistence operations for user profiles.
type ProfileRepository interface {
	// Create writes the profile document keyed by uid. Creating over an
	// existing document merges, so a re-signup after a partial failure
	// does not error.
	Create(ctx context.Context, uid, email string) error

	// GetByUID returns the profile for uid, or a NotFound error when no
	// document exists.
	GetByUID(ctx context.Context, uid string) (*domain.UserProfile, error)

	// Delete removes the profile document. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, uid string) error
}

// PetRepository defines the persistence operations for pet records.
// Ownership is NOT enforced here; the service layer compares OwnerID against
// the requesting identity before any record leaves this boundary.
type PetRepository interface {
	// Create stores a new pet with a generated id and server-set
	// timestamps, returning the stored record.
	Create(ctx context.Context, pet *domain.Pet) (*domain.Pet, error)

	// GetByID returns the pet with the given id, or a NotFound error.
	GetByID(ctx context.Context, id string) (*domain.Pet, error)

	// ListByOwner returns all pets whose owner_id equals ownerID. An empty
	// slice is a normal result.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error)

	// Update applies the non-nil patch fields plus a server-set update
	// timestamp to the pet with the given id.
	Update(ctx context.Context, id string, patch domain.PetPatch) error

	// Delete removes the pet with the given id.
	Delete(ctx context.Context, id string) error
}
