package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/TuanVuuuu/petcare-api/internal/domain"
	apperrors "github.com/TuanVuuuu/petcare-api/pkg/errors"
)

const petsCollection = "pets"

// PetRepository implements repository.PetRepository using Firestore.
type PetRepository struct {
	client *firestore.Client
}

// NewPetRepository creates a new Firestore-backed pet repository.
func NewPetRepository(client *firestore.Client) *PetRepository {
	return &PetRepository{client: client}
}

// Create stores a new pet with a generated document id and server-set
// timestamps, then re-reads the document so the returned record carries the
// values the store actually persisted.
func (r *PetRepository) Create(ctx context.Context, pet *domain.Pet) (*domain.Pet, error) {
	doc := r.client.Collection(petsCollection).NewDoc()

	data := map[string]any{
		"name":       pet.Name,
		"type":       pet.Type,
		"owner_id":   pet.OwnerID,
		"created_at": firestore.ServerTimestamp,
		"updated_at": firestore.ServerTimestamp,
	}
	if pet.Age != nil {
		data["age"] = *pet.Age
	}

	if _, err := doc.Create(ctx, data); err != nil {
		return nil, fmt.Errorf("create pet: %w", err)
	}

	return r.GetByID(ctx, doc.ID)
}

// GetByID returns the pet with the given id.
func (r *PetRepository) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	snap, err := r.client.Collection(petsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperrors.NotFound("pet", id)
		}
		return nil, fmt.Errorf("get pet %s: %w", id, err)
	}

	return snapToPet(snap)
}

// ListByOwner returns every pet whose owner_id equals ownerID.
func (r *PetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error) {
	iter := r.client.Collection(petsCollection).
		Where("owner_id", "==", ownerID).
		Documents(ctx)
	defer iter.Stop()

	pets := []*domain.Pet{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list pets for %s: %w", ownerID, err)
		}

		pet, err := snapToPet(snap)
		if err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}

	return pets, nil
}

// Update applies the non-nil patch fields plus a server-set update
// timestamp. There is no version check: two concurrent updates to the same
// pet are resolved by the store's last-writer-wins per-field semantics.
func (r *PetRepository) Update(ctx context.Context, id string, patch domain.PetPatch) error {
	updates := []firestore.Update{
		{Path: "updated_at", Value: firestore.ServerTimestamp},
	}
	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.Type != nil {
		updates = append(updates, firestore.Update{Path: "type", Value: *patch.Type})
	}
	if patch.Age != nil {
		updates = append(updates, firestore.Update{Path: "age", Value: *patch.Age})
	}

	if _, err := r.client.Collection(petsCollection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return apperrors.NotFound("pet", id)
		}
		return fmt.Errorf("update pet %s: %w", id, err)
	}
	return nil
}

// Delete removes the pet with the given id.
func (r *PetRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(petsCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete pet %s: %w", id, err)
	}
	return nil
}

func snapToPet(snap *firestore.DocumentSnapshot) (*domain.Pet, error) {
	var pet domain.Pet
	if err := snap.DataTo(&pet); err != nil {
		return nil, fmt.Errorf("decode pet %s: %w", snap.Ref.ID, err)
	}
	pet.ID = snap.Ref.ID
	return &pet, nil
}
