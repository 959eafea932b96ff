package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/TuanVuuuu/petcare-api/pkg/errors"

	"github.com/TuanVuuuu/petcare-api/internal/domain"
	"github.com/TuanVuuuu/petcare-api/internal/repository"
)

// PetEventPublisher publishes pet lifecycle events. Failures are logged by
// the service and never fail the originating operation.
type PetEventPublisher interface {
	PublishPetCreated(ctx context.Context, pet *domain.Pet) error
	PublishPetUpdated(ctx context.Context, pet *domain.Pet) error
	PublishPetDeleted(ctx context.Context, petID, ownerID string) error
}

// PetService enforces per-record ownership on pet CRUD. Every read, update,
// and delete fetches the record first and compares its owner against the
// requesting identity; a mismatch is FORBIDDEN, distinct from the NOT_FOUND
// of a missing record, and the record's data never crosses that boundary.
type PetService struct {
	pets   repository.PetRepository
	events PetEventPublisher
	logger *slog.Logger
}

// NewPetService creates a new pet service.
func NewPetService(pets repository.PetRepository, events PetEventPublisher, logger *slog.Logger) *PetService {
	return &PetService{
		pets:   pets,
		events: events,
		logger: logger,
	}
}

// CreateInput holds the parameters for creating a pet.
type CreateInput struct {
	Name string
	Type string
	Age  *int
}

// Create stores a new pet owned by ownerID and returns the stored record.
func (s *PetService) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.Pet, error) {
	pet := &domain.Pet{
		Name:    input.Name,
		Type:    input.Type,
		Age:     input.Age,
		OwnerID: ownerID,
	}

	created, err := s.pets.Create(ctx, pet)
	if err != nil {
		return nil, fmt.Errorf("create pet: %w", err)
	}

	if err := s.events.PublishPetCreated(ctx, created); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish pet.created event",
			slog.String("pet_id", created.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "pet created",
		slog.String("pet_id", created.ID),
		slog.String("owner_id", ownerID),
	)

	return created, nil
}

// ListByOwner returns all pets belonging to ownerID.
func (s *PetService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error) {
	pets, err := s.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	return pets, nil
}

// Get returns the pet with the given id if ownerID owns it.
func (s *PetService) Get(ctx context.Context, ownerID, petID string) (*domain.Pet, error) {
	return s.fetchOwned(ctx, ownerID, petID)
}

// Update applies a partial merge of the provided fields plus a server-set
// update timestamp, then re-reads and returns the stored record rather than
// echoing the input. Concurrent updates to the same record are not
// coordinated here; the store's per-document atomicity is the only safety
// net, so a lost update between the read and the write is possible.
func (s *PetService) Update(ctx context.Context, ownerID, petID string, patch domain.PetPatch) (*domain.Pet, error) {
	if _, err := s.fetchOwned(ctx, ownerID, petID); err != nil {
		return nil, err
	}

	if err := s.pets.Update(ctx, petID, patch); err != nil {
		return nil, fmt.Errorf("update pet: %w", err)
	}

	updated, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, fmt.Errorf("reload updated pet: %w", err)
	}

	if err := s.events.PublishPetUpdated(ctx, updated); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish pet.updated event",
			slog.String("pet_id", petID),
			slog.String("error", err.Error()),
		)
	}

	return updated, nil
}

// Delete removes the pet with the given id if ownerID owns it. A missing
// record is a hard NOT_FOUND.
func (s *PetService) Delete(ctx context.Context, ownerID, petID string) error {
	if _, err := s.fetchOwned(ctx, ownerID, petID); err != nil {
		return err
	}

	if err := s.pets.Delete(ctx, petID); err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}

	if err := s.events.PublishPetDeleted(ctx, petID, ownerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish pet.deleted event",
			slog.String("pet_id", petID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "pet deleted",
		slog.String("pet_id", petID),
		slog.String("owner_id", ownerID),
	)

	return nil
}

// fetchOwned is the ownership gate: load the record, then compare owners.
// The FORBIDDEN message names neither the record's owner nor any of its
// fields.
func (s *PetService) fetchOwned(ctx context.Context, ownerID, petID string) (*domain.Pet, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}

	if pet.OwnerID != ownerID {
		s.logger.WarnContext(ctx, "ownership check failed",
			slog.String("pet_id", petID),
			slog.String("requester", ownerID),
		)
		return nil, apperrors.Forbidden("you do not have permission to access this pet")
	}

	return pet, nil
}
