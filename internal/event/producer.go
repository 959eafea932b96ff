package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/TuanVuuuu/petcare-api/pkg/kafka"

	"github.com/TuanVuuuu/petcare-api/internal/domain"
)

// Kafka topic constants for petcare domain events.
const (
	TopicUserRegistered = "petcare.user.registered"
	TopicUserDeleted    = "petcare.user.deleted"
	TopicPetCreated     = "petcare.pet.created"
	TopicPetUpdated     = "petcare.pet.updated"
	TopicPetDeleted     = "petcare.pet.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeUser = "user"
	AggregateTypePet  = "pet"
)

// Source identifier for events originating from this service.
const SourcePetcareAPI = "petcare-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// UserDeletedData is the payload for a user.deleted event.
type UserDeletedData struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// PetData is the payload for pet lifecycle events.
type PetData struct {
	PetID   string `json:"pet_id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type,omitempty"`
}

// Producer publishes petcare domain events to Kafka. Publish failures never
// fail the originating request; callers log and continue.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, uid, email string) error {
	return p.publish(ctx, TopicUserRegistered, uid, AggregateTypeUser,
		UserRegisteredData{UID: uid, Email: email})
}

// PublishUserDeleted publishes a user.deleted event.
func (p *Producer) PublishUserDeleted(ctx context.Context, uid, email string) error {
	return p.publish(ctx, TopicUserDeleted, uid, AggregateTypeUser,
		UserDeletedData{UID: uid, Email: email})
}

// PublishPetCreated publishes a pet.created event.
func (p *Producer) PublishPetCreated(ctx context.Context, pet *domain.Pet) error {
	return p.publish(ctx, TopicPetCreated, pet.ID, AggregateTypePet,
		PetData{PetID: pet.ID, OwnerID: pet.OwnerID, Name: pet.Name, Type: pet.Type})
}

// PublishPetUpdated publishes a pet.updated event.
func (p *Producer) PublishPetUpdated(ctx context.Context, pet *domain.Pet) error {
	return p.publish(ctx, TopicPetUpdated, pet.ID, AggregateTypePet,
		PetData{PetID: pet.ID, OwnerID: pet.OwnerID, Name: pet.Name, Type: pet.Type})
}

// PublishPetDeleted publishes a pet.deleted event.
func (p *Producer) PublishPetDeleted(ctx context.Context, petID, ownerID string) error {
	return p.publish(ctx, TopicPetDeleted, petID, AggregateTypePet,
		PetData{PetID: petID, OwnerID: ownerID})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourcePetcareAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published domain event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
