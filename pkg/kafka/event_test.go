package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type petCreatedData struct {
	PetID   string `json:"pet_id"`
	OwnerID string `json:"owner_id"`
}

func TestNewEvent_PopulatesEnvelope(t *testing.T) {
	data := petCreatedData{PetID: "p1", OwnerID: "uid-1"}

	evt, err := NewEvent("petcare.pet.created", "p1", "pet", "petcare-api", data)
	require.NoError(t, err)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, "petcare.pet.created", evt.EventType)
	assert.Equal(t, "p1", evt.AggregateID)
	assert.Equal(t, "pet", evt.AggregateType)
	assert.Equal(t, "petcare-api", evt.Source)
	assert.Equal(t, 1, evt.Version)
	assert.WithinDuration(t, time.Now().UTC(), evt.Timestamp, time.Minute)
}

func TestEvent_DataRoundTrip(t *testing.T) {
	evt, err := NewEvent("petcare.pet.created", "p1", "pet", "petcare-api",
		petCreatedData{PetID: "p1", OwnerID: "uid-1"})
	require.NoError(t, err)

	var got petCreatedData
	require.NoError(t, evt.UnmarshalData(&got))
	assert.Equal(t, "p1", got.PetID)
	assert.Equal(t, "uid-1", got.OwnerID)
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("petcare.pet.created", "p1", "pet", "petcare-api", make(chan int))
	assert.Error(t, err)
}

func TestEvent_WithCorrelationID(t *testing.T) {
	evt, err := NewEvent("petcare.user.registered", "uid-1", "user", "petcare-api", nil)
	require.NoError(t, err)

	evt.WithCorrelationID("corr-1")
	assert.Equal(t, "corr-1", evt.CorrelationID)
}
