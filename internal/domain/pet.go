package domain

import "time"

// Pet age bounds accepted by the API.
const (
	MinPetAge = 0
	MaxPetAge = 50
)

// Pet is a pet record owned by a single user. The document id is generated
// by the store; OwnerID is the uid of the creating identity and is the only
// authorization attribute on the record.
type Pet struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Type      string    `json:"type" firestore:"type"`
	Age       *int      `json:"age,omitempty" firestore:"age,omitempty"`
	OwnerID   string    `json:"owner_id" firestore:"owner_id"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updated_at"`
}

// PetPatch is a partial update: nil fields are left untouched by the store.
// The update timestamp is always server-set, never caller-supplied.
type PetPatch struct {
	Name *string
	Type *string
	Age  *int
}

// IsEmpty reports whether the patch carries no fields at all.
func (p PetPatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Age == nil
}
