package domain

import "time"

// UserProfile is the profile document kept alongside a platform identity.
// It is keyed by the identity's uid and is non-authoritative metadata: the
// identity platform owns the account itself (credentials, tokens, email
// uniqueness); this document only mirrors what the API serves back.
type UserProfile struct {
	UID       string    `json:"id" firestore:"-"`
	Email     string    `json:"email" firestore:"email"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}
