package model

import "github.com/google/uuid"

// Endorsement is one user's signed vote on a post. A post's popular
// point is derived by summing +1 per true and -1 per false row, never
// stored.
type Endorsement struct {
	PostID      int64     `json:"post_id"`
	UserID      uuid.UUID `json:"user_id"`
	Endorsement bool      `json:"endorsement"`
}
