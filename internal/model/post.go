package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImagePath string    `json:"imagepath"`
	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogFilter narrows a listing to posts associated with any of the
// given categories or tags. Empty slices mean no filtering on that axis.
type CatalogFilter struct {
	CategoryIDs []int64
	TagIDs      []int64
}

// PostView is the read projection served by every listing endpoint:
// the post row plus its owner's display name, association names and
// the aggregate endorsement score.
type PostView struct {
	Post
	DisplayName  string   `json:"display_name"`
	Categories   []string `json:"categories"`
	Tags         []string `json:"tags"`
	PopularPoint int64    `json:"popular_point"`
}
