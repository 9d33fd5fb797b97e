package model

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Associations holds the resolved category/tag names for one post.
// Both slices are always non-nil.
type Associations struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}
