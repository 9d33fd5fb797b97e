package dto

// CreatePostRequest binds the multipart create/edit form. Categories
// and Tags arrive as JSON-encoded name arrays in their form fields; the
// handler decodes them before calling the service.
type CreatePostRequest struct {
	Title      string `form:"title" binding:"required,max=100"`
	Content    string `form:"content" binding:"required"`
	Categories string `form:"categories"`
	Tags       string `form:"tags"`
}

// Categories and Tags carry the human-readable names the client picked;
// the service resolves them to IDs before writing associations.
type CreatePostDto struct {
	Title      string
	Content    string
	ImagePath  *string
	Categories []string
	Tags       []string
}

type UpdatePostDto struct {
	Title      string
	Content    string
	ImagePath  *string
	Categories []string
	Tags       []string
}

type SetEndorsementRequest struct {
	Endorsement *bool `json:"endorsement" binding:"required"`
}
