package transfer

import "github.com/maheshrc27/contentflow/internal/models"

// SavePostRequest creates a new group when EditingIDs is empty and edits the
// listed rows otherwise.
type SavePostRequest struct {
	models.PostDraft
	Platforms  []models.Platform `json:"platforms"`
	EditingIDs []string          `json:"editingIds,omitempty"`
}

type UpdatePostsRequest struct {
	IDs    []string          `json:"ids"`
	Fields models.PostFields `json:"fields"`
}

type TransitionRequest struct {
	IDs      []string      `json:"ids"`
	Status   models.Status `json:"status"`
	Feedback string        `json:"feedback,omitempty"`
}

type CommentRequest struct {
	Text       string `json:"text"`
	IsInternal bool   `json:"isInternal"`
}

type WipeResponse struct {
	Deleted int64 `json:"deleted"`
}
