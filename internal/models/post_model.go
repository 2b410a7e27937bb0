package models

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusInReview  Status = "In Review"
	StatusApproved  Status = "Approved"
	StatusScheduled Status = "Scheduled"
	StatusPublished Status = "Published"
	StatusTrashed   Status = "Trashed"
)

var Statuses = []Status{StatusDraft, StatusInReview, StatusApproved, StatusScheduled, StatusPublished, StatusTrashed}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Platform string

const (
	PlatformInstagram Platform = "Instagram"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTwitter   Platform = "Twitter"
	PlatformFacebook  Platform = "Facebook"
	PlatformTikTok    Platform = "TikTok"
)

var Platforms = []Platform{PlatformInstagram, PlatformLinkedIn, PlatformTwitter, PlatformFacebook, PlatformTikTok}

func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if p == v {
			return true
		}
	}
	return false
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Post is one content unit for a single client on a single platform.
// Timestamps are epoch milliseconds.
type Post struct {
	ID        string         `db:"id" json:"id"`
	Client    string         `db:"client" json:"client"`
	Platform  Platform       `db:"platform" json:"platform"`
	Campaign  string         `db:"campaign" json:"campaign"`
	Date      string         `db:"date" json:"date"`
	Caption   string         `db:"caption" json:"caption"`
	MediaURL  string         `db:"media_url" json:"mediaUrl"`
	MediaType MediaType      `db:"media_type" json:"mediaType"`
	Status    Status         `db:"status" json:"status"`
	Comments  []Comment      `db:"comments" json:"comments"`
	History   []HistoryEntry `db:"history" json:"history"`
	Versions  []PostVersion  `db:"versions" json:"versions"`
	CreatedAt int64          `db:"created_at" json:"createdAt"`
	UpdatedAt int64          `db:"updated_at" json:"updatedAt"`
}

// Comment is immutable once appended. Comments are kept oldest first.
type Comment struct {
	ID         string `json:"id"`
	Author     string `json:"author"`
	Role       Role   `json:"role"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
	IsInternal bool   `json:"isInternal"`
}

// HistoryEntry is kept newest first.
type HistoryEntry struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	By        string `json:"by"`
	Timestamp int64  `json:"timestamp"`
	Details   string `json:"details,omitempty"`
}

// PostVersion captures the content a post had before an edit overwrote it.
type PostVersion struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Caption   string `json:"caption"`
	MediaURL  string `json:"mediaUrl"`
	SavedBy   string `json:"savedBy"`
}

// PostPatch has merge semantics: nil fields are left untouched. AddHistory
// and AddVersion are appended by the store to whatever it holds at write
// time, never to the caller's copy.
type PostPatch struct {
	Client     *string
	Campaign   *string
	Date       *string
	Caption    *string
	MediaURL   *string
	MediaType  *MediaType
	Status     *Status
	AddHistory *HistoryEntry
	AddVersion *PostVersion
	UpdatedAt  *int64
}

// PostDraft is the authoring input shared by every platform row of a new post.
type PostDraft struct {
	Client    string    `json:"client"`
	Campaign  string    `json:"campaign"`
	Date      string    `json:"date"`
	Caption   string    `json:"caption"`
	MediaURL  string    `json:"mediaUrl"`
	MediaType MediaType `json:"mediaType"`
	Status    Status    `json:"status"`
}

// PostFields are the editable content fields of an existing post.
type PostFields struct {
	Campaign  *string    `json:"campaign,omitempty"`
	Date      *string    `json:"date,omitempty"`
	Caption   *string    `json:"caption,omitempty"`
	MediaURL  *string    `json:"mediaUrl,omitempty"`
	MediaType *MediaType `json:"mediaType,omitempty"`
}

// GroupedPost is a display-only merge of posts that differ only by platform.
type GroupedPost struct {
	Client    string     `json:"client"`
	Campaign  string     `json:"campaign"`
	Date      string     `json:"date"`
	Caption   string     `json:"caption"`
	MediaURL  string     `json:"mediaUrl"`
	MediaType MediaType  `json:"mediaType"`
	Status    Status     `json:"status"`
	IDs       []string   `json:"ids"`
	Platforms []Platform `json:"platforms"`
	CreatedAt int64      `json:"createdAt"`
}

type Notification struct {
	PostID   string   `json:"postId"`
	Client   string   `json:"client"`
	Platform Platform `json:"platform"`
	Caption  string   `json:"caption"`
	Comment  Comment  `json:"comment"`
}
