package models

import "time"

type Note struct {
	ID          int    `json:"id"`
	UploaderID  int    `json:"uploaderId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Class       string `json:"class"`
	Board       string `json:"board,omitempty"`
	Topic       string `json:"topic,omitempty"`
	FileType    string `json:"fileType"`
	FileID      string `json:"fileId"`
	ThumbnailID string `json:"thumbnailId,omitempty"`

	// Denormalized uploader display fields, resolved by join at read time.
	UploaderName     string `json:"uploaderName"`
	UploaderAvatar   string `json:"uploaderAvatar,omitempty"`
	UploaderVerified bool   `json:"uploaderVerified"`

	Likes     int     `json:"likes"`
	Dislikes  int     `json:"dislikes"`
	Downloads int     `json:"downloads"`
	Views     int     `json:"views"`
	AdClicks  int     `json:"adClicks"`
	Earnings  float64 `json:"earnings"`

	// Per-viewer flags, computed per request and never persisted.
	IsLiked      bool `json:"isLiked"`
	IsDisliked   bool `json:"isDisliked"`
	IsBookmarked bool `json:"isBookmarked"`

	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// NoteFilters narrows list queries. Pointers are optional filters.
type NoteFilters struct {
	Subject  *string
	Class    *string
	Board    *string
	Topic    *string
	Search   *string
	Page     int
	PageSize int
}

// EngagementState is the authoritative post-toggle state returned to callers
// so clients never have to guess from optimistic local patches.
type EngagementState struct {
	NoteID       int  `json:"noteId"`
	IsLiked      bool `json:"isLiked"`
	IsDisliked   bool `json:"isDisliked"`
	IsBookmarked bool `json:"isBookmarked"`
	Likes        int  `json:"likes"`
	Dislikes     int  `json:"dislikes"`
	Downloads    int  `json:"downloads"`
}
