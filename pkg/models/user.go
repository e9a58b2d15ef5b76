package models

type User struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	// ProfileImageURL points at the blob store copy of the avatar
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Bio             string `json:"bio,omitempty"`

	// IsFollowed is a viewer-relative annotation resolved at read time;
	// it is never persisted.
	IsFollowed bool `json:"isFollowed,omitempty"`
	// Stats is populated on demand from the follow indexes.
	Stats *UserStats `json:"stats,omitempty"`
}

// UserStats holds the denormalized relationship counts for display.
type UserStats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}
