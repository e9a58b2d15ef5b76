package models

type Post struct {
	ID        string `json:"id"`
	AuthorUID string `json:"uid"`
	Caption   string `json:"caption"`
	// Timestamp is unix seconds; the ID encodes the same instant reversed
	Timestamp int64 `json:"timestamp"`
	Likes     int   `json:"likes"`
	Retweets  int   `json:"retweets"`
	Replies   int   `json:"replies"`
	// ReplyingTo carries the parent author's username for display on replies
	ReplyingTo string `json:"replyingTo,omitempty"`
	// ParentID references the post a reply belongs to
	ParentID string `json:"parentID,omitempty"`

	// read-time annotations, never persisted
	Author  *User `json:"author,omitempty"`
	IsLiked bool  `json:"isLiked,omitempty"`
}

// IsReply reports whether the post was created as a reply.
func (p *Post) IsReply() bool { return p.ParentID != "" }
