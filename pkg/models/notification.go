package models

type NotificationType string

const (
	NotifyFollow  NotificationType = "follow"
	NotifyLike    NotificationType = "like"
	NotifyReply   NotificationType = "reply"
	NotifyRetweet NotificationType = "retweet"
	NotifyMention NotificationType = "mention"
)

// Valid reports whether t is one of the defined notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotifyFollow, NotifyLike, NotifyReply, NotifyRetweet, NotifyMention:
		return true
	}
	return false
}

type Notification struct {
	ID       string           `json:"id"`
	ActorUID string           `json:"uid"`
	Type     NotificationType `json:"type"`
	PostID   string           `json:"postID,omitempty"`
	// Timestamp is unix seconds
	Timestamp int64 `json:"timestamp"`

	// read-time annotations, never persisted
	Actor *User `json:"actor,omitempty"`
	// IsFollowing reflects the live follow state for follow-type entries,
	// so an undone follow does not show an active badge
	IsFollowing bool `json:"isFollowing,omitempty"`
}
