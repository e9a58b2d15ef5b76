package keys

const (
	// notation dictionary for key formats:
	// u     = user
	// uname = username lookup
	// p     = post
	// n     = notification
	// m     = direct message
	// mr    = most recent message per partner
	// idx   = denormalized index marker
	//   up  = user posts
	//   fw  = following (actor side of a follow edge)
	//   fr  = followers (target side of a follow edge)
	//   rp  = replies of a post
	//   ur  = user replies back-reference
	//   ul  = user likes
	//   pl  = post likes
	//   rt  = retweeters of a post
	// All keys are lowercase; segments are separated by ":"
	// <...> = variable segment (e.g. <uid>, <post_id>)

	// primary records
	UserKey         = "u:%s"       // u:<uid>
	UsernameKey     = "uname:%s"   // uname:<username> -> uid
	PostKey         = "p:%s"       // p:<post_id>
	NotificationKey = "n:%s:%s"    // n:<recipient_uid>:<notif_id>
	MessageKey      = "m:%s:%s:%s" // m:<owner_uid>:<partner_uid>:<msg_id>
	RecentMsgKey    = "mr:%s:%s"   // mr:<uid>:<partner_uid>

	// index markers (value is a presence byte unless noted)
	UserPostIdx  = "idx:up:%s:%s" // idx:up:<uid>:<post_id>
	FollowingIdx = "idx:fw:%s:%s" // idx:fw:<actor_uid>:<target_uid>
	FollowerIdx  = "idx:fr:%s:%s" // idx:fr:<target_uid>:<actor_uid>
	PostReplyIdx = "idx:rp:%s:%s" // idx:rp:<parent_post_id>:<reply_id>
	UserReplyIdx = "idx:ur:%s:%s" // idx:ur:<uid>:<parent_post_id> -> reply_id
	UserLikeIdx  = "idx:ul:%s:%s" // idx:ul:<uid>:<post_id>
	PostLikeIdx  = "idx:pl:%s:%s" // idx:pl:<post_id>:<uid>
	RetweetIdx   = "idx:rt:%s:%s" // idx:rt:<post_id>:<uid>
)
