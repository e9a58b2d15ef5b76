package keys

import "fmt"

// record keys

func GenUserKey(uid string) string {
	return fmt.Sprintf(UserKey, uid)
}

func GenUsernameKey(username string) string {
	return fmt.Sprintf(UsernameKey, username)
}

func GenPostKey(postID string) string {
	return fmt.Sprintf(PostKey, postID)
}

func GenNotificationKey(recipientUID, notifID string) string {
	return fmt.Sprintf(NotificationKey, recipientUID, notifID)
}

func GenMessageKey(ownerUID, partnerUID, msgID string) string {
	return fmt.Sprintf(MessageKey, ownerUID, partnerUID, msgID)
}

func GenRecentMsgKey(uid, partnerUID string) string {
	return fmt.Sprintf(RecentMsgKey, uid, partnerUID)
}

// index markers

func GenUserPostKey(uid, postID string) string {
	return fmt.Sprintf(UserPostIdx, uid, postID)
}

func GenFollowingKey(actorUID, targetUID string) string {
	return fmt.Sprintf(FollowingIdx, actorUID, targetUID)
}

func GenFollowerKey(targetUID, actorUID string) string {
	return fmt.Sprintf(FollowerIdx, targetUID, actorUID)
}

func GenPostReplyKey(parentID, replyID string) string {
	return fmt.Sprintf(PostReplyIdx, parentID, replyID)
}

func GenUserReplyKey(uid, parentID string) string {
	return fmt.Sprintf(UserReplyIdx, uid, parentID)
}

func GenUserLikeKey(uid, postID string) string {
	return fmt.Sprintf(UserLikeIdx, uid, postID)
}

func GenPostLikeKey(postID, uid string) string {
	return fmt.Sprintf(PostLikeIdx, postID, uid)
}

func GenRetweetKey(postID, uid string) string {
	return fmt.Sprintf(RetweetIdx, postID, uid)
}

// child-listing prefixes; callers pass these to Store.Children

func UserPrefix() string { return "u:" }

func UserPostsPrefix(uid string) string { return fmt.Sprintf("idx:up:%s:", uid) }

func FollowingPrefix(uid string) string { return fmt.Sprintf("idx:fw:%s:", uid) }

func FollowersPrefix(uid string) string { return fmt.Sprintf("idx:fr:%s:", uid) }

func PostRepliesPrefix(postID string) string { return fmt.Sprintf("idx:rp:%s:", postID) }

func UserRepliesPrefix(uid string) string { return fmt.Sprintf("idx:ur:%s:", uid) }

func UserLikesPrefix(uid string) string { return fmt.Sprintf("idx:ul:%s:", uid) }

func PostLikesPrefix(postID string) string { return fmt.Sprintf("idx:pl:%s:", postID) }

func RetweetersPrefix(postID string) string { return fmt.Sprintf("idx:rt:%s:", postID) }

func NotificationsPrefix(uid string) string { return fmt.Sprintf("n:%s:", uid) }

func PostsPrefix() string { return "p:" }
func MessagesPrefix(ownerUID, partnerUID string) string {
	return fmt.Sprintf("m:%s:%s:", ownerUID, partnerUID)
}
func RecentMsgsPrefix(uid string) string { return fmt.Sprintf("mr:%s:", uid) }
