package social

import (
	"context"
	"testing"

	"birdfeed/pkg/models"
)

// Exercises the whole engine through one realistic sequence: a follows b,
// b posts, a sees it, likes it, then unlikes it.
func TestFollowPostLikeUnlikeFlow(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	mustRegister(t, svc, "a", "ann")
	mustRegister(t, svc, "b", "ben")

	if err := svc.Graph.Follow(ctx, "a", "b"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	post := mustPost(t, svc, "b", "hello")

	feed, err := svc.Timeline.Home(ctx, "a")
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != post.ID {
		t.Fatalf("feed %+v", feed)
	}

	if err := svc.Engagement.Like(ctx, "a", post.ID); err != nil {
		t.Fatalf("Like: %v", err)
	}
	notifs, err := svc.Notifier.List(ctx, "b")
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	likeCount := 0
	for _, n := range notifs {
		if n.Type == models.NotifyLike {
			likeCount++
			if n.ActorUID != "a" || n.PostID != post.ID {
				t.Fatalf("like notification %+v", n)
			}
		}
	}
	if likeCount != 1 {
		t.Fatalf("expected exactly 1 like notification, got %d", likeCount)
	}
	got, err := svc.Posts.Get(ctx, post.ID)
	if err != nil || got.Likes != 1 {
		t.Fatalf("like count: %+v %v", got, err)
	}
	liked, err := svc.Engagement.IsLiked(ctx, "a", post.ID)
	if err != nil || !liked {
		t.Fatalf("IsLiked: %v %v", liked, err)
	}

	if err := svc.Engagement.Unlike(ctx, "a", post.ID); err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	got, err = svc.Posts.Get(ctx, post.ID)
	if err != nil || got.Likes != 0 {
		t.Fatalf("like count after unlike: %+v %v", got, err)
	}
	liked, err = svc.Engagement.IsLiked(ctx, "a", post.ID)
	if err != nil || liked {
		t.Fatalf("IsLiked after unlike: %v %v", liked, err)
	}
	// the unlike adds no notification
	after, err := svc.Notifier.List(ctx, "b")
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	if len(after) != len(notifs) {
		t.Fatalf("unlike changed notification count: %d -> %d", len(notifs), len(after))
	}
}

func TestSelfReplyProducesNoNotification(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	mustRegister(t, svc, "u1", "alice")

	parent := mustPost(t, svc, "u1", "talking to myself")
	reply, err := svc.Posts.Reply(ctx, "u1", "and answering", parent.ID)
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.ParentID != parent.ID {
		t.Fatalf("reply %+v", reply)
	}

	got, err := svc.Posts.Get(ctx, parent.ID)
	if err != nil || got.Replies != 1 {
		t.Fatalf("reply count: %+v %v", got, err)
	}
	notifs, err := svc.Notifier.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	if len(notifs) != 0 {
		t.Fatalf("self-reply produced notifications: %+v", notifs)
	}
}

func TestSelfLikeProducesNoNotification(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	mustRegister(t, svc, "u1", "alice")

	post := mustPost(t, svc, "u1", "self five")
	if err := svc.Engagement.Like(ctx, "u1", post.ID); err != nil {
		t.Fatalf("Like: %v", err)
	}
	got, err := svc.Posts.Get(ctx, post.ID)
	if err != nil || got.Likes != 1 {
		t.Fatalf("like count: %+v %v", got, err)
	}
	notifs, err := svc.Notifier.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	if len(notifs) != 0 {
		t.Fatalf("self-like produced notifications: %+v", notifs)
	}
}
