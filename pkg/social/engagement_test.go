package social

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"birdfeed/pkg/models"
	"birdfeed/pkg/store/keys"
)

func TestLikeAndUnlike(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	mustRegister(t, svc, "u1", "alice")
	mustRegister(t, svc, "u2", "bob")

	post := mustPost(t, svc, "u1", "like me")
	if err := svc.Engagement.Like(ctx, "u2", post.ID); err != nil {
		t.Fatalf("Like: %v", err)
	}

	liked, err := svc.Engagement.IsLiked(ctx, "u2", post.ID)
	if err != nil || !liked {
		t.Fatalf("IsLiked: %v %v", liked, err)
	}
	got, err := svc.Posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Likes != 1 {
		t.Fatalf("like counter %d", got.Likes)
	}

	if err := svc.Engagement.Unlike(ctx, "u2", post.ID); err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	liked, err = svc.Engagement.IsLiked(ctx, "u2", post.ID)
	if err != nil || liked {
		t.Fatalf("IsLiked after unlike: %v %v", liked, err)
	}
	got, err = svc.Posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Likes != 0 {
		t.Fatalf("like counter after unlike %d", got.Likes)
	}
}

func TestLikeIdempotent(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	mustRegister(t, svc, "u1", "alice")
	mustRegister(t, svc, "u2", "bob")

	post := mustPost(t, svc, "u1", "like me")
	for i := 0; i < 3; i++ {
		if err := svc.Engagement.Like(ctx, "u2", post.ID); err != nil {
			t.Fatalf("Like %d: %v", i, err)
		}
	}
	got, err := svc.Posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Likes != 1 {
		t.Fatalf("repeat likes inflated counter to %d", got.Likes)
	}
	notifs, err := svc.Notifier.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	if len(notifs) != 1 || notifs[0].Type != models.NotifyLike {
		t.Fatalf("notifications %+v", notifs)
	}
}

func TestUnlikeNeverLikedIsNoop(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	mustRegister(t, svc, "u1", "alice")
	mustRegister(t, svc, "u2", "bob")

	post := mustPost(t, svc, "u1", "never liked")
	if err := svc.Engagement.Unlike(ctx, "u2", post.ID); err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	got, err := svc.Posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Likes != 0 {
		t.Fatalf("counter moved to %d", got.Likes)
	}
	// an unlike never notifies
	notifs, err := svc.Notifier.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	if len(notifs) != 0 {
		t.Fatalf("unexpected notifications %+v", notifs)
	}
}

func TestLikedPostsAndLikers(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	mustRegister(t, svc, "u1", "alice")
	mustRegister(t, svc, "u2", "bob")
	mustRegister(t, svc, "u3", "carol")

	post := mustPost(t, svc, "u1", "popular")
	for _, uid := range []string{"u2", "u3"} {
		if err := svc.Engagement.Like(ctx, uid, post.ID); err != nil {
			t.Fatalf("Like by %s: %v", uid, err)
		}
	}

	likedBy2, err := svc.Engagement.LikedPosts(ctx, "u2")
	if err != nil {
		t.Fatalf("LikedPosts: %v", err)
	}
	if len(likedBy2) != 1 || likedBy2[0].ID != post.ID || !likedBy2[0].IsLiked {
		t.Fatalf("likedPosts %+v", likedBy2)
	}

	// u2 follows u3, so u3 appears followed in the likers list
	if err := svc.Graph.Follow(ctx, "u2", "u3"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	likers, err := svc.Engagement.Likers(ctx, post.ID, "u2")
	if err != nil {
		t.Fatalf("Likers: %v", err)
	}
	if len(likers) != 2 {
		t.Fatalf("expected 2 likers, got %d", len(likers))
	}
	for _, u := range likers {
		switch u.UID {
		case "u3":
			if !u.IsFollowed {
				t.Fatalf("u3 should be annotated as followed")
			}
		case "u2":
			if u.IsFollowed {
				t.Fatalf("viewer should not be annotated as followed")
			}
		}
	}
}

func TestReconcileRepairsCounters(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	mustRegister(t, svc, "u1", "alice")
	mustRegister(t, svc, "u2", "bob")

	post := mustPost(t, svc, "u1", "drifted")
	if err := svc.Engagement.Like(ctx, "u2", post.ID); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if _, err := svc.Posts.Reply(ctx, "u2", "hello back", post.ID); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if err := svc.Posts.Retweet(ctx, "u2", post.ID); err != nil {
		t.Fatalf("Retweet: %v", err)
	}

	// corrupt the stored counters out from under the indexes
	st := svc.Posts.st
	raw, err := st.GetRaw(ctx, keys.GenPostKey(post.ID))
	if err != nil {
		t.Fatalf("GetRaw: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	rec["likes"] = 99
	rec["replies"] = 99
	rec["retweets"] = 99
	if err := st.Put(ctx, keys.GenPostKey(post.ID), rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	repaired, err := svc.Engagement.Reconcile(ctx, post.ID)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if repaired.Likes != 1 || repaired.Replies != 1 || repaired.Retweets != 1 {
		t.Fatalf("reconciled counters %+v", repaired)
	}
	got, err := svc.Posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Likes != 1 || got.Replies != 1 || got.Retweets != 1 {
		t.Fatalf("counters after reconcile: %+v", got)
	}
}

func TestConcurrentLikesAndRepliesKeepCounters(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	mustRegister(t, svc, "author", "author")
	post := mustPost(t, svc, "author", "contended")

	const n = 20
	for i := 0; i < n; i++ {
		mustRegister(t, svc, fmt.Sprintf("r%02d", i), fmt.Sprintf("replier%02d", i))
	}

	// likes and replies rewrite the same post record; run them against
	// each other to catch a lost counter update
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		liker := fmt.Sprintf("l%02d", i)
		replier := fmt.Sprintf("r%02d", i)
		go func() {
			defer wg.Done()
			if err := svc.Engagement.Like(ctx, liker, post.ID); err != nil {
				t.Errorf("Like by %s: %v", liker, err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := svc.Posts.Reply(ctx, replier, "me too", post.ID); err != nil {
				t.Errorf("Reply by %s: %v", replier, err)
			}
		}()
	}
	wg.Wait()

	got, err := svc.Posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Likes != n || got.Replies != n {
		t.Fatalf("lost updates: likes=%d/%d replies=%d/%d", got.Likes, n, got.Replies, n)
	}
	likes, err := svc.Posts.st.ChildCount(ctx, keys.PostLikesPrefix(post.ID))
	if err != nil || likes != n {
		t.Fatalf("like index cardinality %d: %v", likes, err)
	}
}
