package social

import (
	"context"
	"fmt"
	"time"

	"birdfeed/pkg/logger"
	"birdfeed/pkg/models"
	"birdfeed/pkg/store"
	"birdfeed/pkg/store/keys"
	"birdfeed/pkg/telemetry"
)

// Engagement tracks likes as a bidirectional index (user→posts and
// post→users) plus the denormalized counter on the post record. Counter and
// both edges commit in one batch, and the counter only moves when the edge
// actually changes, so repeated likes cannot inflate it. All post-record
// rewrites go through posts.mu since likes and replies mutate the same key.
type Engagement struct {
	st       *store.Store
	posts    *Posts
	notifier *Notifier
}

func NewEngagement(st *store.Store, posts *Posts, notifier *Notifier) *Engagement {
	return &Engagement{st: st, posts: posts, notifier: notifier}
}

// Like records uid's like of postID. Liking an already-liked post is a
// no-op: no counter change, no duplicate edge, no second notification.
func (e *Engagement) Like(ctx context.Context, uid, postID string) error {
	defer telemetry.Observe("engagement.like", time.Now())
	e.posts.mu.Lock()
	defer e.posts.mu.Unlock()

	post, err := e.posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	already, err := e.st.Has(ctx, keys.GenUserLikeKey(uid, post.ID))
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	stored := stripAnnotations(post)
	stored.Likes++

	b := e.st.Batch()
	b.PutRaw(keys.GenUserLikeKey(uid, post.ID), store.Presence)
	b.PutRaw(keys.GenPostLikeKey(post.ID, uid), store.Presence)
	if err := b.Put(keys.GenPostKey(post.ID), stored); err != nil {
		return err
	}
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("like %s by %s: %w", post.ID, uid, err)
	}
	logger.Debug("like_created", "post", post.ID, "user", uid)

	e.notifier.Notify(ctx, models.NotifyLike, uid, post.AuthorUID, post.ID)
	return nil
}

// Unlike removes uid's like of postID. Unliking a post that was never
// liked is a no-op, and no notification is ever written for an unlike.
func (e *Engagement) Unlike(ctx context.Context, uid, postID string) error {
	defer telemetry.Observe("engagement.unlike", time.Now())
	e.posts.mu.Lock()
	defer e.posts.mu.Unlock()

	post, err := e.posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	liked, err := e.st.Has(ctx, keys.GenUserLikeKey(uid, post.ID))
	if err != nil {
		return err
	}
	if !liked {
		return nil
	}

	stored := stripAnnotations(post)
	if stored.Likes > 0 {
		stored.Likes--
	}

	b := e.st.Batch()
	b.Delete(keys.GenUserLikeKey(uid, post.ID))
	b.Delete(keys.GenPostLikeKey(post.ID, uid))
	if err := b.Put(keys.GenPostKey(post.ID), stored); err != nil {
		return err
	}
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("unlike %s by %s: %w", post.ID, uid, err)
	}
	logger.Debug("like_removed", "post", post.ID, "user", uid)
	return nil
}

// IsLiked reports whether uid has liked postID.
func (e *Engagement) IsLiked(ctx context.Context, uid, postID string) (bool, error) {
	return e.st.Has(ctx, keys.GenUserLikeKey(uid, keys.SourcePostID(postID)))
}

// LikedPosts lists the posts uid has liked, newest-first, each annotated
// as liked.
func (e *Engagement) LikedPosts(ctx context.Context, uid string) ([]*models.Post, error) {
	defer telemetry.Observe("engagement.liked_posts", time.Now())
	children, err := e.st.Children(ctx, keys.UserLikesPrefix(uid))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.Key)
	}
	posts := e.posts.Resolve(ctx, ids)
	for _, p := range posts {
		p.IsLiked = true
	}
	return posts, nil
}

// Likers lists the users who liked postID, annotated with whether the
// viewer follows each of them.
func (e *Engagement) Likers(ctx context.Context, postID, viewerUID string) ([]*models.User, error) {
	defer telemetry.Observe("engagement.likers", time.Now())
	postID = keys.SourcePostID(postID)
	children, err := e.st.Children(ctx, keys.PostLikesPrefix(postID))
	if err != nil {
		return nil, err
	}
	out := make([]*models.User, 0, len(children))
	for _, c := range children {
		user, uerr := e.posts.users.Get(ctx, c.Key)
		if uerr != nil {
			logger.Warn("likers_skip_dangling", "uid", c.Key)
			continue
		}
		if viewerUID != "" {
			followed, ferr := e.st.Has(ctx, keys.GenFollowingKey(viewerUID, c.Key))
			if ferr == nil {
				user.IsFollowed = followed
			}
		}
		out = append(out, user)
	}
	return out, nil
}

// Reconcile recomputes a post's denormalized counters from their backing
// indexes, which are ground truth when the two disagree. Returns the
// repaired record.
func (e *Engagement) Reconcile(ctx context.Context, postID string) (*models.Post, error) {
	e.posts.mu.Lock()
	defer e.posts.mu.Unlock()

	post, err := e.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	likes, err := e.st.ChildCount(ctx, keys.PostLikesPrefix(post.ID))
	if err != nil {
		return nil, err
	}
	replies, err := e.st.ChildCount(ctx, keys.PostRepliesPrefix(post.ID))
	if err != nil {
		return nil, err
	}
	retweets, err := e.st.ChildCount(ctx, keys.RetweetersPrefix(post.ID))
	if err != nil {
		return nil, err
	}
	if likes == post.Likes && replies == post.Replies && retweets == post.Retweets {
		return post, nil
	}
	stored := stripAnnotations(post)
	stored.Likes = likes
	stored.Replies = replies
	stored.Retweets = retweets
	if err := e.st.Put(ctx, keys.GenPostKey(post.ID), stored); err != nil {
		return nil, err
	}
	logger.Info("counters_reconciled", "post", post.ID,
		"likes", likes, "replies", replies, "retweets", retweets)
	post.Likes, post.Replies, post.Retweets = likes, replies, retweets
	return post, nil
}
