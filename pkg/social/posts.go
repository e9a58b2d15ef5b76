package social

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"birdfeed/pkg/logger"
	"birdfeed/pkg/models"
	"birdfeed/pkg/store"
	"birdfeed/pkg/store/keys"
	"birdfeed/pkg/telemetry"
	"birdfeed/pkg/validation"
)

var mentionRe = regexp.MustCompile(`@([a-z0-9_]{1,15})`)

// Posts is the content store and fan-out writer. Each create commits the
// post record and every derived index entry in one batch, so an index never
// references a post that was not durably written.
type Posts struct {
	st       *store.Store
	users    *Users
	notifier *Notifier

	// serializes read-modify-writes of post records. Engagement locks the
	// same mutex, so a like and a reply on one post cannot interleave
	// their counter rewrites.
	mu sync.Mutex
}

func NewPosts(st *store.Store, users *Users, notifier *Notifier) *Posts {
	return &Posts{st: st, users: users, notifier: notifier}
}

// Create writes a new top-level post: the record under the global posts
// index plus the author's user-posts marker. Mentioned users are notified
// after the commit.
func (p *Posts) Create(ctx context.Context, authorUID, caption string) (*models.Post, error) {
	defer telemetry.Observe("posts.create", time.Now())
	if err := validation.ValidateCaption(caption); err != nil {
		return nil, err
	}
	author, err := p.users.Get(ctx, authorUID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := models.Post{
		ID:        keys.NewSortableID(now),
		AuthorUID: authorUID,
		Caption:   caption,
		Timestamp: now.UTC().Unix(),
	}

	b := p.st.Batch()
	if err := b.Put(keys.GenPostKey(post.ID), post); err != nil {
		return nil, err
	}
	b.PutRaw(keys.GenUserPostKey(authorUID, post.ID), store.Presence)
	if err := b.Commit(ctx); err != nil {
		return nil, fmt.Errorf("create post by %s: %w", authorUID, err)
	}
	logger.Info("post_created", "id", post.ID, "author", authorUID)

	p.notifyMentions(ctx, authorUID, caption, post.ID)
	post.Author = author
	return &post, nil
}

// Reply writes a reply to parentID: the reply record, the author's
// user-posts marker, the parent's reply index entry, the author's
// back-reference, and the parent's incremented reply counter, all in one
// batch. The parent's author is notified after the commit.
func (p *Posts) Reply(ctx context.Context, authorUID, caption, parentID string) (*models.Post, error) {
	defer telemetry.Observe("posts.reply", time.Now())
	if err := validation.ValidateCaption(caption); err != nil {
		return nil, err
	}
	author, err := p.users.Get(ctx, authorUID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	parent, err := p.Get(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("reply parent: %w", err)
	}

	now := time.Now()
	reply := models.Post{
		ID:         keys.NewSortableID(now),
		AuthorUID:  authorUID,
		Caption:    caption,
		Timestamp:  now.UTC().Unix(),
		ParentID:   parent.ID,
		ReplyingTo: parent.Author.Username,
	}

	parentStored := stripAnnotations(parent)
	parentStored.Replies++

	b := p.st.Batch()
	if err := b.Put(keys.GenPostKey(reply.ID), reply); err != nil {
		return nil, err
	}
	b.PutRaw(keys.GenUserPostKey(authorUID, reply.ID), store.Presence)
	b.PutRaw(keys.GenPostReplyKey(parent.ID, reply.ID), store.Presence)
	if err := b.Put(keys.GenUserReplyKey(authorUID, parent.ID), reply.ID); err != nil {
		return nil, err
	}
	if err := b.Put(keys.GenPostKey(parent.ID), parentStored); err != nil {
		return nil, err
	}
	if err := b.Commit(ctx); err != nil {
		return nil, fmt.Errorf("reply to %s by %s: %w", parent.ID, authorUID, err)
	}
	logger.Info("reply_created", "id", reply.ID, "parent", parent.ID, "author", authorUID)

	p.notifier.Notify(ctx, models.NotifyReply, authorUID, parent.AuthorUID, parent.ID)
	p.notifyMentions(ctx, authorUID, caption, reply.ID)
	reply.Author = author
	return &reply, nil
}

// Retweet republishes postID into the actor's own indexes under a derived
// ID that sorts just ahead of the source post. Repeat retweets of the same
// post are no-ops.
func (p *Posts) Retweet(ctx context.Context, actorUID, postID string) error {
	defer telemetry.Observe("posts.retweet", time.Now())
	if _, err := p.users.Get(ctx, actorUID); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	src, err := p.Get(ctx, postID)
	if err != nil {
		return err
	}
	already, err := p.st.Has(ctx, keys.GenRetweetKey(src.ID, actorUID))
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	rtID, err := keys.RetweetID(src.ID)
	if err != nil {
		return err
	}
	srcStored := stripAnnotations(src)
	srcStored.Retweets++

	b := p.st.Batch()
	b.PutRaw(keys.GenUserPostKey(actorUID, rtID), store.Presence)
	if err := b.Put(keys.GenUserReplyKey(actorUID, rtID), src.ID); err != nil {
		return err
	}
	b.PutRaw(keys.GenRetweetKey(src.ID, actorUID), store.Presence)
	if err := b.Put(keys.GenPostKey(src.ID), srcStored); err != nil {
		return err
	}
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("retweet %s by %s: %w", src.ID, actorUID, err)
	}
	logger.Info("retweet_created", "post", src.ID, "actor", actorUID)

	p.notifier.Notify(ctx, models.NotifyRetweet, actorUID, src.AuthorUID, src.ID)
	return nil
}

// Get dereferences a post ID to the full record with its author resolved.
// Retweet-derived IDs resolve to the source post.
func (p *Posts) Get(ctx context.Context, id string) (*models.Post, error) {
	id = keys.SourcePostID(id)
	var post models.Post
	if err := p.st.Get(ctx, keys.GenPostKey(id), &post); err != nil {
		return nil, fmt.Errorf("post %s: %w", id, err)
	}
	post.ID = id
	author, err := p.users.Get(ctx, post.AuthorUID)
	if err != nil {
		return nil, fmt.Errorf("post %s author: %w", id, err)
	}
	post.Author = author
	return &post, nil
}

// ByAuthor lists uid's posts (including retweets) newest-first.
func (p *Posts) ByAuthor(ctx context.Context, uid string) ([]*models.Post, error) {
	defer telemetry.Observe("posts.by_author", time.Now())
	children, err := p.st.Children(ctx, keys.UserPostsPrefix(uid))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.Key)
	}
	return p.Resolve(ctx, ids), nil
}

// RepliesTo lists the direct replies of a post newest-first.
func (p *Posts) RepliesTo(ctx context.Context, postID string) ([]*models.Post, error) {
	defer telemetry.Observe("posts.replies_to", time.Now())
	children, err := p.st.Children(ctx, keys.PostRepliesPrefix(postID))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.Key)
	}
	return p.Resolve(ctx, ids), nil
}

// RepliesBy lists uid's replies newest-first by following the
// user-replies back-references. Retweet back-references are skipped.
func (p *Posts) RepliesBy(ctx context.Context, uid string) ([]*models.Post, error) {
	defer telemetry.Observe("posts.replies_by", time.Now())
	children, err := p.st.Children(ctx, keys.UserRepliesPrefix(uid))
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, c := range children {
		if keys.IsRetweetID(c.Key) {
			continue
		}
		var replyID string
		if err := p.st.Get(ctx, keys.GenUserReplyKey(uid, c.Key), &replyID); err != nil {
			continue
		}
		ids = append(ids, replyID)
	}
	sort.Strings(ids)
	return p.Resolve(ctx, ids), nil
}

// Recent lists the newest posts across all authors, up to limit
// (0 means no limit). The global posts index is already in
// reverse-chronological key order.
func (p *Posts) Recent(ctx context.Context, limit int) ([]*models.Post, error) {
	defer telemetry.Observe("posts.recent", time.Now())
	children, err := p.st.Children(ctx, keys.PostsPrefix())
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.Key)
		if limit > 0 && len(ids) == limit {
			break
		}
	}
	return p.Resolve(ctx, ids), nil
}

// Resolve dereferences IDs in order, skipping entries whose record or
// author is missing; a dangling index entry must not fail the listing.
func (p *Posts) Resolve(ctx context.Context, ids []string) []*models.Post {
	out := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		post, err := p.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logger.Warn("post_resolve_failed", "id", id, "error", err)
			}
			continue
		}
		out = append(out, post)
	}
	return out
}

// notifyMentions fans a mention notification out to every @username the
// caption resolves to. Unknown names and self-mentions are ignored.
func (p *Posts) notifyMentions(ctx context.Context, authorUID, caption, postID string) {
	seen := map[string]bool{}
	for _, m := range mentionRe.FindAllStringSubmatch(caption, -1) {
		username := m[1]
		if seen[username] {
			continue
		}
		seen[username] = true
		mentioned, err := p.users.GetByUsername(ctx, username)
		if err != nil {
			continue
		}
		p.notifier.Notify(ctx, models.NotifyMention, authorUID, mentioned.UID, postID)
	}
}

// stripAnnotations returns a copy safe to persist: read-time fields cleared.
func stripAnnotations(post *models.Post) models.Post {
	stored := *post
	stored.Author = nil
	stored.IsLiked = false
	return stored
}
