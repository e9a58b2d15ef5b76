package social

import (
	"context"
	"fmt"
	"sync"
	"time"

	"birdfeed/pkg/logger"
	"birdfeed/pkg/models"
	"birdfeed/pkg/store"
	"birdfeed/pkg/store/keys"
	"birdfeed/pkg/telemetry"
)

// Graph maintains the follow adjacency: every edge is materialized in both
// the follower's following-index and the followee's followers-index, written
// together in one batch so no partial edge can be observed after a commit.
type Graph struct {
	st       *store.Store
	users    *Users
	notifier *Notifier

	mu sync.Mutex
}

func NewGraph(st *store.Store, users *Users, notifier *Notifier) *Graph {
	return &Graph{st: st, users: users, notifier: notifier}
}

// Follow creates the edge actor→target and notifies the target. Following
// an already-followed user is a no-op and emits no second notification.
func (g *Graph) Follow(ctx context.Context, actorUID, targetUID string) error {
	defer telemetry.Observe("graph.follow", time.Now())
	if actorUID == targetUID {
		return ErrSelfFollow
	}
	if _, err := g.users.Get(ctx, targetUID); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	already, err := g.st.Has(ctx, keys.GenFollowingKey(actorUID, targetUID))
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	b := g.st.Batch()
	b.PutRaw(keys.GenFollowingKey(actorUID, targetUID), store.Presence)
	b.PutRaw(keys.GenFollowerKey(targetUID, actorUID), store.Presence)
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("follow %s -> %s: %w", actorUID, targetUID, err)
	}
	logger.Info("follow_created", "actor", actorUID, "target", targetUID)
	g.notifier.Notify(ctx, models.NotifyFollow, actorUID, targetUID, "")
	return nil
}

// Unfollow removes both sides of the edge. Removing a missing edge is not
// an error.
func (g *Graph) Unfollow(ctx context.Context, actorUID, targetUID string) error {
	defer telemetry.Observe("graph.unfollow", time.Now())
	g.mu.Lock()
	defer g.mu.Unlock()

	b := g.st.Batch()
	b.Delete(keys.GenFollowingKey(actorUID, targetUID))
	b.Delete(keys.GenFollowerKey(targetUID, actorUID))
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("unfollow %s -> %s: %w", actorUID, targetUID, err)
	}
	logger.Info("follow_removed", "actor", actorUID, "target", targetUID)
	return nil
}

// IsFollowing reports whether actor follows target.
func (g *Graph) IsFollowing(ctx context.Context, actorUID, targetUID string) (bool, error) {
	return g.st.Has(ctx, keys.GenFollowingKey(actorUID, targetUID))
}

// Stats counts followers and followees. The two index reads are independent
// point-in-time counts; the gap between them is display-only.
func (g *Graph) Stats(ctx context.Context, uid string) (models.UserStats, error) {
	followers, err := g.st.ChildCount(ctx, keys.FollowersPrefix(uid))
	if err != nil {
		return models.UserStats{}, err
	}
	following, err := g.st.ChildCount(ctx, keys.FollowingPrefix(uid))
	if err != nil {
		return models.UserStats{}, err
	}
	return models.UserStats{Followers: followers, Following: following}, nil
}

// FollowingUIDs returns the raw followee set for uid.
func (g *Graph) FollowingUIDs(ctx context.Context, uid string) ([]string, error) {
	children, err := g.st.Children(ctx, keys.FollowingPrefix(uid))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(children))
	for _, c := range children {
		out = append(out, c.Key)
	}
	return out, nil
}

// Following resolves the users uid follows. Each entry is trivially
// annotated as followed since that is what put them in the index.
func (g *Graph) Following(ctx context.Context, uid string) ([]*models.User, error) {
	uids, err := g.FollowingUIDs(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]*models.User, 0, len(uids))
	for _, fuid := range uids {
		user, uerr := g.users.Get(ctx, fuid)
		if uerr != nil {
			logger.Warn("following_skip_dangling", "uid", fuid)
			continue
		}
		user.IsFollowed = true
		out = append(out, user)
	}
	return out, nil
}

// Followers resolves the users following uid, each annotated with whether
// the viewer follows them back.
func (g *Graph) Followers(ctx context.Context, uid, viewerUID string) ([]*models.User, error) {
	children, err := g.st.Children(ctx, keys.FollowersPrefix(uid))
	if err != nil {
		return nil, err
	}
	out := make([]*models.User, 0, len(children))
	for _, c := range children {
		user, uerr := g.users.Get(ctx, c.Key)
		if uerr != nil {
			logger.Warn("followers_skip_dangling", "uid", c.Key)
			continue
		}
		if viewerUID != "" {
			followed, ferr := g.IsFollowing(ctx, viewerUID, c.Key)
			if ferr == nil {
				user.IsFollowed = followed
			}
		}
		out = append(out, user)
	}
	return out, nil
}
