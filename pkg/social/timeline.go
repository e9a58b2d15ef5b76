package social

import (
	"context"
	"sort"
	"time"

	"birdfeed/pkg/models"
	"birdfeed/pkg/store"
	"birdfeed/pkg/store/keys"
	"birdfeed/pkg/telemetry"
)

// Timeline assembles the home feed for a viewer: the union of their own
// posts and those of everyone they follow, merged in reverse-chronological
// order. It is a stateless pull: every call re-walks the followee indexes.
// Cost is O(followees × avg posts), acceptable at this scale; a cache or
// materialized per-viewer feed would be the next step, not a correctness
// requirement.
type Timeline struct {
	st         *store.Store
	graph      *Graph
	posts      *Posts
	engagement *Engagement
}

func NewTimeline(st *store.Store, graph *Graph, posts *Posts, engagement *Engagement) *Timeline {
	return &Timeline{st: st, graph: graph, posts: posts, engagement: engagement}
}

// Home returns the viewer's timeline with authors resolved and each post
// annotated with the viewer's like state.
func (t *Timeline) Home(ctx context.Context, viewerUID string) ([]*models.Post, error) {
	defer telemetry.Observe("timeline.home", time.Now())

	followees, err := t.graph.FollowingUIDs(ctx, viewerUID)
	if err != nil {
		return nil, err
	}
	authors := append(followees, viewerUID)

	// union so a post retweeted into several followed feeds appears once
	seen := map[string]bool{}
	var ids []string
	for _, uid := range authors {
		children, cerr := t.st.Children(ctx, keys.UserPostsPrefix(uid))
		if cerr != nil {
			return nil, cerr
		}
		for _, c := range children {
			id := keys.SourcePostID(c.Key)
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, c.Key)
		}
	}

	// the ID scheme makes ascending key order reverse-chronological
	sort.Strings(ids)

	out := t.posts.Resolve(ctx, ids)
	for _, post := range out {
		liked, lerr := t.engagement.IsLiked(ctx, viewerUID, post.ID)
		if lerr == nil {
			post.IsLiked = liked
		}
	}
	return out, nil
}
