// Package social implements the timeline and social-graph fan-out engine:
// follows, posts, replies, retweets, likes, notifications and direct
// messages organized as denormalized per-user indexes over the store, so
// every read surface assembles from flat prefix walks.
package social

import (
	"birdfeed/pkg/blob"
	"birdfeed/pkg/store"
)

// Services bundles the engine's components wired over one store handle.
type Services struct {
	Users      *Users
	Graph      *Graph
	Posts      *Posts
	Engagement *Engagement
	Notifier   *Notifier
	Timeline   *Timeline
	Messages   *Messages
}

// New wires the components in dependency order. blobs may be nil when no
// profile-image storage is configured.
func New(st *store.Store, blobs blob.Store) *Services {
	users := NewUsers(st, blobs)
	notifier := NewNotifier(st, users)
	graph := NewGraph(st, users, notifier)
	posts := NewPosts(st, users, notifier)
	engagement := NewEngagement(st, posts, notifier)
	timeline := NewTimeline(st, graph, posts, engagement)
	messages := NewMessages(st, users)
	return &Services{
		Users:      users,
		Graph:      graph,
		Posts:      posts,
		Engagement: engagement,
		Notifier:   notifier,
		Timeline:   timeline,
		Messages:   messages,
	}
}
