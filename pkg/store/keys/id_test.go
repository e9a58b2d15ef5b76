package keys

import (
	"sort"
	"strings"
	"testing"
	"time"
)

func TestSortableIDNewerSortsFirst(t *testing.T) {
	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	older := NewSortableID(base)
	newer := NewSortableID(base.Add(5 * time.Second))
	if !(newer < older) {
		t.Fatalf("newer id %q should sort before older id %q", newer, older)
	}

	// ascending sort over a batch yields reverse-chronological order
	times := []time.Time{
		base.Add(30 * time.Second),
		base,
		base.Add(90 * time.Second),
		base.Add(10 * time.Second),
	}
	ids := make([]string, 0, len(times))
	for _, tm := range times {
		ids = append(ids, NewSortableID(tm))
	}
	sort.Strings(ids)
	for i := 1; i < len(ids); i++ {
		prev, err := Timestamp(ids[i-1])
		if err != nil {
			t.Fatalf("timestamp %q: %v", ids[i-1], err)
		}
		cur, err := Timestamp(ids[i])
		if err != nil {
			t.Fatalf("timestamp %q: %v", ids[i], err)
		}
		if prev.Before(cur) {
			t.Fatalf("ascending ids must be non-increasing in time: %v before %v", prev, cur)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	at := time.Date(2024, 11, 3, 8, 30, 15, 0, time.UTC)
	id := NewSortableID(at)
	got, err := Timestamp(id)
	if err != nil {
		t.Fatalf("Timestamp: %v", err)
	}
	if !got.Equal(at) {
		t.Fatalf("round trip: got %v want %v", got, at)
	}
}

func TestTimestampMalformed(t *testing.T) {
	for _, id := range []string{"", "nodash", "abc-uuid"} {
		if _, err := Timestamp(id); err == nil {
			t.Fatalf("expected error for %q", id)
		}
	}
}

func TestRetweetIDDerivation(t *testing.T) {
	src := NewSortableID(time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC))
	rt, err := RetweetID(src)
	if err != nil {
		t.Fatalf("RetweetID: %v", err)
	}
	if !IsRetweetID(rt) {
		t.Fatalf("derived id %q not recognized as retweet", rt)
	}
	if IsRetweetID(src) {
		t.Fatalf("source id %q wrongly recognized as retweet", src)
	}
	// derived entry sorts directly ahead of the source post
	if !(rt < src) {
		t.Fatalf("retweet id %q should sort before source %q", rt, src)
	}
	if got := SourcePostID(rt); got != src {
		t.Fatalf("SourcePostID: got %q want %q", got, src)
	}
	// non-retweet ids pass through unchanged
	if got := SourcePostID(src); got != src {
		t.Fatalf("SourcePostID passthrough: got %q want %q", got, src)
	}
}

func TestRetweetIDMalformed(t *testing.T) {
	if _, err := RetweetID("garbage"); err == nil {
		t.Fatalf("expected error for malformed post id")
	}
}

func TestKeyPrefixesCoverGeneratedKeys(t *testing.T) {
	cases := []struct {
		key    string
		prefix string
	}{
		{GenUserKey("u1"), UserPrefix()},
		{GenUserPostKey("u1", "id1"), UserPostsPrefix("u1")},
		{GenFollowingKey("a", "b"), FollowingPrefix("a")},
		{GenFollowerKey("b", "a"), FollowersPrefix("b")},
		{GenPostReplyKey("p1", "r1"), PostRepliesPrefix("p1")},
		{GenUserReplyKey("u1", "p1"), UserRepliesPrefix("u1")},
		{GenUserLikeKey("u1", "p1"), UserLikesPrefix("u1")},
		{GenPostLikeKey("p1", "u1"), PostLikesPrefix("p1")},
		{GenRetweetKey("p1", "u1"), RetweetersPrefix("p1")},
		{GenNotificationKey("u1", "n1"), NotificationsPrefix("u1")},
		{GenMessageKey("a", "b", "m1"), MessagesPrefix("a", "b")},
		{GenRecentMsgKey("a", "b"), RecentMsgsPrefix("a")},
		{GenPostKey("p1"), PostsPrefix()},
	}
	for _, c := range cases {
		if !strings.HasPrefix(c.key, c.prefix) {
			t.Fatalf("key %q not under prefix %q", c.key, c.prefix)
		}
	}
}
