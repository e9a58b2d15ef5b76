package keys

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// idCeiling is subtracted from the creation time so that newer IDs carry a
// smaller numeric prefix. Ascending byte order over the keyspace then yields
// reverse-chronological order without a sort pass.
const idCeiling int64 = 10_000_000_000

// RetweetSuffix marks IDs that were derived from another post by a retweet.
const RetweetSuffix = "-retweet"

// NewSortableID returns a composite ID of the form
// "<ceiling-unix_seconds>-<uuid>". The numeric prefix is zero-padded to a
// fixed width so lexicographic and numeric order agree.
func NewSortableID(t time.Time) string {
	rev := idCeiling - t.UTC().Unix()
	return fmt.Sprintf("%010d-%s", rev, uuid.NewString())
}

// Timestamp recovers the creation time encoded in a sortable ID.
func Timestamp(id string) (time.Time, error) {
	prefix, _, ok := strings.Cut(id, "-")
	if !ok {
		return time.Time{}, fmt.Errorf("malformed sortable id %q", id)
	}
	rev, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed sortable id %q: %w", id, err)
	}
	return time.Unix(idCeiling-rev, 0).UTC(), nil
}

// RetweetID derives a new post ID from the source post's ID. The numeric
// prefix is decremented by one so the retweet sorts directly ahead of the
// source post, and the suffix tags the ID as a derived entry.
func RetweetID(postID string) (string, error) {
	prefix, rest, ok := strings.Cut(postID, "-")
	if !ok {
		return "", fmt.Errorf("malformed post id %q", postID)
	}
	n, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return "", fmt.Errorf("malformed post id %q: %w", postID, err)
	}
	return fmt.Sprintf("%010d-%s%s", n-1, rest, RetweetSuffix), nil
}

// IsRetweetID reports whether an ID was derived by RetweetID.
func IsRetweetID(id string) bool {
	return strings.HasSuffix(id, RetweetSuffix)
}

// SourcePostID strips the retweet derivation from an ID, returning the
// original post reference. Non-retweet IDs are returned unchanged.
func SourcePostID(id string) string {
	if !IsRetweetID(id) {
		return id
	}
	base := strings.TrimSuffix(id, RetweetSuffix)
	prefix, rest, ok := strings.Cut(base, "-")
	if !ok {
		return base
	}
	n, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return base
	}
	return fmt.Sprintf("%010d-%s", n+1, rest)
}
