package social

import (
	"context"
	"path/filepath"
	"testing"

	"birdfeed/pkg/models"
	"birdfeed/pkg/store"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return New(st, nil)
}

func mustRegister(t *testing.T, svc *Services, uid, username string) {
	t.Helper()
	err := svc.Users.Register(context.Background(), models.User{
		UID:      uid,
		Email:    uid + "@example.com",
		Fullname: "User " + uid,
		Username: username,
	})
	if err != nil {
		t.Fatalf("register %s: %v", uid, err)
	}
}

func mustPost(t *testing.T, svc *Services, uid, caption string) *models.Post {
	t.Helper()
	post, err := svc.Posts.Create(context.Background(), uid, caption)
	if err != nil {
		t.Fatalf("create post by %s: %v", uid, err)
	}
	return post
}
