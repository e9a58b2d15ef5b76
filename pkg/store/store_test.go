package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestPutGetRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	type rec struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	if err := st.Put(ctx, "t:1", rec{Name: "a", N: 7}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var got rec
	if err := st.Get(ctx, "t:1", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "a" || got.N != 7 {
		t.Fatalf("got %+v", got)
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.GetRaw(context.Background(), "t:missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHasAndDelete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.PutRaw(ctx, "t:x", Presence); err != nil {
		t.Fatalf("PutRaw: %v", err)
	}
	ok, err := st.Has(ctx, "t:x")
	if err != nil || !ok {
		t.Fatalf("Has: %v %v", ok, err)
	}
	if err := st.Delete(ctx, "t:x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, err = st.Has(ctx, "t:x")
	if err != nil || ok {
		t.Fatalf("Has after delete: %v %v", ok, err)
	}
	// deleting a missing key is not an error
	if err := st.Delete(ctx, "t:x"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.Put(ctx, "t:u", map[string]any{"a": "keep", "b": "old"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Update(ctx, "t:u", map[string]any{"b": "new", "c": "added"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	var got map[string]any
	if err := st.Get(ctx, "t:u", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := map[string]any{"a": "keep", "b": "new", "c": "added"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	// missing node starts from an empty object
	if err := st.Update(ctx, "t:fresh", map[string]any{"x": "y"}); err != nil {
		t.Fatalf("Update fresh: %v", err)
	}
	var fresh map[string]any
	if err := st.Get(ctx, "t:fresh", &fresh); err != nil {
		t.Fatalf("Get fresh: %v", err)
	}
	if fresh["x"] != "y" {
		t.Fatalf("got %v", fresh)
	}
}

func TestChildrenOrderedAndPrefixStripped(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"idx:z:b", "idx:z:a", "idx:z:c", "idx:zz:other", "idy:z:a"} {
		if err := st.PutRaw(ctx, k, Presence); err != nil {
			t.Fatalf("PutRaw %s: %v", k, err)
		}
	}
	children, err := st.Children(ctx, "idx:z:")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	for i, want := range []string{"a", "b", "c"} {
		if children[i].Key != want {
			t.Fatalf("child %d: got %q want %q", i, children[i].Key, want)
		}
	}

	n, err := st.ChildCount(ctx, "idx:z:")
	if err != nil || n != 3 {
		t.Fatalf("ChildCount: %d %v", n, err)
	}
}

func TestDeletePrefix(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"n:u1:a", "n:u1:b", "n:u2:a"} {
		if err := st.PutRaw(ctx, k, Presence); err != nil {
			t.Fatalf("PutRaw %s: %v", k, err)
		}
	}
	if err := st.DeletePrefix(ctx, "n:u1:"); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	n, err := st.ChildCount(ctx, "n:u1:")
	if err != nil || n != 0 {
		t.Fatalf("u1 count after delete: %d %v", n, err)
	}
	n, err = st.ChildCount(ctx, "n:u2:")
	if err != nil || n != 1 {
		t.Fatalf("u2 count: %d %v", n, err)
	}
}

func TestBatchCommitAppliesAllWrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.PutRaw(ctx, "t:doomed", Presence); err != nil {
		t.Fatalf("PutRaw: %v", err)
	}

	b := st.Batch()
	if err := b.Put("t:one", "v1"); err != nil {
		t.Fatalf("batch Put: %v", err)
	}
	b.PutRaw("t:two", Presence)
	b.Delete("t:doomed")
	if b.Len() != 3 {
		t.Fatalf("Len: got %d want 3", b.Len())
	}

	// nothing is visible before commit
	if ok, _ := st.Has(ctx, "t:one"); ok {
		t.Fatalf("staged write visible before commit")
	}

	if err := b.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	for _, k := range []string{"t:one", "t:two"} {
		ok, err := st.Has(ctx, k)
		if err != nil || !ok {
			t.Fatalf("missing %s after commit: %v", k, err)
		}
	}
	if ok, _ := st.Has(ctx, "t:doomed"); ok {
		t.Fatalf("deleted key survived commit")
	}
}

func TestObserveReceivesPrefixedWrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ch, cancel := st.Observe("idx:up:u1:")
	defer cancel()

	if err := st.PutRaw(ctx, "idx:up:u2:p", Presence); err != nil {
		t.Fatalf("PutRaw: %v", err)
	}
	if err := st.PutRaw(ctx, "idx:up:u1:p", Presence); err != nil {
		t.Fatalf("PutRaw: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Key != "idx:up:u1:p" {
			t.Fatalf("got event for %q", ev.Key)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}
	select {
	case ev := <-ch:
		t.Fatalf("unexpected second event %q", ev.Key)
	default:
	}
}

func TestObserveReceivesBatchWrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ch, cancel := st.Observe("p:")
	defer cancel()

	b := st.Batch()
	b.PutRaw("p:1", []byte("x"))
	b.PutRaw("u:1", []byte("y"))
	if err := b.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Key != "p:1" {
			t.Fatalf("got event for %q", ev.Key)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered after batch commit")
	}
}

func TestCanceledContextRejected(t *testing.T) {
	st := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := st.PutRaw(ctx, "t:k", Presence); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
