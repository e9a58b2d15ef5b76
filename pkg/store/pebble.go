package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"

	"birdfeed/pkg/logger"
	"birdfeed/pkg/telemetry"
)

// ErrNotFound is returned by point reads when no node exists at a key.
var ErrNotFound = errors.New("store: key not found")

// Presence is the value written for index entries whose only meaning is
// "this key exists".
var Presence = []byte("1")

// Child is one immediate child of a prefix: the key remainder after the
// prefix plus the stored value.
type Child struct {
	Key   string
	Value []byte
}

// Store is a hierarchical key-value tree over Pebble. Keys are ":"-separated
// paths built by the keys package; byte-lexicographic iteration order is the
// only ordering the store provides, so callers encode their desired order
// into the keys themselves.
type Store struct {
	db   *pebble.DB
	path string
	obs  *observers
}

// Open opens (or creates) a Pebble database at the given path.
func Open(path string) (*Store, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, err
	}
	return &Store{db: db, path: path, obs: newObservers()}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	logger.Info("pebble_closed", "path", s.path)
	return nil
}

// Ready reports whether the store is opened and usable.
func (s *Store) Ready() bool { return s != nil && s.db != nil }

// Path returns the on-disk location of the database.
func (s *Store) Path() string { return s.path }

func (s *Store) check(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	return ctx.Err()
}

// Put JSON-encodes v and writes it at key.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.PutRaw(ctx, key, data)
}

// PutRaw writes pre-encoded bytes at key.
func (s *Store) PutRaw(ctx context.Context, key string, data []byte) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if err := s.db.Set([]byte(key), data, pebble.Sync); err != nil {
		logger.Error("store_put_failed", "key", key, "error", err)
		return err
	}
	telemetry.StoreOps.WithLabelValues("put").Inc()
	s.obs.notify(key, data)
	return nil
}

// Get reads the node at key and JSON-decodes it into out.
func (s *Store) Get(ctx context.Context, key string, out any) error {
	data, err := s.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

// GetRaw reads the raw bytes at key.
func (s *Store) GetRaw(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	v, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		logger.Error("store_get_failed", "key", key, "error", err)
		return nil, err
	}
	out := make([]byte, len(v))
	copy(out, v)
	if closer != nil {
		_ = closer.Close()
	}
	telemetry.StoreOps.WithLabelValues("get").Inc()
	return out, nil
}

// Has reports whether a node exists at key.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.GetRaw(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update merges fields into the JSON object stored at key. Missing nodes
// start from an empty object. The merge is a single read-modify-write; the
// store is the only writer of each key so last-writer-wins is acceptable
// here, and multi-key consistency goes through Batch instead.
func (s *Store) Update(ctx context.Context, key string, fields map[string]any) error {
	cur := map[string]any{}
	data, err := s.GetRaw(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err == nil {
		if uerr := json.Unmarshal(data, &cur); uerr != nil {
			return fmt.Errorf("unmarshal %s: %w", key, uerr)
		}
	}
	for k, v := range fields {
		cur[k] = v
	}
	return s.Put(ctx, key, cur)
}

// Delete removes the node at key. Deleting a missing node is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		logger.Error("store_delete_failed", "key", key, "error", err)
		return err
	}
	telemetry.StoreOps.WithLabelValues("delete").Inc()
	return nil
}

// DeletePrefix removes every node under prefix in one atomic batch.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if err := s.db.DeleteRange([]byte(prefix), prefixUpperBound(prefix), pebble.Sync); err != nil {
		logger.Error("store_delete_prefix_failed", "prefix", prefix, "error", err)
		return err
	}
	telemetry.StoreOps.WithLabelValues("delete_prefix").Inc()
	return nil
}

// Children lists the immediate children under prefix in ascending key
// order. The returned Child keys have the prefix stripped.
func (s *Store) Children(ctx context.Context, prefix string) ([]Child, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []Child
	for iter.First(); iter.Valid(); iter.Next() {
		key := strings.TrimPrefix(string(iter.Key()), prefix)
		val := make([]byte, len(iter.Value()))
		copy(val, iter.Value())
		out = append(out, Child{Key: key, Value: val})
	}
	telemetry.StoreOps.WithLabelValues("children").Inc()
	return out, iter.Error()
}

// ChildCount counts the immediate children under prefix.
func (s *Store) ChildCount(ctx context.Context, prefix string) (int, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()
	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix.
func prefixUpperBound(prefix string) []byte {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] != 0xff {
			out := make([]byte, i+1)
			copy(out, b[:i+1])
			out[i]++
			return out
		}
	}
	return nil
}
