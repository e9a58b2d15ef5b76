package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"birdfeed/pkg/logger"
	"birdfeed/pkg/telemetry"
)

// Batch stages writes to multiple keys and commits them atomically. Every
// multi-index fan-out goes through a Batch so a failure leaves either all of
// an operation's derived entries or none of them.
type Batch struct {
	store  *Store
	b      *pebble.Batch
	staged []Event
}

// Batch returns a new write batch against the store.
func (s *Store) Batch() *Batch {
	return &Batch{store: s, b: s.db.NewBatch()}
}

// Put stages a JSON-encoded write.
func (b *Batch) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	b.PutRaw(key, data)
	return nil
}

// PutRaw stages a raw write.
func (b *Batch) PutRaw(key string, data []byte) {
	_ = b.b.Set([]byte(key), data, nil)
	b.staged = append(b.staged, Event{Key: key, Value: data})
}

// Delete stages a key removal.
func (b *Batch) Delete(key string) {
	_ = b.b.Delete([]byte(key), nil)
}

// Len reports the number of staged mutations.
func (b *Batch) Len() int { return int(b.b.Count()) }

// Commit applies all staged mutations atomically and releases the batch.
func (b *Batch) Commit(ctx context.Context) error {
	if err := b.store.check(ctx); err != nil {
		b.b.Close()
		return err
	}
	n := b.Len()
	if err := b.b.Commit(pebble.Sync); err != nil {
		logger.Error("store_batch_commit_failed", "mutations", n, "error", err)
		b.b.Close()
		return err
	}
	telemetry.StoreOps.WithLabelValues("batch_commit").Inc()
	telemetry.FanoutWrites.Add(float64(n))
	for _, ev := range b.staged {
		b.store.obs.notify(ev.Key, ev.Value)
	}
	b.staged = nil
	return nil
}
