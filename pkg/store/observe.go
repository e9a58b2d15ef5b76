package store

import (
	"strings"
	"sync"
)

// Event is one observed write: the full key and the value that was written.
type Event struct {
	Key   string
	Value []byte
}

// observers implements subscribe-for-delta child addition. Delivery is
// best-effort: a subscriber that falls behind loses events rather than
// blocking the write path, matching the "eventually, once per add" contract.
type observers struct {
	mu   sync.Mutex
	subs map[int]*subscription
	next int
}

type subscription struct {
	prefix string
	ch     chan Event
}

const observeBuffer = 64

func newObservers() *observers {
	return &observers{subs: make(map[int]*subscription)}
}

// Observe returns a channel receiving writes under prefix and a cancel
// function that closes the subscription.
func (s *Store) Observe(prefix string) (<-chan Event, func()) {
	s.obs.mu.Lock()
	defer s.obs.mu.Unlock()
	id := s.obs.next
	s.obs.next++
	sub := &subscription{prefix: prefix, ch: make(chan Event, observeBuffer)}
	s.obs.subs[id] = sub
	cancel := func() {
		s.obs.mu.Lock()
		defer s.obs.mu.Unlock()
		if cur, ok := s.obs.subs[id]; ok {
			delete(s.obs.subs, id)
			close(cur.ch)
		}
	}
	return sub.ch, cancel
}

func (o *observers) notify(key string, value []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, sub := range o.subs {
		if !strings.HasPrefix(key, sub.prefix) {
			continue
		}
		select {
		case sub.ch <- Event{Key: key, Value: value}:
		default:
		}
	}
}
