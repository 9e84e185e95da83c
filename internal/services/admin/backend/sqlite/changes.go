package sqlite

import (
	"context"
	"sync"

	"github.com/louisbranch/paydesk/internal/services/admin/backend"
)

const subscriptionBuffer = 32

// Subscribe opens an in-process change feed for tables. Events that arrive
// while the buffer is full are dropped; consumers re-read whole panels so a
// missed event is recovered by the next one.
func (s *Store) Subscribe(ctx context.Context, tables ...string) (backend.Subscription, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	sub := s.changes.add(tables)
	go func() {
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	}()
	return sub, nil
}

type broadcaster struct {
	mu     sync.RWMutex
	subs   map[*subscription]struct{}
	closed bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[*subscription]struct{})}
}

func (b *broadcaster) add(tables []string) *subscription {
	sub := &subscription{
		owner:  b,
		tables: make(map[string]bool, len(tables)),
		events: make(chan backend.ChangeEvent, subscriptionBuffer),
		done:   make(chan struct{}),
	}
	for _, table := range tables {
		sub.tables[table] = true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.finish()
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

func (b *broadcaster) publish(event backend.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if len(sub.tables) > 0 && !sub.tables[event.Table] {
			continue
		}
		select {
		case sub.events <- event:
		default:
		}
	}
}

func (b *broadcaster) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
	}
	sub.finish()
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		sub.finish()
	}
}

type subscription struct {
	owner  *broadcaster
	tables map[string]bool
	events chan backend.ChangeEvent
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) Events() <-chan backend.ChangeEvent {
	return s.events
}

func (s *subscription) Close() error {
	s.owner.remove(s)
	return nil
}

// finish must run with the owner's write lock held so publish never sends on
// a closed channel.
func (s *subscription) finish() {
	s.once.Do(func() {
		close(s.done)
		close(s.events)
	})
}
