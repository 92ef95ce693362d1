package session

import (
	"sync"

	domainauth "github.com/lindasales/salespro/internal/domain/auth"
)

// Broker fans session lifecycle events out to subscribers. Publishing is
// non-blocking: each subscriber holds a small buffer and slow consumers drop
// the oldest pending event in favour of the newest, which is safe because
// handlers are idempotent with respect to duplicate or collapsed transitions.
type Broker struct {
	mu     sync.Mutex
	subs   map[chan domainauth.Event]struct{}
	closed bool
}

// NewBroker constructs an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan domainauth.Event]struct{})}
}

// Subscribe registers a new subscriber and returns its event channel together
// with an unsubscribe handle. Unsubscribe is idempotent; after it returns the
// channel is closed and receives nothing further.
func (b *Broker) Subscribe() (<-chan domainauth.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domainauth.Event, 8)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; !ok {
			return
		}
		delete(b.subs, ch)
		drainAndClose(ch)
	}
	return ch, unsub
}

// Publish delivers the event to every current subscriber without blocking.
// When a subscriber's buffer is full the oldest pending event is discarded.
func (b *Broker) Publish(ev domainauth.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// Close tears down all subscriptions. Subsequent Publish calls are no-ops and
// subsequent Subscribe calls return an already-closed channel.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		drainAndClose(ch)
		delete(b.subs, ch)
	}
}

// SubscriberCount reports the number of active subscriptions (used in tests).
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// drainAndClose removes any buffered events before closing the channel so
// receivers observe a closed channel immediately.
func drainAndClose(ch chan domainauth.Event) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}
