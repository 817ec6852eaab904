// internal/app/store/subscription.go
package store

import "sync"

// subscriptionBuffer is how many undelivered snapshots a subscriber may
// fall behind before the store gives up on it. Matches the send-buffer
// policy of a websocket hub: a consumer that cannot keep up is cut off
// rather than allowed to stall writers.
const subscriptionBuffer = 256

// Subscription is a cancelable live stream of snapshots of type T.
//
// Contract:
//   - snapshots arrive on Updates() in publish order;
//   - Cancel is safe to call more than once and from any goroutine;
//   - after Cancel returns, the producer stops publishing and Updates()
//     is closed once the producer observes the cancellation;
//   - Updates() is also closed if the subscriber falls too far behind.
type Subscription[T any] struct {
	updates chan T
	stop    chan struct{}
	once    sync.Once
}

// NewSubscription builds an open subscription. The store implementation
// owns the producer side (Publish/Close); consumers only use Updates and
// Cancel.
func NewSubscription[T any]() *Subscription[T] {
	return &Subscription[T]{
		updates: make(chan T, subscriptionBuffer),
		stop:    make(chan struct{}),
	}
}

// Updates is the consumer side of the stream.
func (s *Subscription[T]) Updates() <-chan T { return s.updates }

// Cancel releases the subscription. Idempotent.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() { close(s.stop) })
}

// Done reports producer-visible cancellation.
func (s *Subscription[T]) Done() <-chan struct{} { return s.stop }

// Publish hands a snapshot to the subscriber. It returns false when the
// subscription is canceled or the subscriber's buffer is full; a false
// return means the producer must stop and call Close.
func (s *Subscription[T]) Publish(v T) bool {
	select {
	case <-s.stop:
		return false
	default:
	}
	select {
	case s.updates <- v:
		return true
	case <-s.stop:
		return false
	default:
		// Buffer full: the consumer is stuck. Cancel rather than block
		// the store's mutation path.
		s.Cancel()
		return false
	}
}

// Close closes the consumer channel. Producer-only, call exactly once,
// after the last Publish.
func (s *Subscription[T]) Close() {
	close(s.updates)
}
