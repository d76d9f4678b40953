package remote

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Broadcast fans a change notification out to every subscriber. Each subscriber has a
// one-slot buffer; when a subscriber has not yet drained the previous value, the new
// one is dropped, since a pending signal already means "refetch".
type Broadcast[T any] struct {
	subs   map[uint64]chan T
	next   uint64
	mu     sync.Mutex
	closed bool
}

// NewBroadcast creates an empty broadcast.
func NewBroadcast[T any]() *Broadcast[T] {
	return &Broadcast[T]{subs: make(map[uint64]chan T)}
}

// Subscribe returns a channel of notifications and a function that unsubscribes and
// closes it.
func (b *Broadcast[T]) Subscribe() (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Publish notifies every subscriber without blocking.
func (b *Broadcast[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// Subscribers returns how many subscriptions are open.
func (b *Broadcast[T]) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscription. Later subscribers get a closed channel.
func (b *Broadcast[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Changed is delivered to Update when a broadcast value arrives.
type Changed[T any] struct {
	Value T
}

// Listen returns a command that waits for the next value on ch. It yields nil once the
// channel is closed, which ends the listening loop.
func Listen[T any](ch <-chan T) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return Changed[T]{Value: v}
	}
}
