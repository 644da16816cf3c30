package storage

import (
	"context"
	"sync"
)

// Broker wraps a Store and publishes the region name after every
// successful write. UI code that used to poll for cross-tab changes can
// subscribe instead; unsubscribe is the cancellation.
type Broker struct {
	inner Store

	mu   sync.Mutex
	next int
	subs map[int]chan string
}

func NewBroker(inner Store) *Broker {
	return &Broker{inner: inner, subs: make(map[int]chan string)}
}

// Subscribe returns a channel receiving region names on change and a
// function that unsubscribes and closes the channel. Slow subscribers drop
// notifications instead of blocking writers.
func (b *Broker) Subscribe(buffer int) (<-chan string, func()) {
	ch := make(chan string, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Broker) publish(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- key:
		default:
		}
	}
}

func (b *Broker) Get(ctx context.Context, key string) ([]byte, error) {
	return b.inner.Get(ctx, key)
}

func (b *Broker) Set(ctx context.Context, key string, value []byte) error {
	if err := b.inner.Set(ctx, key, value); err != nil {
		return err
	}
	b.publish(key)
	return nil
}

func (b *Broker) Delete(ctx context.Context, key string) error {
	if err := b.inner.Delete(ctx, key); err != nil {
		return err
	}
	b.publish(key)
	return nil
}

func (b *Broker) Update(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error {
	if err := b.inner.Update(ctx, key, fn); err != nil {
		return err
	}
	b.publish(key)
	return nil
}
