package realtime

import (
	"context"
	"sync"
)

// MemoryBroker is a process-local publish/subscribe broker keyed by tenant.
// It backs single-process deployments and tests; the Redis publisher covers
// multi-process setups.
type MemoryBroker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
}

// NewMemoryBroker creates a broker instance.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subscribers: make(map[string][]chan Event),
	}
}

// Publish delivers the event to current subscribers of the tenant's channel.
// Subscribers with full buffers are skipped rather than blocking the caller.
func (b *MemoryBroker) Publish(_ context.Context, tenantID string, event Event) error {
	b.mu.RLock()
	subs := append([]chan Event{}, b.subscribers[tenantID]...)
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a channel for the tenant and returns it along with a
// cancel function that removes the subscription.
func (b *MemoryBroker) Subscribe(tenantID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.subscribers[tenantID] = append(b.subscribers[tenantID], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[tenantID]
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[tenantID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}
