package pubsub

import (
	"fmt"
	"sync"
)

// Broker fans entitlement updates out to in-process listeners keyed by
// (user, provider). Slow listeners drop updates instead of blocking Publish.
type Broker struct {
	mu        sync.RWMutex
	listeners map[string]map[int]chan *EntitlementUpdate
	nextID    int
}

func NewBroker() *Broker {
	return &Broker{
		listeners: make(map[string]map[int]chan *EntitlementUpdate),
	}
}

func brokerKey(userID, providerID int64) string {
	return fmt.Sprintf("%d_%d", userID, providerID)
}

// Subscribe registers a listener for one (user, provider) pair. The returned
// cancel func must be called exactly once; it closes the channel.
func (b *Broker) Subscribe(userID, providerID int64) (<-chan *EntitlementUpdate, func()) {
	key := brokerKey(userID, providerID)
	ch := make(chan *EntitlementUpdate, 4)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.listeners[key] == nil {
		b.listeners[key] = make(map[int]chan *EntitlementUpdate)
	}
	b.listeners[key][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.listeners[key]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(b.listeners, key)
				}
			}
			close(ch)
		})
	}

	return ch, cancel
}

// Publish delivers the update to every listener of its key.
func (b *Broker) Publish(update *EntitlementUpdate) {
	key := brokerKey(update.UserID, update.ProviderID)

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.listeners[key] {
		select {
		case ch <- update:
		default:
		}
	}
}

// ListenerCount returns the number of listeners for a key.
func (b *Broker) ListenerCount(userID, providerID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[brokerKey(userID, providerID)])
}
