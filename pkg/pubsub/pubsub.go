// Package pubsub fans calculation snapshots out to in-process listeners.
// The GUI layer subscribes to the analysis topic instead of polling after
// every mutation; publishes never block the calculating goroutine.
package pubsub

import (
	"context"
	"sync"
)

// Topic names published by the calculation engine.
const (
	TopicAnalysis = "analysis"
	TopicBattery  = "battery"
)

// Bus provides in-process publish/subscribe for calculation updates.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Subscription]struct{}
	closed      bool
}

// Subscription is one listener attached to a topic.
type Subscription struct {
	topic     string
	ch        chan any
	bus       *Bus
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subscribers: make(map[string]map[*Subscription]struct{})}
}

// Subscribe attaches a listener to a topic. The subscription is torn down
// when ctx is cancelled, when Unsubscribe is called, or when the bus closes.
func (b *Bus) Subscribe(ctx context.Context, topic string) *Subscription {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topic:  topic,
		ch:     make(chan any, 64),
		bus:    b,
		cancel: cancel,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		cancel()
		sub.close()
		return sub
	}
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription]struct{})
	}
	b.subscribers[topic][sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-subCtx.Done()
		sub.Unsubscribe()
	}()

	return sub
}

// Publish delivers a message to every subscriber of the topic. Sends are
// non-blocking; a subscriber that has fallen 64 messages behind misses the
// update and catches up on its next snapshot.
func (b *Bus) Publish(topic string, message any) {
	b.mu.RLock()
	if b.closed || len(b.subscribers[topic]) == 0 {
		b.mu.RUnlock()
		return
	}
	subs := make([]*Subscription, 0, len(b.subscribers[topic]))
	for sub := range b.subscribers[topic] {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.ch <- message:
		default:
		}
	}
}

// SubscriberCount returns the number of listeners on a topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Close tears down all subscriptions. Further publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subscribers {
		for sub := range subs {
			sub.cancel()
			sub.close()
		}
		delete(b.subscribers, topic)
	}
}

// Channel returns the subscription's message channel. It is closed when the
// subscription ends.
func (s *Subscription) Channel() <-chan any {
	return s.ch
}

// Unsubscribe detaches the listener and closes its channel.
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.bus.mu.Lock()
	if subs := s.bus.subscribers[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.bus.subscribers, s.topic)
		}
	}
	s.bus.mu.Unlock()

	s.close()
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() { close(s.ch) })
}
