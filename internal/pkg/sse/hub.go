package sse

import (
	"sync"
)

// TopicSnapshot carries a notice each time a new attendance snapshot is loaded.
const TopicSnapshot = "snapshot"

// Event is one server-sent event.
type Event struct {
	Name string
	Data interface{}
}

// Hub fans events out to the subscribers of a topic.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	buffer      int
}

// NewHub creates a hub whose subscriber channels hold up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 10
	}
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		buffer:      buffer,
	}
}

// Subscribe registers a subscriber to topic. The returned func unsubscribes
// and closes the channel.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan Event]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[topic], ch)
			close(ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
		})
	}

	return ch, cleanup
}

// Publish sends event to every subscriber of topic and returns how many
// received it. Slow subscribers with a full buffer miss the event.
func (h *Hub) Publish(topic string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[topic] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscriberCount returns the number of active subscribers to topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
